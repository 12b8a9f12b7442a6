package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/terncalc/pkg/engine"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, mutate func(*engine.Config)) *Server {
	t.Helper()
	cfg := engine.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := engine.New(cfg, nil)
	require.NoError(t, err)
	return New(eng, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, s *Server) SessionResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	created := createSession(t, s)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "0", created.Text)
	assert.Len(t, created.Inputs, 14)

	w := do(t, s, http.MethodPost, "/v1/sessions/"+created.ID+"/inputs", InputsRequest{Keys: "12+2="})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[InputsResponse](t, w)
	assert.Len(t, resp.Steps, 5)
	assert.Equal(t, int64(7), resp.Session.Value)
	assert.Equal(t, "21", resp.Session.Text)

	w = do(t, s, http.MethodGet, "/v1/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "21", decode[SessionResponse](t, w).Text)

	w = do(t, s, http.MethodDelete, "/v1/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/v1/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, s, http.MethodDelete, "/v1/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInputs_Rejections(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID

	w := do(t, s, http.MethodPost, "/v1/sessions/"+id+"/inputs", InputsRequest{Keys: "+1)U"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[InputsResponse](t, w)
	require.Len(t, resp.Steps, 4)

	assert.False(t, resp.Steps[0].Accepted)
	assert.Equal(t, "expect number", resp.Steps[0].Reason)
	assert.True(t, resp.Steps[1].Accepted)
	assert.False(t, resp.Steps[2].Accepted)
	assert.True(t, resp.Steps[3].Accepted)
	assert.Equal(t, uint64(0), resp.Session.Seq)
}

func TestInputs_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID
	path := "/v1/sessions/" + id + "/inputs"

	cases := []struct {
		name string
		body any
		code string
	}{
		{"empty keys", InputsRequest{}, "VALIDATION_FAILED"},
		{"too long", InputsRequest{Keys: strings.Repeat("1", MaxKeysPerRequest+1)}, "VALIDATION_FAILED"},
		{"unknown key", InputsRequest{Keys: "13"}, "UNKNOWN_KEY"},
		{"not json", "nope", "INVALID_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestInvalidSessionID(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SESSION_ID", decode[ErrorResponse](t, w).Code)
}

func TestEnabled(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID
	do(t, s, http.MethodPost, "/v1/sessions/"+id+"/inputs", InputsRequest{Keys: "("})

	w := do(t, s, http.MethodGet, "/v1/sessions/"+id+"/enabled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[EnabledResponse](t, w)
	require.Len(t, resp.Inputs, 14)

	byLabel := map[string]engine.AvailabilityReport{}
	for _, in := range resp.Inputs {
		byLabel[in.Symbol] = in
	}
	assert.True(t, byLabel["undo"].Enabled)
	assert.False(t, byLabel["="].Enabled)
	assert.Equal(t, "unclosed parenthesis", byLabel["="].Reason)
}

func TestFormatAndParse(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/v1/format/-16", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[FormatResponse](t, w)
	assert.Equal(t, "-121", resp.Displays["ternary"])
	assert.Equal(t, "-16", resp.Displays["decimal"])

	w = do(t, s, http.MethodGet, "/v1/parse/-121", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(-16), decode[FormatResponse](t, w).Value)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/format/ten", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/parse/123", nil).Code)
}

func TestSessionLimit(t *testing.T) {
	s := newTestServer(t, func(c *engine.Config) { c.Server.MaxSessions = 2 })
	createSession(t, s)
	createSession(t, s)

	w := do(t, s, http.MethodPost, "/v1/sessions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SESSION_LIMIT", decode[ErrorResponse](t, w).Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *engine.Config) {
		c.Server.RequestsPerSecond = 0.001
		c.Server.Burst = 2
	})
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/format/1", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/format/2", nil).Code)

	w := do(t, s, http.MethodGet, "/v1/format/3", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode[ErrorResponse](t, w).Code)

	// Health checks and scrapes are not throttled.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", nil).Code)
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/metrics", nil).Code)
	}
}

func TestSessionClosedAfterLookup(t *testing.T) {
	s := newTestServer(t, nil)
	created := createSession(t, s)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	// The calculator is released while the session is still indexed, as
	// when eviction races a request that already found it.
	sess, err := s.sessions.get(id)
	require.NoError(t, err)
	sess.close()

	path := "/v1/sessions/" + created.ID
	for _, w := range []*httptest.ResponseRecorder{
		do(t, s, http.MethodPost, path+"/inputs", InputsRequest{Keys: "1"}),
		do(t, s, http.MethodGet, path, nil),
		do(t, s, http.MethodGet, path+"/enabled", nil),
	} {
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		assert.Equal(t, "SESSION_NOT_FOUND", decode[ErrorResponse](t, w).Code)
	}
}

func TestEvictIdleSessions(t *testing.T) {
	s := newTestServer(t, func(c *engine.Config) { c.Server.SessionTTL = time.Minute })
	now := time.Now()
	s.sessions.now = func() time.Time { return now }

	stale := createSession(t, s).ID
	now = now.Add(45 * time.Second)
	fresh := createSession(t, s).ID
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, s.sessions.evict())
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/sessions/"+stale, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/sessions/"+fresh, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	createSession(t, s)
	w := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "terncalc_sessions_active")
}

func TestStream(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + id + "/stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(InputsRequest{Keys: "2*2="}))
	var msg StreamMessage
	require.NoError(t, ws.ReadJSON(&msg))
	require.Nil(t, msg.Error)
	require.NotNil(t, msg.InputsResponse)
	assert.Equal(t, "11", msg.Session.Text)

	require.NoError(t, ws.WriteJSON(InputsRequest{Keys: "9"}))
	msg = StreamMessage{}
	require.NoError(t, ws.ReadJSON(&msg))
	require.NotNil(t, msg.Error)
	assert.Equal(t, "UNKNOWN_KEY", msg.Error.Code)

	// The stream and the REST endpoints share the session.
	w := do(t, s, http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Equal(t, "11", decode[SessionResponse](t, w).Text)
}
