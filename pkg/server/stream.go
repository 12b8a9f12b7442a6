package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StreamMessage is every frame the stream endpoint writes: the outcome of
// one InputsRequest, or an error.
type StreamMessage struct {
	*InputsResponse
	Error *ErrorResponse `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleStream upgrades to a websocket that reads InputsRequest frames and
// answers each with the applied steps and the session state.
func (s *Server) HandleStream(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "session_id", sess.id, "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(MaxKeysPerRequest * 2)
	log := s.log.With("session_id", sess.id)
	log.Info("stream opened")

	for {
		var req InputsRequest
		if err := ws.ReadJSON(&req); err != nil {
			log.Info("stream closed", "error", err)
			return
		}

		msg := s.streamStep(sess, req)
		if err := ws.WriteJSON(msg); err != nil {
			log.Warn("stream write failed", "error", err)
			return
		}
		if msg.Error != nil && msg.Error.Code == "SESSION_NOT_FOUND" {
			return
		}
	}
}

func (s *Server) streamStep(sess *session, req InputsRequest) StreamMessage {
	if err := s.validate.Struct(req); err != nil {
		return StreamMessage{Error: &ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"}}
	}
	syms, err := s.eng.Parse(req.Keys)
	if err != nil {
		return StreamMessage{Error: &ErrorResponse{Error: err.Error(), Code: "UNKNOWN_KEY"}}
	}
	// Refresh the idle timer; the session may have been deleted meanwhile.
	if _, err := s.sessions.get(sess.id); err != nil {
		return StreamMessage{Error: &ErrorResponse{Error: err.Error(), Code: "SESSION_NOT_FOUND"}}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed() {
		return StreamMessage{Error: &ErrorResponse{Error: ErrSessionNotFound.Error(), Code: "SESSION_NOT_FOUND"}}
	}
	return StreamMessage{InputsResponse: &InputsResponse{
		Steps:   s.eng.Feed(sess.calc, syms),
		Session: s.describe(sess),
	}}
}
