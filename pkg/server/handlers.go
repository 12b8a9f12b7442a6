package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wildfunctions/terncalc/pkg/display"
	"github.com/wildfunctions/terncalc/pkg/ternary"
)

// HandleHealth reports liveness and the session count.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.count(),
	})
}

// HandleCreateSession starts a calculator at the blank state.
func (s *Server) HandleCreateSession(c *gin.Context) {
	sess, err := s.sessions.create(s.eng.NewCalculator())
	if err != nil {
		s.log.Warn("session refused", "error", err, "max_sessions", s.cfg.MaxSessions)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: err.Error(),
			Code:  "SESSION_LIMIT",
		})
		return
	}
	s.log.Info("session created", "session_id", sess.id)

	sess.mu.Lock()
	resp := s.describe(sess)
	sess.mu.Unlock()
	c.JSON(http.StatusCreated, resp)
}

// HandleGetSession returns the current display and enabled inputs.
func (s *Server) HandleGetSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed() {
		s.sessionGone(c, sess)
		return
	}
	c.JSON(http.StatusOK, s.describe(sess))
}

// HandleDeleteSession closes a session and releases its history.
func (s *Server) HandleDeleteSession(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	if err := s.sessions.remove(id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "SESSION_NOT_FOUND"})
		return
	}
	s.log.Info("session deleted", "session_id", id)
	c.Status(http.StatusNoContent)
}

// HandleInputs applies a key sequence. Rejected keys are reported per step
// and do not abort the sequence.
func (s *Server) HandleInputs(c *gin.Context) {
	var req InputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
		return
	}
	syms, err := s.eng.Parse(req.Keys)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_KEY"})
		return
	}

	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	if sess.closed() {
		sess.mu.Unlock()
		s.sessionGone(c, sess)
		return
	}
	steps := s.eng.Feed(sess.calc, syms)
	resp := InputsResponse{Steps: steps, Session: s.describe(sess)}
	sess.mu.Unlock()

	s.log.Debug("inputs applied", "session_id", sess.id, "keys", len(syms), "seq", resp.Session.Seq)
	c.JSON(http.StatusOK, resp)
}

// HandleEnabled answers which inputs the session accepts right now.
func (s *Server) HandleEnabled(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	if sess.closed() {
		sess.mu.Unlock()
		s.sessionGone(c, sess)
		return
	}
	snap := s.eng.Snapshot(sess.calc)
	sess.mu.Unlock()
	c.JSON(http.StatusOK, EnabledResponse{ID: sess.id.String(), Inputs: snap.Inputs})
}

// HandleFormat renders a decimal value with every display.
func (s *Server) HandleFormat(c *gin.Context) {
	v, err := strconv.ParseInt(c.Param("value"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUE"})
		return
	}
	c.JSON(http.StatusOK, formatAll(v))
}

// HandleParse reads a ternary numeral.
func (s *Server) HandleParse(c *gin.Context) {
	v, err := ternary.Parse(c.Param("ternary"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUE"})
		return
	}
	c.JSON(http.StatusOK, formatAll(v))
}

func formatAll(v int64) FormatResponse {
	resp := FormatResponse{Value: v, Displays: make(map[string]string)}
	for _, name := range display.Names() {
		r, err := display.Get(name)
		if err != nil {
			continue
		}
		resp.Displays[name] = r.Render(v)
	}
	return resp
}

// describe must be called with sess.mu held.
func (s *Server) describe(sess *session) SessionResponse {
	return SessionResponse{ID: sess.id.String(), Snapshot: s.eng.Snapshot(sess.calc)}
}

// sessionGone answers for a session closed after lookup, by eviction or
// a concurrent delete.
func (s *Server) sessionGone(c *gin.Context, sess *session) {
	s.log.Debug("session closed during request", "session_id", sess.id)
	c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrSessionNotFound.Error(), Code: "SESSION_NOT_FOUND"})
}

func (s *Server) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id", Code: "INVALID_SESSION_ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	id, ok := s.parseID(c)
	if !ok {
		return nil, false
	}
	sess, err := s.sessions.get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: "SESSION_NOT_FOUND"})
		return nil, false
	}
	return sess, true
}
