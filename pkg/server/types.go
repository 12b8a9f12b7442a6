package server

import "github.com/wildfunctions/terncalc/pkg/engine"

// MaxKeysPerRequest bounds the keys accepted by one inputs request.
const MaxKeysPerRequest = 4096

// InputsRequest is the body of POST /v1/sessions/:id/inputs. Keys are
// read through the server keymap; whitespace is ignored.
type InputsRequest struct {
	Keys string `json:"keys" validate:"required,max=4096"`
}

// SessionResponse describes a session and its calculator.
type SessionResponse struct {
	ID string `json:"id"`
	engine.Snapshot
}

// InputsResponse reports each applied key and the resulting session.
type InputsResponse struct {
	Steps   []engine.StepReport `json:"steps"`
	Session SessionResponse     `json:"session"`
}

// EnabledResponse answers the enabled-input query.
type EnabledResponse struct {
	ID     string                      `json:"id"`
	Inputs []engine.AvailabilityReport `json:"inputs"`
}

// FormatResponse shows one value in every registered display.
type FormatResponse struct {
	Value    int64             `json:"value"`
	Displays map[string]string `json:"displays"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
