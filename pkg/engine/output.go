package engine

import (
	"encoding/json"
	"fmt"
	"io"
)

// StepReport records one applied symbol.
type StepReport struct {
	Index    int    `json:"index"`
	Symbol   string `json:"symbol"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Value    int64  `json:"value"`
	Text     string `json:"text"`
}

// Transcript is the result of one script.
type Transcript struct {
	Script string       `json:"script"`
	Steps  []StepReport `json:"steps,omitempty"`
	Value  int64        `json:"value"`
	Text   string       `json:"text"`
	Error  string       `json:"error,omitempty"`
}

// AvailabilityReport is one entry of the enabled-input query.
type AvailabilityReport struct {
	Symbol  string `json:"symbol"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// Snapshot summarises a calculator at rest.
type Snapshot struct {
	Seq    uint64               `json:"seq"`
	Value  int64                `json:"value"`
	Text   string               `json:"text"`
	Phase  string               `json:"phase"`
	Depth  int                  `json:"depth"`
	Inputs []AvailabilityReport `json:"inputs"`
}

// Report summarises a batch run.
type Report struct {
	Config      Config       `json:"config"`
	Transcripts []Transcript `json:"transcripts"`
	Accepted    int          `json:"accepted"`
	Rejected    int          `json:"rejected"`
}

// WriteTextTranscript writes one transcript; verbose adds every step.
func WriteTextTranscript(w io.Writer, t Transcript, verbose bool) {
	if t.Error != "" {
		fmt.Fprintf(w, "%-24s  error: %s\n", t.Script, t.Error)
		return
	}
	if verbose {
		for _, s := range t.Steps {
			status := "ok"
			if !s.Accepted {
				status = "rejected: " + s.Reason
			}
			fmt.Fprintf(w, "  %3d %-9s %-20s %s\n", s.Index, s.Symbol, s.Text, status)
		}
	}
	fmt.Fprintf(w, "%-24s  = %s\n", t.Script, t.Text)
}

// WriteTextReport writes every transcript followed by a summary line.
func WriteTextReport(w io.Writer, r Report) {
	for _, t := range r.Transcripts {
		WriteTextTranscript(w, t, r.Config.Verbose)
	}
	if r.Config.Verbose {
		fmt.Fprintf(w, "--- %d scripts, %d inputs accepted, %d rejected\n",
			len(r.Transcripts), r.Accepted, r.Rejected)
	}
}

// WriteTextSnapshot writes the display and the enabled-input table.
func WriteTextSnapshot(w io.Writer, s Snapshot) {
	fmt.Fprintf(w, "Display:  %s\n", s.Text)
	fmt.Fprintf(w, "Phase:    %s\n", s.Phase)
	fmt.Fprintf(w, "Depth:    %d\n", s.Depth)
	fmt.Fprintf(w, "Seq:      %d\n", s.Seq)
	for _, in := range s.Inputs {
		if in.Enabled {
			fmt.Fprintf(w, "  %-9s  enabled\n", in.Symbol)
		} else {
			fmt.Fprintf(w, "  %-9s  %s\n", in.Symbol, in.Reason)
		}
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
