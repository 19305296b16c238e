package model

import "time"

// RunKind identifies which harness operation produced a run.
type RunKind string

const (
	RunLint   RunKind = "lint"
	RunDraft  RunKind = "draft"
	RunRevise RunKind = "revise"
)

// Valid reports whether k is a known run kind.
func (k RunKind) Valid() bool {
	switch k {
	case RunLint, RunDraft, RunRevise:
		return true
	}
	return false
}

// Run is one recorded lint, draft or revise pass and the violations it found.
type Run struct {
	ID     string  `json:"id"`
	Kind   RunKind `json:"kind"`
	Scene  string  `json:"scene,omitempty"`
	Source string  `json:"source,omitempty"`
	// Provider and Model are set for generation runs.
	Provider        string      `json:"provider,omitempty"`
	Model           string      `json:"model,omitempty"`
	Version         int         `json:"version"`
	Supersedes      string      `json:"supersedes,omitempty"`
	StyleCount      int         `json:"style_count"`
	ContinuityCount int         `json:"continuity_count"`
	CreatedAt       time.Time   `json:"created_at"`
	Violations      []Violation `json:"violations,omitempty"`
}

// Total returns the number of violations the run found.
func (r Run) Total() int {
	return r.StyleCount + r.ContinuityCount
}
