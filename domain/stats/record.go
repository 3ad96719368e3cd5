package stats

import (
	"hypotest/domain/core"
)

// Record is a stored evaluation: the configuration that produced a result,
// the result itself and the summary of the inputs it was computed from.
type Record struct {
	ID        core.ID        `json:"id" db:"id"`
	Label     string         `json:"label,omitempty" db:"label"`
	Config    TestConfig     `json:"config"`
	Result    TestResult     `json:"result"`
	Inputs    map[string]any `json:"inputs,omitempty"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// NewRecord stamps a fresh identifier and creation time on an evaluation
func NewRecord(label string, cfg TestConfig, result TestResult, inputs map[string]any) Record {
	return Record{
		ID:        core.NewID(),
		Label:     label,
		Config:    cfg,
		Result:    result,
		Inputs:    inputs,
		CreatedAt: core.Now(),
	}
}
