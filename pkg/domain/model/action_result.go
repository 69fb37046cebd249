package model

import (
	"github.com/google/uuid"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// RunID identifies one action invocation in logs and results
type RunID string

// NewRunID generates a new UUID v4 RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// ActionResult is what the connector reports back for one action invocation
type ActionResult struct {
	RunID   RunID              `json:"run_id"`
	Action  types.ActionID     `json:"action"`
	Status  types.ActionStatus `json:"status"`
	Message string             `json:"message"`
	Summary map[string]any     `json:"summary"`
	Data    []any              `json:"data"`
}

// NewActionResult creates an empty result for action
func NewActionResult(action types.ActionID) *ActionResult {
	return &ActionResult{
		RunID:   NewRunID(),
		Action:  action,
		Summary: map[string]any{},
		Data:    []any{},
	}
}

// AddData appends one structured payload
func (r *ActionResult) AddData(v any) {
	r.Data = append(r.Data, v)
}

// SetSummary sets one summary key
func (r *ActionResult) SetSummary(key string, value any) {
	r.Summary[key] = value
}

// Succeed marks the result as successful with msg
func (r *ActionResult) Succeed(msg string) *ActionResult {
	r.Status = types.ActionStatusSuccess
	r.Message = msg
	return r
}

// Fail marks the result as failed. The message is err's text.
func (r *ActionResult) Fail(err error) *ActionResult {
	r.Status = types.ActionStatusFailed
	if err != nil {
		r.Message = err.Error()
	}
	return r
}
