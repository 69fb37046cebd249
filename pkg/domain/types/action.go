package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ActionID identifies an action the connector can execute
type ActionID string

const (
	ActionTestConnectivity ActionID = "test_asset_connectivity"
	ActionCreateTicket     ActionID = "create_ticket"
	ActionUpdateTicket     ActionID = "update_ticket"
	ActionGetTicket        ActionID = "get_ticket"
	ActionRunQuery         ActionID = "run_query"
	ActionOnPoll           ActionID = "on_poll"
)

// AllActionIDs returns all supported actions
func AllActionIDs() []ActionID {
	return []ActionID{
		ActionTestConnectivity,
		ActionCreateTicket,
		ActionUpdateTicket,
		ActionGetTicket,
		ActionRunQuery,
		ActionOnPoll,
	}
}

// IsValid checks if the action is supported
func (a ActionID) IsValid() bool {
	switch a {
	case ActionTestConnectivity,
		ActionCreateTicket,
		ActionUpdateTicket,
		ActionGetTicket,
		ActionRunQuery,
		ActionOnPoll:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action
func (a ActionID) String() string {
	return string(a)
}

// ParseActionID parses an action identifier. Surrounding spaces are ignored.
func ParseActionID(s string) (ActionID, error) {
	id := ActionID(strings.TrimSpace(s))
	if !id.IsValid() {
		return "", goerr.New("unsupported action", goerr.V("action", s))
	}
	return id, nil
}
