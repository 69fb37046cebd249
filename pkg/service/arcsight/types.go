package arcsight

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Service provides interface to the ArcSight ESM manager REST API
type Service interface {
	// Login authenticates and validates the ESM version. The token is cached, so repeated
	// calls are no-ops until the token is discarded.
	Login(ctx context.Context) error

	// GetCase retrieves a case resource by its resource ID
	GetCase(ctx context.Context, caseID string) (*Case, error)
	// FindAllCaseIDs lists the resource IDs of every case
	FindAllCaseIDs(ctx context.Context) ([]string, error)
	// InsertCase creates a case named name under the group parentID
	InsertCase(ctx context.Context, parentID, name string) (*Case, error)
	// UpdateCase pushes the full case resource back to ArcSight
	UpdateCase(ctx context.Context, resource map[string]any) (*Case, error)

	// GetSecurityEvents fetches the events for ids in one request
	GetSecurityEvents(ctx context.Context, ids []Long) ([]*Event, error)

	// GetGroupByURI resolves a group URI such as "/All Cases/All Cases"
	GetGroupByURI(ctx context.Context, uri string) (*Group, error)
	// GetChildIDByName returns the ID of the child of groupID named name, or "" if absent
	GetChildIDByName(ctx context.Context, groupID, name string) (string, error)

	// Search runs a manager search query
	Search(ctx context.Context, query string, startPosition, pageSize int) (*SearchResult, error)
}

// Case is an ArcSight case resource. Raw keeps every field of the resource so that an
// update can push back fields this type does not model.
type Case struct {
	ResourceID       string
	Name             string
	Description      string
	CreatedTimestamp Long
	EventIDs         []Long

	// HasName is false when the resource carried no name field
	HasName bool

	Raw map[string]any
}

type caseWire struct {
	ResourceID       string          `json:"resourceid"`
	Name             *string         `json:"name"`
	Description      string          `json:"description"`
	CreatedTimestamp Long            `json:"createdTimestamp"`
	EventIDs         oneOrMany[Long] `json:"eventIDs"`
}

func (c *Case) UnmarshalJSON(data []byte) error {
	var w caseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return goerr.Wrap(err, "failed to decode case")
	}

	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}

	*c = Case{
		ResourceID:       w.ResourceID,
		Description:      w.Description,
		CreatedTimestamp: w.CreatedTimestamp,
		EventIDs:         w.EventIDs,
		HasName:          w.Name != nil,
		Raw:              raw,
	}
	if w.Name != nil {
		c.Name = *w.Name
	}
	return nil
}

func (c *Case) MarshalJSON() ([]byte, error) {
	if c.Raw != nil {
		return json.Marshal(c.Raw)
	}
	return json.Marshal(map[string]any{
		"resourceid":       c.ResourceID,
		"name":             c.Name,
		"description":      c.Description,
		"createdTimestamp": c.CreatedTimestamp,
		"eventIDs":         c.EventIDs,
	})
}

// Endpoint is the source or destination block of an event
type Endpoint struct {
	UserName   string `json:"userName"`
	Address    Long   `json:"address"`
	MacAddress Long   `json:"macAddress"`
	Port       Long   `json:"port"`
	HostName   string `json:"hostName"`
}

// Event is an ArcSight security event
type Event struct {
	EventID     Long      `json:"eventId"`
	Name        string    `json:"name"`
	StartTime   Long      `json:"startTime"`
	EndTime     Long      `json:"endTime"`
	Source      *Endpoint `json:"source"`
	Destination *Endpoint `json:"destination"`

	Raw map[string]any `json:"-"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return goerr.Wrap(err, "failed to decode event")
	}

	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}

	*e = Event(a)
	e.Raw = raw
	return nil
}

func (e *Event) MarshalJSON() ([]byte, error) {
	if e.Raw != nil {
		return json.Marshal(e.Raw)
	}
	type alias Event
	return json.Marshal((*alias)(e))
}

// Group is an ArcSight group resource
type Group struct {
	ResourceID string `json:"resourceid"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
}

// SearchResult is the result of a manager search. Raw holds the whole result with
// searchHits always normalized to a list.
type SearchResult struct {
	HitCount   Long
	SearchHits []any
	Raw        map[string]any
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	var w struct {
		HitCount   Long           `json:"hitCount"`
		SearchHits oneOrMany[any] `json:"searchHits"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return goerr.Wrap(err, "failed to decode search result")
	}

	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}

	hits := []any(w.SearchHits)
	if hits == nil {
		hits = []any{}
	}
	raw["searchHits"] = hits

	*r = SearchResult{
		HitCount:   w.HitCount,
		SearchHits: hits,
		Raw:        raw,
	}
	return nil
}

func (r *SearchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw)
}

// decodeRaw decodes a JSON object keeping numbers as json.Number so that 64 bit IDs
// survive a round trip
func decodeRaw(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode raw resource")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
