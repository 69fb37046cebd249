package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// Request is one action invocation
type Request struct {
	Action     types.ActionID `json:"action"`
	Parameters Parameters     `json:"parameters"`
}

// Parameters are the loosely typed action parameters of an invocation
type Parameters map[string]any

// DecodeRequest reads an invocation document. Numbers are kept as json.Number.
func DecodeRequest(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action request")
	}

	id, err := types.ParseActionID(string(req.Action))
	if err != nil {
		return nil, err
	}
	req.Action = id

	if req.Parameters == nil {
		req.Parameters = Parameters{}
	}
	return &req, nil
}

// String returns the parameter as text. Missing or null parameters yield "".
func (p Parameters) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the parameter as an integer. Missing parameters yield 0.
func (p Parameters) Int(key string) (int, error) {
	s := p.String(key)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "parameter is not a number", goerr.V("parameter", key), goerr.V("value", s))
	}
	return int(f), nil
}

// JSON returns the parameter as JSON text. String parameters are returned unchanged so
// callers can validate them.
func (p Parameters) JSON(key string) (string, error) {
	switch v := p[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			return "", goerr.Wrap(err, "failed to encode parameter", goerr.V("parameter", key))
		}
		return strings.TrimSpace(buf.String()), nil
	}
}
