package arcsight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// NotFilled64 marks an unset 64 bit field in ArcSight event payloads
	NotFilled64 = Long(math.MaxInt64)
	// NotFilled32 marks an unset 32 bit field in ArcSight event payloads
	NotFilled32 = Long(math.MaxInt32)

	// TimestampLayout renders epoch milliseconds in local time. The trailing Z is literal.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Long is an ArcSight integer field. The REST API sends these as JSON numbers or quoted
// strings depending on the service, and null for absent values.
type Long int64

func (l *Long) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return goerr.Wrap(err, "invalid quoted integer", goerr.V("value", s))
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			*l = 0
			return nil
		}
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*l = Long(v)
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid integer", goerr.V("value", s))
	}
	if f >= math.MaxInt64 {
		*l = NotFilled64
		return nil
	}
	*l = Long(f)
	return nil
}

func (l Long) String() string {
	return strconv.FormatInt(int64(l), 10)
}

// ToIP converts a packed IPv4 address to dotted quad notation
func ToIP(v Long) string {
	if v == 0 || v == NotFilled64 {
		return ""
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return ""
	}

	ip := uint32(int64(v))
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

// ToMAC converts a packed MAC address to colon separated lower case hex
func ToMAC(v Long) string {
	if v == 0 || v == NotFilled64 {
		return ""
	}

	hex := fmt.Sprintf("%012x", uint64(v))[:12]

	parts := make([]string, 0, 6)
	for i := 0; i < len(hex); i += 2 {
		parts = append(parts, hex[i:i+2])
	}
	return strings.Join(parts, ":")
}

// ToPort returns the decimal port number
func ToPort(v Long) string {
	if v == 0 || v == NotFilled32 {
		return ""
	}
	return v.String()
}

// ToTimestamp converts epoch milliseconds to TimestampLayout in local time
func ToTimestamp(v Long) string {
	if v == 0 || v == NotFilled64 {
		return ""
	}
	return time.UnixMilli(int64(v)).Local().Format(TimestampLayout)
}

// oneOrMany decodes a field that ArcSight sends as a bare value when there is one
// element and as an array otherwise
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return goerr.Wrap(err, "failed to decode list")
		}
		*o = items
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return goerr.Wrap(err, "failed to decode single value")
	}
	*o = []T{item}
	return nil
}

// decodeReturn unwraps {"<ns>.<op>Response": {"<ns>.return": T}}. A missing envelope or
// return value yields the zero T and found=false.
func decodeReturn[T any](body []byte, ns, op string) (value T, found bool, err error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return value, false, goerr.Wrap(ErrInvalidResponse, "response is not a JSON object",
			goerr.V("namespace", ns), goerr.V("operation", op), goerr.V("error", err.Error()))
	}

	resp, ok := envelope[ns+"."+op+"Response"]
	if !ok {
		return value, false, nil
	}

	// an absent result is sent as an empty string instead of an object
	resp = bytes.TrimSpace(resp)
	if len(resp) == 0 || resp[0] != '{' {
		return value, false, nil
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(resp, &inner); err != nil {
		return value, false, goerr.Wrap(ErrInvalidResponse, "failed to decode response envelope",
			goerr.V("namespace", ns), goerr.V("operation", op), goerr.V("error", err.Error()))
	}

	ret, ok := inner[ns+".return"]
	if !ok || bytes.Equal(bytes.TrimSpace(ret), []byte("null")) {
		return value, false, nil
	}

	if err := json.Unmarshal(ret, &value); err != nil {
		return value, false, goerr.Wrap(ErrInvalidResponse, "failed to decode return value",
			goerr.V("namespace", ns), goerr.V("operation", op), goerr.V("error", err.Error()))
	}
	return value, true, nil
}
