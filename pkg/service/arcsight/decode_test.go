package arcsight_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
)

func TestToIP(t *testing.T) {
	tests := []struct {
		name  string
		input arcsight.Long
		want  string
	}{
		{name: "loopback", input: 0x7F000001, want: "127.0.0.1"},
		{name: "private address", input: 167772161, want: "10.0.0.1"},
		{name: "high bit set", input: 0xC0A80101, want: "192.168.1.1"},
		{name: "signed 32 bit form", input: -1062731519, want: "192.168.1.1"},
		{name: "zero", input: 0, want: ""},
		{name: "not filled", input: arcsight.NotFilled64, want: ""},
		{name: "out of range", input: 1 << 40, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, arcsight.ToIP(tt.input)).Equal(tt.want)
		})
	}
}

func TestToMAC(t *testing.T) {
	tests := []struct {
		name  string
		input arcsight.Long
		want  string
	}{
		{name: "full address", input: 0xaabbccddeeff, want: "aa:bb:cc:dd:ee:ff"},
		{name: "leading zeros", input: 0x0000000000ff, want: "00:00:00:00:00:ff"},
		{name: "zero", input: 0, want: ""},
		{name: "not filled", input: arcsight.NotFilled64, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, arcsight.ToMAC(tt.input)).Equal(tt.want)
		})
	}
}

func TestToPort(t *testing.T) {
	gt.Value(t, arcsight.ToPort(443)).Equal("443")
	gt.Value(t, arcsight.ToPort(0)).Equal("")
	gt.Value(t, arcsight.ToPort(arcsight.NotFilled32)).Equal("")
}

func TestToTimestamp(t *testing.T) {
	t.Run("formats epoch millis in local time", func(t *testing.T) {
		ms := arcsight.Long(1437438479123)
		want := time.UnixMilli(1437438479123).Local().Format("2006-01-02T15:04:05.000000Z")
		gt.Value(t, arcsight.ToTimestamp(ms)).Equal(want)
		gt.String(t, arcsight.ToTimestamp(ms)).Contains(".123000Z")
	})

	t.Run("empty and sentinel", func(t *testing.T) {
		gt.Value(t, arcsight.ToTimestamp(0)).Equal("")
		gt.Value(t, arcsight.ToTimestamp(arcsight.NotFilled64)).Equal("")
	})
}

func TestLongUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    arcsight.Long
		wantErr bool
	}{
		{name: "number", input: `12345`, want: 12345},
		{name: "quoted", input: `"12345"`, want: 12345},
		{name: "negative", input: `-5`, want: -5},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "max int64", input: `9223372036854775807`, want: arcsight.NotFilled64},
		{name: "not a number", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v arcsight.Long
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, v).Equal(tt.want)
		})
	}
}

func TestCaseUnmarshal(t *testing.T) {
	t.Run("single event ID", func(t *testing.T) {
		var c arcsight.Case
		gt.NoError(t, json.Unmarshal([]byte(`{"resourceid":"r1","name":"case","eventIDs":42,"custom":"x"}`), &c)).Required()
		gt.Value(t, c.ResourceID).Equal("r1")
		gt.Value(t, c.Name).Equal("case")
		gt.Bool(t, c.HasName).True()
		gt.Array(t, c.EventIDs).Equal([]arcsight.Long{42})
		gt.Value(t, c.Raw["custom"]).Equal(any("x"))
	})

	t.Run("event ID list", func(t *testing.T) {
		var c arcsight.Case
		gt.NoError(t, json.Unmarshal([]byte(`{"name":"case","eventIDs":[1,"2",3]}`), &c)).Required()
		gt.Array(t, c.EventIDs).Equal([]arcsight.Long{1, 2, 3})
	})

	t.Run("missing name and events", func(t *testing.T) {
		var c arcsight.Case
		gt.NoError(t, json.Unmarshal([]byte(`{"resourceid":"r1"}`), &c)).Required()
		gt.Bool(t, c.HasName).False()
		gt.Array(t, c.EventIDs).Length(0)
	})

	t.Run("marshal returns every raw field", func(t *testing.T) {
		var c arcsight.Case
		gt.NoError(t, json.Unmarshal([]byte(`{"resourceid":"r1","name":"case","stage":"QUEUED","createdTimestamp":1437438479123}`), &c)).Required()

		data, err := json.Marshal(&c)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains(`"stage":"QUEUED"`)
		gt.String(t, string(data)).Contains(`"createdTimestamp":1437438479123`)
	})
}
