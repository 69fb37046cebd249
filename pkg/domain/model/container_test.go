package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

func TestContainer_WithCommon(t *testing.T) {
	cf := model.CommonFields{Label: "arcsight", Severity: "medium", Tags: []string{"esm"}}

	t.Run("fills empty fields without touching the original", func(t *testing.T) {
		orig := &model.Container{
			SourceDataIdentifier: "case-1",
			Name:                 "Case 1",
			Data:                 map[string]any{"case_detail": "x"},
		}

		merged := orig.WithCommon(cf)
		gt.Value(t, merged.Label).Equal("arcsight")
		gt.Value(t, merged.Severity).Equal("medium")
		gt.Array(t, merged.Tags).Length(1)

		gt.Value(t, orig.Label).Equal("")
		gt.Value(t, orig.Severity).Equal("")
		gt.Array(t, orig.Tags).Length(0)

		merged.Data["case_detail"] = "changed"
		gt.Value(t, orig.Data["case_detail"]).Equal("x")
	})

	t.Run("keeps values already set", func(t *testing.T) {
		orig := &model.Container{Label: "custom", Severity: "high", Tags: []string{"a", "b"}}
		merged := orig.WithCommon(cf)
		gt.Value(t, merged.Label).Equal("custom")
		gt.Value(t, merged.Severity).Equal("high")
		gt.Array(t, merged.Tags).Length(2)
	})

	t.Run("shared tags slice is not aliased", func(t *testing.T) {
		merged := (&model.Container{}).WithCommon(cf)
		merged.Tags[0] = "mutated"
		gt.Value(t, cf.Tags[0]).Equal("esm")
	})
}

func TestArtifact_WithCommon(t *testing.T) {
	cf := model.CommonFields{Label: "event", Severity: "low", Type: "network"}
	orig := &model.Artifact{
		SourceDataIdentifier: "1001",
		CEF:                  map[string]string{model.CEFSourceAddress: "10.0.0.1"},
	}

	merged := orig.WithCommon(cf)
	gt.Value(t, merged.Label).Equal("event")
	gt.Value(t, merged.Severity).Equal("low")
	gt.Value(t, merged.Type).Equal("network")

	merged.CEF[model.CEFSourceAddress] = "changed"
	gt.Value(t, orig.CEF[model.CEFSourceAddress]).Equal("10.0.0.1")
	gt.Value(t, orig.Label).Equal("")
}

func TestIngestOptions_Normalize(t *testing.T) {
	opts := model.IngestOptions{MaxContainers: 0, MaxArtifacts: -1}.Normalize()
	gt.Value(t, opts.MaxContainers).Equal(model.DefaultContainerCount)
	gt.Value(t, opts.MaxArtifacts).Equal(model.DefaultArtifactCount)

	opts = model.IngestOptions{MaxContainers: 2, MaxArtifacts: 5}.Normalize()
	gt.Value(t, opts.MaxContainers).Equal(2)
	gt.Value(t, opts.MaxArtifacts).Equal(5)
}

func TestActionResult(t *testing.T) {
	r := model.NewActionResult(types.ActionGetTicket)
	gt.String(t, string(r.RunID)).NotEqual("")
	gt.Array(t, r.Data).Length(0)

	r.AddData(map[string]any{"name": "case"})
	r.SetSummary("case_id", "abc")
	r.Succeed("done")
	gt.Value(t, r.Status).Equal(types.ActionStatusSuccess)
	gt.Value(t, r.Message).Equal("done")
	gt.Array(t, r.Data).Length(1)
	gt.Value(t, r.Summary["case_id"]).Equal("abc")

	r.Fail(errors.New("boom"))
	gt.Value(t, r.Status).Equal(types.ActionStatusFailed)
	gt.Value(t, r.Message).Equal("boom")
}
