package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

func TestParseActionID(t *testing.T) {
	for _, id := range types.AllActionIDs() {
		t.Run(id.String(), func(t *testing.T) {
			parsed, err := types.ParseActionID(" " + id.String() + " ")
			gt.NoError(t, err).Required()
			gt.Value(t, parsed).Equal(id)
		})
	}

	t.Run("unknown action", func(t *testing.T) {
		_, err := types.ParseActionID("delete_everything")
		gt.Value(t, err).NotNil()
	})

	t.Run("empty action", func(t *testing.T) {
		_, err := types.ParseActionID("")
		gt.Value(t, err).NotNil()
	})
}

func TestContainerID_String(t *testing.T) {
	gt.Value(t, types.ContainerID(42).String()).Equal("42")
	gt.Value(t, types.ArtifactID(7).String()).Equal("7")
}
