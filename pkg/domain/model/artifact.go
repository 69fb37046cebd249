package model

import (
	"time"

	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// CEF keys populated from ArcSight event endpoints
const (
	CEFSourceUserName        = "sourceUserName"
	CEFSourceAddress         = "sourceAddress"
	CEFSourceMacAddress      = "sourceMacAddress"
	CEFSourcePort            = "sourcePort"
	CEFSourceHostName        = "sourceHostName"
	CEFDestinationUserName   = "destinationUserName"
	CEFDestinationAddress    = "destinationAddress"
	CEFDestinationMacAddress = "destinationMacAddress"
	CEFDestinationPort       = "destinationPort"
	CEFDestinationHostName   = "destinationHostName"
)

// Artifact is the host side representation of one ArcSight security event
type Artifact struct {
	ID                   types.ArtifactID  `json:"id" firestore:"id"`
	ContainerID          types.ContainerID `json:"container_id" firestore:"container_id"`
	SourceDataIdentifier string            `json:"source_data_identifier" firestore:"source_data_identifier"`
	Name                 string            `json:"name" firestore:"name"`
	StartTime            string            `json:"start_time,omitempty" firestore:"start_time"`
	EndTime              string            `json:"end_time,omitempty" firestore:"end_time"`
	CEF                  map[string]string `json:"cef" firestore:"cef"`
	Label                string            `json:"label,omitempty" firestore:"label"`
	Severity             string            `json:"severity,omitempty" firestore:"severity"`
	Type                 string            `json:"type,omitempty" firestore:"type"`
	RunAutomation        bool              `json:"run_automation" firestore:"run_automation"`
	Data                 map[string]any    `json:"data,omitempty" firestore:"data"`
	CreatedAt            time.Time         `json:"created_at" firestore:"created_at"`
}

// WithCommon returns a copy of a with empty label, severity and type filled from cf
func (a *Artifact) WithCommon(cf CommonFields) *Artifact {
	merged := a.Clone()
	if merged.Label == "" {
		merged.Label = cf.Label
	}
	if merged.Severity == "" {
		merged.Severity = cf.Severity
	}
	if merged.Type == "" {
		merged.Type = cf.Type
	}
	return merged
}

// Clone returns a copy of a. CEF and Data are copied one level deep.
func (a *Artifact) Clone() *Artifact {
	copied := *a
	if a.CEF != nil {
		copied.CEF = make(map[string]string, len(a.CEF))
		for k, v := range a.CEF {
			copied.CEF[k] = v
		}
	}
	if a.Data != nil {
		copied.Data = make(map[string]any, len(a.Data))
		for k, v := range a.Data {
			copied.Data[k] = v
		}
	}
	return &copied
}
