package model

import (
	"time"

	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// Container is the host side representation of one ArcSight case
type Container struct {
	ID                   types.ContainerID `json:"id" firestore:"id"`
	SourceDataIdentifier string            `json:"source_data_identifier" firestore:"source_data_identifier"`
	Name                 string            `json:"name" firestore:"name"`
	Description          string            `json:"description,omitempty" firestore:"description"`
	StartTime            string            `json:"start_time,omitempty" firestore:"start_time"`
	Label                string            `json:"label,omitempty" firestore:"label"`
	Severity             string            `json:"severity,omitempty" firestore:"severity"`
	Tags                 []string          `json:"tags,omitempty" firestore:"tags"`
	Data                 map[string]any    `json:"data,omitempty" firestore:"data"`
	CreatedAt            time.Time         `json:"created_at" firestore:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" firestore:"updated_at"`
}

// WithCommon returns a copy of c with empty label, severity and tags filled from cf.
// c itself is never modified.
func (c *Container) WithCommon(cf CommonFields) *Container {
	merged := c.Clone()
	if merged.Label == "" {
		merged.Label = cf.Label
	}
	if merged.Severity == "" {
		merged.Severity = cf.Severity
	}
	if len(merged.Tags) == 0 && len(cf.Tags) > 0 {
		merged.Tags = append([]string(nil), cf.Tags...)
	}
	return merged
}

// Clone returns a copy of c. Data is copied one level deep.
func (c *Container) Clone() *Container {
	copied := *c
	if c.Tags != nil {
		copied.Tags = append([]string(nil), c.Tags...)
	}
	if c.Data != nil {
		copied.Data = make(map[string]any, len(c.Data))
		for k, v := range c.Data {
			copied.Data[k] = v
		}
	}
	return &copied
}
