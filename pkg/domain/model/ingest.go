package model

const (
	DefaultContainerCount = 100
	DefaultArtifactCount  = 1000
)

// IngestOptions bounds and decorates one ingestion batch
type IngestOptions struct {
	MaxContainers     int
	MaxArtifacts      int
	ContainerDefaults CommonFields
	ArtifactDefaults  CommonFields
}

// Normalize returns a copy with non-positive caps replaced by the defaults
func (o IngestOptions) Normalize() IngestOptions {
	if o.MaxContainers <= 0 {
		o.MaxContainers = DefaultContainerCount
	}
	if o.MaxArtifacts <= 0 {
		o.MaxArtifacts = DefaultArtifactCount
	}
	return o
}

// IngestReport summarizes what one ingestion batch persisted
type IngestReport struct {
	CasesRequested    int `json:"cases_requested"`
	CasesSkipped      int `json:"cases_skipped"`
	ContainersSaved   int `json:"containers_saved"`
	ArtifactsSaved    int `json:"artifacts_saved"`
	PersistenceErrors int `json:"persistence_errors"`
}
