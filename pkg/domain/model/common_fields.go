package model

// CommonFields are defaults applied to every ingested container or artifact.
// Values already set on the record take precedence.
type CommonFields struct {
	Label    string   `toml:"label"`
	Severity string   `toml:"severity"`
	Tags     []string `toml:"tags"`
	// Type is only applied to artifacts
	Type string `toml:"type"`
}
