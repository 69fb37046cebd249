package types

import "strconv"

// ContainerID is the host assigned identifier of an ingested container
type ContainerID int64

// String returns the decimal representation of the ID
func (id ContainerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ArtifactID is the host assigned identifier of an ingested artifact
type ArtifactID int64

// String returns the decimal representation of the ID
func (id ArtifactID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
