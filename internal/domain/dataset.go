package domain

import "time"

type Dataset struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
}

// DatasetExample is one immutable example in a dataset. Seq is the
// server-assigned position used for stable ordering and cursors.
type DatasetExample struct {
	ID              string
	DatasetID       string
	Seq             int64
	Input           string
	ReferenceOutput string
	CreatedAt       time.Time
}
