package domain

import "time"

// Experiment is one configuration evaluated against a dataset.
// Repetitions is how many times each example was executed.
type Experiment struct {
	ID          string
	DatasetID   string
	Name        string
	Description *string
	Repetitions int
	CreatedAt   time.Time
}
