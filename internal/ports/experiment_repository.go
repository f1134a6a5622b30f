package ports

import (
	"context"

	"github.com/evalboard/evalboard/internal/domain"
)

type ExperimentRepository interface {
	ListByDataset(ctx context.Context, datasetID string) ([]*domain.Experiment, error)
}
