package ports

import (
	"context"

	"github.com/evalboard/evalboard/internal/domain"
)

type DatasetRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Dataset, error)
	List(ctx context.Context) ([]*domain.Dataset, error)
	CountExamples(ctx context.Context, datasetID string) (int64, error)
}
