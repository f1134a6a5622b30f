package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/util"
)

type ExperimentRepository struct {
	db *sql.DB
}

func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

func (r *ExperimentRepository) ListByDataset(ctx context.Context, datasetID string) ([]*domain.Experiment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dataset_id, name, description, repetitions, created_at
		FROM experiments WHERE dataset_id = ? ORDER BY created_at`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Experiment
	for rows.Next() {
		exp, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row rowScanner) (*domain.Experiment, error) {
	var exp domain.Experiment
	var description sql.NullString
	var createdAt string
	if err := row.Scan(&exp.ID, &exp.DatasetID, &exp.Name, &description, &exp.Repetitions, &createdAt); err != nil {
		return nil, err
	}
	exp.Description = util.NullStringToPtr(description)
	exp.CreatedAt = util.ParseTimestamp(createdAt)
	return &exp, nil
}
