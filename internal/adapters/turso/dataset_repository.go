package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/util"
)

type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM datasets WHERE id = ?`, id)

	var ds domain.Dataset
	var description sql.NullString
	var createdAt string
	if err := row.Scan(&ds.ID, &ds.Name, &description, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	ds.Description = util.NullStringToPtr(description)
	ds.CreatedAt = util.ParseTimestamp(createdAt)
	return &ds, nil
}

func (r *DatasetRepository) List(ctx context.Context) ([]*domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at FROM datasets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var out []*domain.Dataset
	for rows.Next() {
		var ds domain.Dataset
		var description sql.NullString
		var createdAt string
		if err := rows.Scan(&ds.ID, &ds.Name, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		ds.Description = util.NullStringToPtr(description)
		ds.CreatedAt = util.ParseTimestamp(createdAt)
		out = append(out, &ds)
	}
	return out, rows.Err()
}

func (r *DatasetRepository) CountExamples(ctx context.Context, datasetID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dataset_examples WHERE dataset_id = ?`, datasetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count examples: %w", err)
	}
	return count, nil
}
