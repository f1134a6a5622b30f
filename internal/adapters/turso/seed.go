package turso

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Seed populates the database with a demo dataset, three experiments,
// and runs with annotations, so the comparison view has something to
// show on a fresh install. It is a no-op if any dataset already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check datasets: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(42))

	datasetID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		datasetID, "customer-support-qa", "Sample support questions with reference answers", now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	experiments := []struct {
		id   string
		name string
		reps int
	}{
		{uuid.NewString(), "baseline-prompt", 1},
		{uuid.NewString(), "cot-prompt", 3},
		{uuid.NewString(), "cot-prompt-small-model", 3},
	}
	for _, exp := range experiments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO experiments (id, dataset_id, name, description, repetitions, created_at)
			VALUES (?, ?, ?, NULL, ?, ?)`,
			exp.id, datasetID, exp.name, exp.reps, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert experiment: %w", err)
		}
	}

	const exampleCount = 120
	for i := 0; i < exampleCount; i++ {
		exampleID := uuid.NewString()
		input := fmt.Sprintf("Customer question #%03d: how do I reset my account settings?", i+1)
		reference := fmt.Sprintf("Reference answer #%03d: open settings and choose reset.", i+1)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO dataset_examples (id, dataset_id, seq, input, reference_output, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			exampleID, datasetID, i, input, reference, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert example %d: %w", i, err)
		}

		for _, exp := range experiments {
			for rep := 1; rep <= exp.reps; rep++ {
				// Leave an occasional repetition missing so the view has
				// gaps to address by repetition number.
				if exp.reps > 1 && rng.Intn(12) == 0 {
					continue
				}
				if err := seedRun(ctx, tx, rng, exp.id, exampleID, rep, now); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

func seedRun(ctx context.Context, tx *sql.Tx, rng *rand.Rand, experimentID, exampleID string, rep int, now time.Time) error {
	runID := uuid.NewString()
	latency := 200 + rng.Intn(3800)
	started := now.Add(-time.Duration(rng.Intn(72)) * time.Hour)
	ended := started.Add(time.Duration(latency) * time.Millisecond)
	tokens := int64(300 + rng.Intn(2500))
	cost := float64(tokens) * 0.000002

	var output, runErr any
	if rng.Intn(10) == 0 {
		if rng.Intn(2) == 0 {
			runErr = "timeout"
		} else {
			runErr = "rate limited by provider"
		}
	} else {
		output = fmt.Sprintf("To reset your settings, open the settings page and press reset. (rep %d)", rep)
	}

	var traceID, projectID any
	if rng.Intn(3) != 0 {
		traceID = uuid.NewString()
		projectID = "demo-project"
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, experiment_id, example_id, repetition_number, output, error,
		                  started_at, ended_at, latency_ms, tokens_total, cost_usd, trace_id, project_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, experimentID, exampleID, rep, output, runErr,
		started.Format(time.RFC3339), ended.Format(time.RFC3339),
		float64(latency), tokens, cost, traceID, projectID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if runErr == nil {
		score := float64(rng.Intn(101)) / 100
		label := "incorrect"
		if score >= 0.5 {
			label = "correct"
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO annotations (id, run_id, name, score, label, annotator_kind, trace_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), runID, "correctness", score, label, "LLM", traceID, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert annotation: %w", err)
		}
	}
	return nil
}
