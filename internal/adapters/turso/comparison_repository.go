package turso

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/infrastructure/database"
	"github.com/evalboard/evalboard/internal/predicate"
	"github.com/evalboard/evalboard/internal/util"
)

// ComparisonRepository serves the paginated comparison query and the
// predicate validation contract from the libsql database.
type ComparisonRepository struct {
	db *sql.DB
}

func NewComparisonRepository(db *sql.DB) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

const cursorPrefix = "seq:"

func encodeCursor(seq int64) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatInt(seq, 10)))
}

func decodeCursor(cursor string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor: %w", err)
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("malformed cursor %q", string(raw))
	}
	seq, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor sequence: %w", err)
	}
	return seq, nil
}

// FetchComparisonPage returns one page of comparison edges for a
// dataset, ordered by example sequence. When the request carries a
// predicate, an example is included only if at least one run of the
// selected experiments satisfies it. Turso stream errors are retried.
func (r *ComparisonRepository) FetchComparisonPage(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
	return database.WithRetry(ctx, 2, func() (*comparison.Page, error) {
		return r.fetchPage(ctx, req)
	})
}

func (r *ComparisonRepository) fetchPage(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
	if req.DatasetID == "" {
		return nil, fmt.Errorf("dataset id is required")
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = comparison.DefaultPageSize
	}

	var afterSeq int64 = -1
	if req.After != "" {
		seq, err := decodeCursor(req.After)
		if err != nil {
			return nil, err
		}
		afterSeq = seq
	}

	query := `
		SELECT e.id, e.dataset_id, e.seq, e.input, e.reference_output, e.created_at
		FROM dataset_examples e
		WHERE e.dataset_id = ? AND e.seq > ?`
	args := []any{req.DatasetID, afterSeq}

	if strings.TrimSpace(req.Predicate) != "" {
		expr, err := predicate.Parse(req.Predicate)
		if err != nil {
			return nil, fmt.Errorf("invalid predicate: %w", err)
		}
		cond, condArgs, err := predicate.ToSQL(expr)
		if err != nil {
			return nil, fmt.Errorf("compile predicate: %w", err)
		}
		query += fmt.Sprintf(`
		AND EXISTS (
			SELECT 1 FROM runs r
			WHERE r.example_id = e.id
			AND r.experiment_id IN (%s)
			AND (%s)
		)`, placeholders(len(req.ExperimentIDs)), cond)
		for _, id := range req.ExperimentIDs {
			args = append(args, id)
		}
		args = append(args, condArgs...)
	}

	// Fetch one extra row to learn whether a next page exists.
	query += `
		ORDER BY e.seq
		LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query examples: %w", err)
	}
	defer rows.Close()

	var examples []domain.DatasetExample
	for rows.Next() {
		var ex domain.DatasetExample
		var createdAt string
		if err := rows.Scan(&ex.ID, &ex.DatasetID, &ex.Seq, &ex.Input, &ex.ReferenceOutput, &createdAt); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		ex.CreatedAt = util.ParseTimestamp(createdAt)
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate examples: %w", err)
	}

	hasNext := len(examples) > pageSize
	if hasNext {
		examples = examples[:pageSize]
	}

	page := &comparison.Page{PageInfo: comparison.PageInfo{HasNextPage: hasNext}}
	if len(examples) == 0 {
		return page, nil
	}
	page.PageInfo.EndCursor = encodeCursor(examples[len(examples)-1].Seq)

	runsByExample, err := r.fetchRuns(ctx, exampleIDs(examples), req.ExperimentIDs)
	if err != nil {
		return nil, err
	}

	for _, ex := range examples {
		edge := comparison.Edge{
			Cursor:  encodeCursor(ex.Seq),
			Example: ex,
		}
		byExperiment := runsByExample[ex.ID]
		for _, expID := range req.ExperimentIDs {
			if runs := byExperiment[expID]; len(runs) > 0 {
				edge.Groups = append(edge.Groups, comparison.RunGroupNode{
					ExperimentID: expID,
					Runs:         runs,
				})
			}
		}
		page.Edges = append(page.Edges, edge)
	}
	return page, nil
}

// ValidateFilter implements the predicate validation contract.
func (r *ComparisonRepository) ValidateFilter(ctx context.Context, condition string, experimentIDs []string) (comparison.ValidationResult, error) {
	ok, msg := predicate.Validate(condition)
	return comparison.ValidationResult{IsValid: ok, ErrorMessage: msg}, nil
}

func (r *ComparisonRepository) fetchRuns(ctx context.Context, exampleIDs, experimentIDs []string) (map[string]map[string][]domain.Run, error) {
	if len(exampleIDs) == 0 || len(experimentIDs) == 0 {
		return map[string]map[string][]domain.Run{}, nil
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.experiment_id, r.example_id, r.repetition_number,
		       r.output, r.error, r.started_at, r.ended_at,
		       r.tokens_total, r.cost_usd, r.trace_id, r.project_id
		FROM runs r
		WHERE r.example_id IN (%s) AND r.experiment_id IN (%s)
		ORDER BY r.example_id, r.experiment_id, r.repetition_number`,
		placeholders(len(exampleIDs)), placeholders(len(experimentIDs)))

	args := make([]any, 0, len(exampleIDs)+len(experimentIDs))
	for _, id := range exampleIDs {
		args = append(args, id)
	}
	for _, id := range experimentIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runIDs []string
	runs := map[string]*domain.Run{}
	byExample := map[string]map[string][]domain.Run{}
	var order []string // run ids in scan order

	for rows.Next() {
		var run domain.Run
		var output, errMsg, traceID, projectID sql.NullString
		var startedAt, endedAt string
		if err := rows.Scan(&run.ID, &run.ExperimentID, &run.ExampleID, &run.RepetitionNumber,
			&output, &errMsg, &startedAt, &endedAt,
			&run.TokensTotal, &run.CostUSD, &traceID, &projectID); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Output = util.NullStringToPtr(output)
		run.Error = util.NullStringToPtr(errMsg)
		run.TraceID = util.NullStringToPtr(traceID)
		run.ProjectID = util.NullStringToPtr(projectID)
		run.StartedAt = util.ParseTimestamp(startedAt)
		run.EndedAt = util.ParseTimestamp(endedAt)

		runs[run.ID] = &run
		runIDs = append(runIDs, run.ID)
		order = append(order, run.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if err := r.attachAnnotations(ctx, runIDs, runs); err != nil {
		return nil, err
	}

	for _, id := range order {
		run := runs[id]
		if byExample[run.ExampleID] == nil {
			byExample[run.ExampleID] = map[string][]domain.Run{}
		}
		byExample[run.ExampleID][run.ExperimentID] = append(byExample[run.ExampleID][run.ExperimentID], *run)
	}
	return byExample, nil
}

func (r *ComparisonRepository) attachAnnotations(ctx context.Context, runIDs []string, runs map[string]*domain.Run) error {
	if len(runIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.run_id, a.name, a.score, a.label, a.annotator_kind, a.trace_id, a.created_at
		FROM annotations a
		WHERE a.run_id IN (%s)
		ORDER BY a.run_id, a.name`, placeholders(len(runIDs)))

	args := make([]any, 0, len(runIDs))
	for _, id := range runIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ann domain.Annotation
		var runID, kind, createdAt string
		var score sql.NullFloat64
		var label, traceID sql.NullString
		if err := rows.Scan(&ann.ID, &runID, &ann.Name, &score, &label, &kind, &traceID, &createdAt); err != nil {
			return fmt.Errorf("scan annotation: %w", err)
		}
		if score.Valid {
			ann.Score = &score.Float64
		}
		ann.Label = util.NullStringToPtr(label)
		ann.TraceID = util.NullStringToPtr(traceID)
		ann.AnnotatorKind = annotatorKind(kind)
		ann.CreatedAt = util.ParseTimestamp(createdAt)

		if run, ok := runs[runID]; ok {
			run.Annotations = append(run.Annotations, ann)
		}
	}
	return rows.Err()
}

func annotatorKind(s string) domain.AnnotatorKind {
	switch domain.AnnotatorKind(s) {
	case domain.AnnotatorKindHuman, domain.AnnotatorKindCode, domain.AnnotatorKindLLM:
		return domain.AnnotatorKind(s)
	default:
		return domain.AnnotatorKindUnknown
	}
}

func exampleIDs(examples []domain.DatasetExample) []string {
	ids := make([]string, len(examples))
	for i, ex := range examples {
		ids[i] = ex.ID
	}
	return ids
}

func placeholders(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

var _ comparison.QueryClient = (*ComparisonRepository)(nil)
var _ comparison.FilterValidator = (*ComparisonRepository)(nil)
