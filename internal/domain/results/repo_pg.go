package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepoPG is the Postgres-backed results repository.
type RepoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{pool: pool}
}

func (r *RepoPG) Create(ctx context.Context, res *DecodedResult) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(res.Decoded)
	if err != nil {
		return fmt.Errorf("marshal decoded record: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO decoded_results
			(id, source_name, resource_type, date_time, end_date_time, decoded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.SourceName, res.ResourceType,
		res.DateTime, res.EndDateTime, body, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert decoded result: %w", err)
	}
	return nil
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DecodedResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, source_name, resource_type, date_time, end_date_time, decoded, created_at
		FROM decoded_results
		WHERE id = $1`, id)

	res, err := scanResult(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get decoded result: %w", err)
	}
	return res, nil
}

func (r *RepoPG) List(ctx context.Context, filter ListFilter) ([]*DecodedResult, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM decoded_results
		WHERE ($1 = '' OR resource_type = $1)`, filter.ResourceType).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count decoded results: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, source_name, resource_type, date_time, end_date_time, decoded, created_at
		FROM decoded_results
		WHERE ($1 = '' OR resource_type = $1)
		ORDER BY date_time ASC NULLS LAST, created_at ASC
		LIMIT $2 OFFSET $3`,
		filter.ResourceType, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list decoded results: %w", err)
	}
	defer rows.Close()

	var out []*DecodedResult
	for rows.Next() {
		res, err := scanResult(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan decoded result: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate decoded results: %w", err)
	}
	return out, total, nil
}

func scanResult(scan func(dest ...any) error) (*DecodedResult, error) {
	var (
		res  DecodedResult
		body []byte
	)
	if err := scan(&res.ID, &res.SourceName, &res.ResourceType,
		&res.DateTime, &res.EndDateTime, &body, &res.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &res.Decoded); err != nil {
		return nil, fmt.Errorf("unmarshal decoded record: %w", err)
	}
	return &res, nil
}
