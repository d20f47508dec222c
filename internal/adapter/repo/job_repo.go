package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

// JobStorePG implements domain.JobStore on PostgreSQL. A single-row UPDATE
// carries state and payload together, so readers get the same atomic
// snapshot guarantee the in-memory store gives.
type JobStorePG struct {
	pool *pgxpool.Pool
}

func NewJobStore(pool *pgxpool.Pool) *JobStorePG {
	return &JobStorePG{pool: pool}
}

// jobRow is the JSON-serialized side of a job record: everything that is not
// a key, a state, or an image blob.
type jobRow struct {
	Opening  domain.Opening           `json:"opening"`
	Vector   domain.VectorDescription `json:"vector"`
	BBox     geometry.Rect            `json:"bbox"`
	Attempts []domain.Attempt         `json:"attempts"`
}

func (r *JobStorePG) Create(ctx context.Context, job *domain.Job) error {
	payload, err := marshalRow(job)
	if err != nil {
		return err
	}
	query := `
INSERT INTO opening_jobs (id, plan_id, opening_id, state, payload, base_png, final_png, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err = r.pool.Exec(ctx, query,
		job.ID,
		job.PlanID,
		job.Opening.ID,
		job.State,
		payload,
		job.BasePNG,
		nullableBytes(job.FinalPNG),
		job.ErrorMessage,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

func (r *JobStorePG) Update(ctx context.Context, job *domain.Job) error {
	payload, err := marshalRow(job)
	if err != nil {
		return err
	}
	query := `
UPDATE opening_jobs
SET state = $2,
    payload = $3,
    final_png = $4,
    error_message = $5,
    updated_at = $6
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query,
		job.ID,
		job.State,
		payload,
		nullableBytes(job.FinalPNG),
		job.ErrorMessage,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobStorePG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT id, plan_id, state, payload, base_png, final_png, error_message, created_at, updated_at
FROM opening_jobs
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, jobID)

	var job domain.Job
	var payload []byte
	if err := row.Scan(
		&job.ID,
		&job.PlanID,
		&job.State,
		&payload,
		&job.BasePNG,
		&job.FinalPNG,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var rowData jobRow
	if err := json.Unmarshal(payload, &rowData); err != nil {
		return nil, fmt.Errorf("decode job payload: %w", err)
	}
	job.Opening = rowData.Opening
	job.Vector = rowData.Vector
	job.BBox = rowData.BBox
	job.Attempts = rowData.Attempts
	return &job, nil
}

func (r *JobStorePG) DeleteByOpening(ctx context.Context, planID, openingID string) error {
	query := `DELETE FROM opening_jobs WHERE plan_id = $1 AND opening_id = $2;`
	tag, err := r.pool.Exec(ctx, query, planID, openingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalRow(job *domain.Job) ([]byte, error) {
	payload, err := json.Marshal(jobRow{
		Opening:  job.Opening,
		Vector:   job.Vector,
		BBox:     job.BBox,
		Attempts: job.Attempts,
	})
	if err != nil {
		return nil, fmt.Errorf("encode job payload: %w", err)
	}
	return payload, nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ domain.JobStore = (*JobStorePG)(nil)
