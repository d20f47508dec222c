package domain

import "context"

// JobStore persists opening-edit jobs keyed by job id. Implementations must
// make Update atomic with respect to Get: a reader never observes a state
// without the payload fields that belong to it.
type JobStore interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	// DeleteByOpening removes the bookkeeping for an opening on a plan.
	// Returns ErrNotFound when no job matches.
	DeleteByOpening(ctx context.Context, planID, openingID string) error
}
