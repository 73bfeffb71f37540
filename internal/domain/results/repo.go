package results

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows and pages a chronological listing of decoded results.
type ListFilter struct {
	ResourceType string
	Limit        int
	Offset       int
}

type Repository interface {
	Create(ctx context.Context, r *DecodedResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*DecodedResult, error)
	List(ctx context.Context, filter ListFilter) ([]*DecodedResult, int, error)
}
