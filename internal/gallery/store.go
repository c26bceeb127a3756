package gallery

import (
	"context"

	"github.com/JaimeStill/campus-gallery/pkg/pagination"
)

// Store persists gallery records.
//
// FindByID and UpdateByID return ErrNotFound for a missing id. UpdateByID and
// DeleteByID condition the write on expectedVersion when it is non-nil and
// return ErrConflict on mismatch. DeleteByID on a missing id is not an error.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Record, error)
	Create(ctx context.Context, fields Fields) (*Record, error)
	UpdateByID(ctx context.Context, id int64, fields Fields, expectedVersion *int) (*Record, error)
	DeleteByID(ctx context.Context, id int64, expectedVersion *int) error
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error)
}
