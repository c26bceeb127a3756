package gallery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JaimeStill/campus-gallery/pkg/pagination"
)

// System defines the gallery lifecycle operations.
type System interface {
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error)
	Create(ctx context.Context, cmd CreateCommand) (*Result, error)
	Update(ctx context.Context, id int64, cmd UpdateCommand) (*Result, error)
	Delete(ctx context.Context, id int64, expectedVersion *int) (*Result, error)
}

// ParseID parses a record id. Anything but a positive integer is ErrInvalidID.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
