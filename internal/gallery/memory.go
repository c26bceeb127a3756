package gallery

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/query"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[int64]*Record
	nextID  int64
	now     func() time.Time
	paging  pagination.Config
}

// NewMemoryStore creates a process-local Store. Records do not survive a restart.
func NewMemoryStore(paging pagination.Config) Store {
	return &memoryStore{
		records: make(map[int64]*Record),
		now:     func() time.Time { return time.Now().UTC() },
		paging:  paging,
	}
}

func (s *memoryStore) FindByID(ctx context.Context, id int64) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec), nil
}

func (s *memoryStore) Create(ctx context.Context, fields Fields) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	rec := &Record{
		ID:          s.nextID,
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		Files:       slices.Clone(fields.Files),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.records[rec.ID] = rec
	return clone(rec), nil
}

func (s *memoryStore) UpdateByID(ctx context.Context, id int64, fields Fields, expectedVersion *int) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != rec.Version {
		return nil, ErrConflict
	}

	rec.Title = fields.Title
	rec.Description = fields.Description
	rec.Category = fields.Category
	rec.Files = slices.Clone(fields.Files)
	rec.Version++
	rec.UpdatedAt = s.now()
	return clone(rec), nil
}

func (s *memoryStore) DeleteByID(ctx context.Context, id int64, expectedVersion *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	if expectedVersion != nil && *expectedVersion != rec.Version {
		return ErrConflict
	}
	delete(s.records, id)
	return nil
}

func (s *memoryStore) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.Normalize(s.paging)

	s.mu.RLock()
	matched := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if !filters.match(rec) {
			continue
		}
		if page.Search != nil && !containsFold(rec.Title, *page.Search) && !containsFold(rec.Description, *page.Search) {
			continue
		}
		matched = append(matched, *clone(rec))
	}
	s.mu.RUnlock()

	sortRecords(matched, page.Sort)

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)

	result := pagination.NewPageResult(matched[start:end], total, page.Page, page.PageSize)
	return &result, nil
}

func sortRecords(records []Record, fields []query.SortField) {
	sortBy := query.SortField{Field: "CreatedAt", Descending: true}
	for _, f := range fields {
		if projection.Known(f.Field) {
			sortBy = f
			break
		}
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		var c int
		switch strings.ToLower(sortBy.Field) {
		case "title":
			c = strings.Compare(a.Title, b.Title)
		case "category":
			c = strings.Compare(string(a.Category), string(b.Category))
		case "updatedat":
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		case "id":
			c = cmp.Compare(a.ID, b.ID)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if sortBy.Descending {
			return -c
		}
		return c
	})
}

func clone(r *Record) *Record {
	c := *r
	c.Files = slices.Clone(r.Files)
	return &c
}
