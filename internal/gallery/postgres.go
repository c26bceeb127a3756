package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/query"
	"github.com/JaimeStill/campus-gallery/pkg/repository"
)

type postgresStore struct {
	db     *sql.DB
	paging pagination.Config
}

// NewPostgresStore creates a Store backed by the galleries table.
func NewPostgresStore(db *sql.DB, paging pagination.Config) Store {
	return &postgresStore{db: db, paging: paging}
}

func (s *postgresStore) FindByID(ctx context.Context, id int64) (*Record, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &rec, nil
}

func (s *postgresStore) Create(ctx context.Context, fields Fields) (*Record, error) {
	files, err := encodeFiles(fields.Files)
	if err != nil {
		return nil, err
	}

	q := `INSERT INTO galleries(title, description, category, files)
		VALUES($1, $2, $3, $4::jsonb)
		` + returning

	rec, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			fields.Title, fields.Description, string(fields.Category), files,
		}, scanRecord)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &rec, nil
}

func (s *postgresStore) UpdateByID(ctx context.Context, id int64, fields Fields, expectedVersion *int) (*Record, error) {
	files, err := encodeFiles(fields.Files)
	if err != nil {
		return nil, err
	}

	q := `UPDATE galleries
		SET title = $1, description = $2, category = $3, files = $4::jsonb,
			version = version + 1, updated_at = NOW()
		WHERE id = $5`
	args := []any{fields.Title, fields.Description, string(fields.Category), files, id}
	if expectedVersion != nil {
		q += ` AND version = $6`
		args = append(args, *expectedVersion)
	}
	q += "\n\t\t" + returning

	rec, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Record, error) {
		rec, err := repository.QueryOne(ctx, tx, q, args, scanRecord)
		if errors.Is(err, sql.ErrNoRows) && expectedVersion != nil {
			return rec, versionMismatch(ctx, tx, id)
		}
		return rec, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &rec, nil
}

func (s *postgresStore) DeleteByID(ctx context.Context, id int64, expectedVersion *int) error {
	q := `DELETE FROM galleries WHERE id = $1`
	args := []any{id}
	if expectedVersion != nil {
		q += ` AND version = $2`
		args = append(args, *expectedVersion)
	}

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, q, args...)
		if errors.Is(err, sql.ErrNoRows) && expectedVersion != nil {
			err = versionMismatch(ctx, tx, id)
		}
		return struct{}{}, err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return nil
}

func (s *postgresStore) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error) {
	page.Normalize(s.paging)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count galleries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query galleries: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

// versionMismatch resolves a conditional write that matched no rows:
// ErrConflict when the row still exists, sql.ErrNoRows when it is gone.
func versionMismatch(ctx context.Context, tx *sql.Tx, id int64) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM galleries WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}
	return sql.ErrNoRows
}
