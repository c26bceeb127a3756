package gallery

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/campus-gallery/pkg/query"
	"github.com/JaimeStill/campus-gallery/pkg/repository"
)

var projection = query.NewProjectionMap("public", "galleries", "g").
	Project("id", "Id").
	Project("title", "Title").
	Project("description", "Description").
	Project("category", "Category").
	Project("files", "Files").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, title, description, category, files, version, created_at, updated_at`

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r        Record
		category string
		files    []byte
	)
	err := s.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&category,
		&files,
		&r.Version,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	r.Category = Category(category)
	if err := json.Unmarshal(files, &r.Files); err != nil {
		return r, fmt.Errorf("decode files: %w", err)
	}
	return r, nil
}

func encodeFiles(files []string) (string, error) {
	if files == nil {
		files = []string{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("encode files: %w", err)
	}
	return string(b), nil
}
