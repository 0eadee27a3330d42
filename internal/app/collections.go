package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/agentdesk/internal/adapters/interchange"
	"github.com/okian/agentdesk/internal/adapters/repository"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/normalize"
	"github.com/okian/agentdesk/internal/domain/query"
)

// collection is the kind-erased view of one typed repository that the
// by-name entry points dispatch to.
type collection interface {
	kind() model.Kind
	list(q query.Query) []model.Record
	facets(field string) []string
	upsertJSON(ctx context.Context, raw []byte) (model.Record, error)
	remove(ctx context.Context, id string) int
	exportCSV() string
	prependRows(ctx context.Context, rows []normalize.Row) int
	size() int
}

type typedCollection[T model.Entity[T]] struct {
	k         model.Kind
	repo      *repository.Collection[T]
	normalize func(normalize.Row) T
	// edit adjusts a record entered by hand before it is stored.
	edit func(T) T
}

func (c *typedCollection[T]) kind() model.Kind { return c.k }

func (c *typedCollection[T]) list(q query.Query) []model.Record {
	return toRecords(c.repo.Filter(q))
}

func (c *typedCollection[T]) facets(field string) []string {
	return c.repo.Facets(field)
}

func (c *typedCollection[T]) upsertJSON(ctx context.Context, raw []byte) (model.Record, error) {
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, c.k, err)
	}
	if c.edit != nil {
		record = c.edit(record)
	}
	rows := c.repo.Upsert(ctx, record)
	if id := record.RecordID(); id != "" {
		if stored, err := c.repo.Get(id); err == nil {
			return stored, nil
		}
	}
	// A record without id was prepended under a fresh id.
	return rows[0], nil
}

func (c *typedCollection[T]) remove(ctx context.Context, id string) int {
	return len(c.repo.Remove(ctx, id))
}

func (c *typedCollection[T]) exportCSV() string {
	return interchange.ToCSV(c.repo.All())
}

func (c *typedCollection[T]) prependRows(ctx context.Context, rows []normalize.Row) int {
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		records = append(records, c.normalize(row))
	}
	c.repo.BulkPrepend(ctx, records)
	return len(records)
}

func (c *typedCollection[T]) size() int { return c.repo.Len() }

func toRecords[T model.Record](rows []T) []model.Record {
	out := make([]model.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
