// Package normalize maps loosely named external rows (CSV headers in English
// or French, any case) onto the canonical record shapes.
//
// Normalization is total: every row yields a usable record. Missing or
// unparseable values fall back to the field default, and every record gets a
// fresh id regardless of any id column in the input.
package normalize

import (
	"fmt"
	"strings"

	"github.com/okian/agentdesk/internal/domain/ident"
	"github.com/okian/agentdesk/internal/domain/model"
)

// Row is one external row keyed by its source header.
type Row map[string]string

// IDSource issues identifiers for normalized records.
type IDSource interface {
	NewID() string
}

// Normalizer converts rows to records.
type Normalizer struct {
	ids IDSource
}

// New creates a Normalizer. A nil ids uses the default generator.
func New(ids IDSource) *Normalizer {
	if ids == nil {
		ids = ident.New()
	}
	return &Normalizer{ids: ids}
}

// Normalize converts row into a record of kind.
func (n *Normalizer) Normalize(kind model.Kind, row Row) (model.Record, error) {
	switch kind {
	case model.KindPlayers:
		return n.Player(row), nil
	case model.KindClubs:
		return n.Club(row), nil
	case model.KindFriendlies:
		return n.Friendly(row), nil
	case model.KindContracts:
		return n.Contract(row), nil
	}
	return nil, fmt.Errorf("normalize %q: %w", kind, ErrUnknownKind)
}

// Player normalizes a player row.
func (n *Normalizer) Player(row Row) model.Player {
	r := newResolver(row, PlayerAliases)
	return model.Player{
		ID:          n.ids.NewID(),
		Name:        r.text("name", ""),
		Sport:       r.text("sport", DefaultSport),
		Position:    r.text("position", ""),
		BirthYear:   r.integer("birthYear", DefaultBirthYear),
		HeightCm:    r.integer("heightCm", 0),
		WeightKg:    r.integer("weightKg", 0),
		Club:        r.text("club", ""),
		Nationality: r.text("nationality", ""),
		Status:      r.text("status", DefaultStatus),
	}
}

// Club normalizes a club row.
func (n *Normalizer) Club(row Row) model.Club {
	r := newResolver(row, ClubAliases)
	return model.Club{
		ID:       n.ids.NewID(),
		Name:     r.text("name", ""),
		Country:  r.text("country", DefaultCountry),
		Division: r.text("division", ""),
		City:     r.text("city", ""),
		Notes:    r.text("notes", ""),
	}
}

// Friendly normalizes a friendly-match request row.
func (n *Normalizer) Friendly(row Row) model.Friendly {
	r := newResolver(row, FriendlyAliases)
	return model.Friendly{
		ID:            n.ids.NewID(),
		RequesterClub: r.text("requesterClub", ""),
		Category:      r.text("category", ""),
		DateWanted:    r.text("dateWanted", ""),
		Location:      r.text("location", ""),
		Budget:        r.number("budget", 0),
		Notes:         r.text("notes", ""),
	}
}

// Contract normalizes a contract row.
func (n *Normalizer) Contract(row Row) model.Contract {
	r := newResolver(row, ContractAliases)
	return model.Contract{
		ID:            n.ids.NewID(),
		Person:        r.text("person", ""),
		Club:          r.text("club", ""),
		Type:          r.text("type", ""),
		Start:         r.text("start", ""),
		End:           r.text("end", ""),
		CommissionPct: r.number("commissionPct", 0),
		FixedFee:      r.number("fixedFee", 0),
		Status:        r.text("status", ""),
	}
}

// resolver probes one row against an alias table.
type resolver struct {
	row     Row
	folded  map[string]string // lowercased, trimmed header -> original header
	aliases Aliases
}

func newResolver(row Row, aliases Aliases) resolver {
	folded := make(map[string]string, len(row))
	for k := range row {
		key := foldHeader(k)
		// Keep the first header seen for a folded name; later duplicates lose.
		if _, ok := folded[key]; !ok {
			folded[key] = k
		}
	}
	return resolver{row: row, folded: folded, aliases: aliases}
}

// lookup returns the first non-blank value among the field's aliases.
// Exact header matches win over case-insensitive ones.
func (r resolver) lookup(field string) (string, bool) {
	names := r.aliases[field]
	for _, name := range names {
		if v, ok := r.row[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	for _, name := range names {
		header, ok := r.folded[foldHeader(name)]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(r.row[header]); v != "" {
			return v, true
		}
	}
	return "", false
}

func (r resolver) text(field, def string) string {
	if v, ok := r.lookup(field); ok {
		return v
	}
	return def
}

func (r resolver) integer(field string, def int) int {
	if v, ok := r.lookup(field); ok {
		if i, ok := model.ParseInt(v); ok {
			return i
		}
	}
	return def
}

func (r resolver) number(field string, def float64) float64 {
	if v, ok := r.lookup(field); ok {
		if f, ok := model.ParseNumber(v); ok {
			return f
		}
	}
	return def
}

// foldHeader strips a UTF-8 BOM and surrounding space and lowercases.
func foldHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}
