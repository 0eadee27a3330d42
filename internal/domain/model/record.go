// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
)

// Field is one named scalar of a record rendered as text.
type Field struct {
	Name  string
	Value string
}

// Record is the read contract shared by every collection element.
type Record interface {
	// RecordID returns the opaque identifier assigned at creation.
	RecordID() string
	// Fields returns all fields, id first, in canonical column order.
	Fields() []Field
}

// Entity is a Record that can produce a copy of itself carrying another id.
// Repositories are generic over Entity so they can re-issue identifiers
// without knowing the concrete shape.
type Entity[T any] interface {
	Record
	WithID(id string) T
}

// FieldValue returns the named field of r and whether it exists.
func FieldValue(r Record, name string) (string, bool) {
	for _, f := range r.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FormatNumber renders a number the way the dashboard displays it:
// integral values have no fraction, others use the shortest representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Kind names one of the four record collections.
type Kind string

const (
	KindPlayers    Kind = "players"
	KindClubs      Kind = "clubs"
	KindFriendlies Kind = "friendlies"
	KindContracts  Kind = "contracts"
)

// Kinds lists the collections in dashboard tab order.
var Kinds = []Kind{KindPlayers, KindClubs, KindFriendlies, KindContracts}

// ParseKind resolves a collection name, accepting the singular forms used
// by older exports ("player", "club", ...).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "players", "player":
		return KindPlayers, true
	case "clubs", "club":
		return KindClubs, true
	case "friendlies", "friendly":
		return KindFriendlies, true
	case "contracts", "contract":
		return KindContracts, true
	}
	return "", false
}

// StorageKey is the backing-store key holding the collection.
func (k Kind) StorageKey() string { return "app." + string(k) }

// Singleton storage keys.
const (
	BrandingKey = "app.branding"
	SessionKey  = "app.user"
)
