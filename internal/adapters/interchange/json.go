package interchange

import (
	"encoding/json"
	"fmt"

	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/tidwall/gjson"
)

// Backup is the whole-state document. Every field is optional on import.
type Backup struct {
	Players    []model.Player   `json:"players"`
	Clubs      []model.Club     `json:"clubs"`
	Friendlies []model.Friendly `json:"friendlies"`
	Contracts  []model.Contract `json:"contracts"`
	Branding   model.Branding   `json:"branding"`
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(raw), nil
}

// ParseBackup reads a backup document. Text that is not JSON at all is a
// *FormatError. Otherwise each top-level field is checked and decoded on its
// own: a field that is absent, of the wrong type, or fails to decode stays
// nil and is listed in Skipped, while the other fields still come through.
func ParseBackup(text string) (Backup, []string, error) {
	if !gjson.Valid(text) {
		var probe json.RawMessage
		return Backup{}, nil, &FormatError{Format: "json", Err: json.Unmarshal([]byte(text), &probe)}
	}

	root := gjson.Parse(text)
	if !root.IsObject() {
		return Backup{}, nil, nil
	}

	var (
		b       Backup
		skipped []string
	)
	b.Players = decodeField[[]model.Player](root, "players", gjson.Result.IsArray, &skipped)
	b.Clubs = decodeField[[]model.Club](root, "clubs", gjson.Result.IsArray, &skipped)
	b.Friendlies = decodeField[[]model.Friendly](root, "friendlies", gjson.Result.IsArray, &skipped)
	b.Contracts = decodeField[[]model.Contract](root, "contracts", gjson.Result.IsArray, &skipped)
	b.Branding = decodeField[model.Branding](root, "branding", gjson.Result.IsObject, &skipped)
	return b, skipped, nil
}

// decodeField returns the zero value when name is absent, and also records
// name in skipped when it is present but unusable.
func decodeField[T any](root gjson.Result, name string, shape func(gjson.Result) bool, skipped *[]string) T {
	var zero T
	r := root.Get(name)
	if !r.Exists() {
		return zero
	}
	var v T
	if !shape(r) || json.Unmarshal([]byte(r.Raw), &v) != nil {
		*skipped = append(*skipped, name)
		return zero
	}
	return v
}
