package model

import "time"

// ImportFormat is the encoding of an import payload.
type ImportFormat string

// Supported import formats.
const (
	FormatCSV  ImportFormat = "csv"
	FormatJSON ImportFormat = "json"
)

// ImportJob is one whole-file import waiting to be applied.
// Kind is only meaningful for CSV payloads; a JSON backup spans all kinds.
type ImportJob struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind,omitempty"`
	Format      ImportFormat `json:"format"`
	Payload     string       `json:"-"`
	SubmittedAt time.Time    `json:"submittedAt"`
}
