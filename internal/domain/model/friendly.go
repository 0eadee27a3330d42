package model

// Friendly is a request from a club looking for a friendly match.
type Friendly struct {
	ID            string  `json:"id"`
	RequesterClub string  `json:"requesterClub"`
	Category      string  `json:"category"`
	DateWanted    string  `json:"dateWanted"`
	Location      string  `json:"location"`
	Budget        float64 `json:"budget"`
	Notes         string  `json:"notes"`
}

func (f Friendly) RecordID() string { return f.ID }

func (f Friendly) WithID(id string) Friendly {
	f.ID = id
	return f
}

func (f Friendly) Fields() []Field {
	return []Field{
		{"id", f.ID},
		{"requesterClub", f.RequesterClub},
		{"category", f.Category},
		{"dateWanted", f.DateWanted},
		{"location", f.Location},
		{"budget", FormatNumber(f.Budget)},
		{"notes", f.Notes},
	}
}
