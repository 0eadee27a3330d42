package model

// Club is a club the agency works with. Country is a free-text code such as "FRA".
type Club struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Division string `json:"division"`
	City     string `json:"city"`
	Notes    string `json:"notes"`
}

func (c Club) RecordID() string { return c.ID }

func (c Club) WithID(id string) Club {
	c.ID = id
	return c
}

func (c Club) Fields() []Field {
	return []Field{
		{"id", c.ID},
		{"name", c.Name},
		{"country", c.Country},
		{"division", c.Division},
		{"city", c.City},
		{"notes", c.Notes},
	}
}
