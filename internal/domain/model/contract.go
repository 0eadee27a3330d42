package model

// Contract links a person to a club by name. Person and Club are copies of
// the names at the time of entry; renaming a player or club does not touch
// existing contracts.
type Contract struct {
	ID            string  `json:"id"`
	Person        string  `json:"person"`
	Club          string  `json:"club"`
	Type          string  `json:"type"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	CommissionPct float64 `json:"commissionPct"`
	FixedFee      float64 `json:"fixedFee"`
	Status        string  `json:"status"`
}

func (c Contract) RecordID() string { return c.ID }

func (c Contract) WithID(id string) Contract {
	c.ID = id
	return c
}

func (c Contract) Fields() []Field {
	return []Field{
		{"id", c.ID},
		{"person", c.Person},
		{"club", c.Club},
		{"type", c.Type},
		{"start", c.Start},
		{"end", c.End},
		{"commissionPct", FormatNumber(c.CommissionPct)},
		{"fixedFee", FormatNumber(c.FixedFee)},
		{"status", c.Status},
	}
}
