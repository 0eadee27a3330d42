package model

import "strconv"

// Birth years accepted by the player edit form.
const (
	MinBirthYear = 1960
	MaxBirthYear = 2015
)

// Player is a player or staff member represented by the agency.
// Club is a denormalized club name, not a reference.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sport       string `json:"sport"`
	Position    string `json:"position"`
	BirthYear   int    `json:"birthYear"`
	HeightCm    int    `json:"heightCm"`
	WeightKg    int    `json:"weightKg"`
	Club        string `json:"club"`
	Nationality string `json:"nationality"`
	Status      string `json:"status"`
}

func (p Player) RecordID() string { return p.ID }

func (p Player) WithID(id string) Player {
	p.ID = id
	return p
}

func (p Player) Fields() []Field {
	return []Field{
		{"id", p.ID},
		{"name", p.Name},
		{"sport", p.Sport},
		{"position", p.Position},
		{"birthYear", strconv.Itoa(p.BirthYear)},
		{"heightCm", strconv.Itoa(p.HeightCm)},
		{"weightKg", strconv.Itoa(p.WeightKg)},
		{"club", p.Club},
		{"nationality", p.Nationality},
		{"status", p.Status},
	}
}

// ClampBirthYear bounds BirthYear to the range the edit form accepts.
// Stored and imported records are never clamped.
func (p Player) ClampBirthYear() Player {
	switch {
	case p.BirthYear < MinBirthYear:
		p.BirthYear = MinBirthYear
	case p.BirthYear > MaxBirthYear:
		p.BirthYear = MaxBirthYear
	}
	return p
}
