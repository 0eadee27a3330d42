package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record values come from hand-edited backups and older stores where a
// number may be held as text and text as a number. The loose* types accept
// any JSON scalar; only objects and arrays are rejected.

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	v, err := scalarText(b)
	*s = looseString(v)
	return err
}

type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	v, err := scalarText(b)
	if err != nil {
		return err
	}
	i, _ := ParseInt(v)
	*n = looseInt(i)
	return nil
}

type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	v, err := scalarText(b)
	if err != nil {
		return err
	}
	x, _ := ParseNumber(v)
	*f = looseFloat(x)
	return nil
}

// scalarText renders a JSON scalar as text. null becomes "".
func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "", nil
	}
	switch b[0] {
	case 'n':
		return "", nil
	case '"':
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	case 't', 'f':
		return string(b), nil
	case '{', '[':
		return "", fmt.Errorf("record value %s: not a scalar", b)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsInf(f, 0) {
		return string(b), nil
	}
	return FormatNumber(f), nil
}

type playerJSON struct {
	ID          looseString `json:"id"`
	Name        looseString `json:"name"`
	Sport       looseString `json:"sport"`
	Position    looseString `json:"position"`
	BirthYear   looseInt    `json:"birthYear"`
	HeightCm    looseInt    `json:"heightCm"`
	WeightKg    looseInt    `json:"weightKg"`
	Club        looseString `json:"club"`
	Nationality looseString `json:"nationality"`
	Status      looseString `json:"status"`
}

// UnmarshalJSON accepts numbers held as text and text held as numbers.
func (p *Player) UnmarshalJSON(b []byte) error {
	var w playerJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Player{
		ID:          string(w.ID),
		Name:        string(w.Name),
		Sport:       string(w.Sport),
		Position:    string(w.Position),
		BirthYear:   int(w.BirthYear),
		HeightCm:    int(w.HeightCm),
		WeightKg:    int(w.WeightKg),
		Club:        string(w.Club),
		Nationality: string(w.Nationality),
		Status:      string(w.Status),
	}
	return nil
}

type clubJSON struct {
	ID       looseString `json:"id"`
	Name     looseString `json:"name"`
	Country  looseString `json:"country"`
	Division looseString `json:"division"`
	City     looseString `json:"city"`
	Notes    looseString `json:"notes"`
}

// UnmarshalJSON accepts any scalar for every field.
func (c *Club) UnmarshalJSON(b []byte) error {
	var w clubJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*c = Club{
		ID:       string(w.ID),
		Name:     string(w.Name),
		Country:  string(w.Country),
		Division: string(w.Division),
		City:     string(w.City),
		Notes:    string(w.Notes),
	}
	return nil
}

type friendlyJSON struct {
	ID            looseString `json:"id"`
	RequesterClub looseString `json:"requesterClub"`
	Category      looseString `json:"category"`
	DateWanted    looseString `json:"dateWanted"`
	Location      looseString `json:"location"`
	Budget        looseFloat  `json:"budget"`
	Notes         looseString `json:"notes"`
}

// UnmarshalJSON accepts numbers held as text and text held as numbers.
func (f *Friendly) UnmarshalJSON(b []byte) error {
	var w friendlyJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*f = Friendly{
		ID:            string(w.ID),
		RequesterClub: string(w.RequesterClub),
		Category:      string(w.Category),
		DateWanted:    string(w.DateWanted),
		Location:      string(w.Location),
		Budget:        float64(w.Budget),
		Notes:         string(w.Notes),
	}
	return nil
}

type contractJSON struct {
	ID            looseString `json:"id"`
	Person        looseString `json:"person"`
	Club          looseString `json:"club"`
	Type          looseString `json:"type"`
	Start         looseString `json:"start"`
	End           looseString `json:"end"`
	CommissionPct looseFloat  `json:"commissionPct"`
	FixedFee      looseFloat  `json:"fixedFee"`
	Status        looseString `json:"status"`
}

// UnmarshalJSON accepts numbers held as text and text held as numbers.
func (c *Contract) UnmarshalJSON(b []byte) error {
	var w contractJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*c = Contract{
		ID:            string(w.ID),
		Person:        string(w.Person),
		Club:          string(w.Club),
		Type:          string(w.Type),
		Start:         string(w.Start),
		End:           string(w.End),
		CommissionPct: float64(w.CommissionPct),
		FixedFee:      float64(w.FixedFee),
		Status:        string(w.Status),
	}
	return nil
}

// UnmarshalJSON accepts any scalar as a branding value.
func (b *Branding) UnmarshalJSON(data []byte) error {
	var w map[string]looseString
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w == nil {
		*b = nil
		return nil
	}
	out := make(Branding, len(w))
	for k, v := range w {
		out[k] = string(v)
	}
	*b = out
	return nil
}
