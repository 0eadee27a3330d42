// Package seed provides the sample records loaded on first run.
package seed

import (
	"github.com/okian/agentdesk/internal/domain/ident"
	"github.com/okian/agentdesk/internal/domain/model"
)

// IDSource issues identifiers for seed records.
type IDSource interface {
	NewID() string
}

// Dataset is one sample record set per collection plus default branding.
type Dataset struct {
	Players    []model.Player
	Clubs      []model.Club
	Friendlies []model.Friendly
	Contracts  []model.Contract
	Branding   model.Branding
}

// Empty returns a dataset with no records and default branding.
func Empty() Dataset {
	return Dataset{Branding: DefaultBranding()}
}

// DefaultBranding is the branding shown before any customization.
func DefaultBranding() model.Branding {
	return model.Branding{
		"brand":   "Agent Dashboard",
		"tagline": "Starter neutre",
	}
}

// New builds the sample dataset with fresh ids from ids, or from a default
// generator when ids is nil.
func New(ids IDSource) Dataset {
	if ids == nil {
		ids = ident.New()
	}
	return Dataset{
		Players: []model.Player{
			{ID: ids.NewID(), Name: "Babacar Ndiaye Mendy", Sport: "Football", Position: "GK", BirthYear: 2006, HeightCm: 194, WeightKg: 86, Club: "Rayo Vallecano B", Nationality: "SEN", Status: "Prospect"},
			{ID: ids.NewID(), Name: "Lucas Dycke", Sport: "Rugby", Position: "Centre", BirthYear: 2001, HeightCm: 183, WeightKg: 92, Club: "CSBJ Rugby", Nationality: "FRA", Status: "Pro"},
			{ID: ids.NewID(), Name: "Arthur Fillaudeau", Sport: "Football", Position: "Coach", BirthYear: 1991, HeightCm: 178, WeightKg: 74, Club: "Rayo Vallecano (Academy)", Nationality: "FRA", Status: "Staff"},
		},
		Clubs: []model.Club{
			{ID: ids.NewID(), Name: "Rayo Vallecano", Country: "ESP", Division: "LaLiga", City: "Madrid", Notes: "Academy contacts established"},
			{ID: ids.NewID(), Name: "US Carcassonne", Country: "FRA", Division: "Pro D2 (Rugby)", City: "Carcassonne", Notes: "Extension 2 saisons – Lorenzon"},
			{ID: ids.NewID(), Name: "VAFC (Réserve)", Country: "FRA", Division: "N3", City: "Valenciennes", Notes: "Suivi perf – prépa physique"},
		},
		Friendlies: []model.Friendly{
			{ID: ids.NewID(), RequesterClub: "Club Anonyme L1", Category: "Pro", DateWanted: "2025-08-31", Location: "Occitanie / Toulouse", Budget: 1500, Notes: "Match aller-retour possible"},
			{ID: ids.NewID(), RequesterClub: "Equipe Réserve N3", Category: "Reserve", DateWanted: "2025-09-07", Location: "Nord", Budget: 700, Notes: "Cherche arbitres via orga"},
		},
		Contracts: []model.Contract{
			{ID: ids.NewID(), Person: "Lucas Dycke", Club: "CSBJ Rugby", Type: "Mandat", Start: "2025-07-01", End: "2027-06-30", CommissionPct: 8, FixedFee: 0, Status: "Actif"},
			{ID: ids.NewID(), Person: "Babacar Ndiaye Mendy", Club: "Rayo Vallecano B", Type: "Representation", Start: "2025-01-15", End: "2026-06-30", CommissionPct: 10, FixedFee: 2500, Status: "En négociation"},
		},
		Branding: DefaultBranding(),
	}
}
