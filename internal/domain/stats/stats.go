// Package stats computes the dashboard KPIs.
package stats

import (
	"strings"

	"github.com/okian/agentdesk/internal/domain/model"
)

// Sport families counted on the dashboard, keyed by the substring that
// identifies them in a free-text sport name.
var sportFamilies = []struct {
	Name   string
	Needle string
}{
	{"Football", "foot"},
	{"Rugby", "rug"},
	{"Basket", "bask"},
}

// KPIs is the dashboard summary.
type KPIs struct {
	Players    int            `json:"players"`
	Clubs      int            `json:"clubs"`
	Friendlies int            `json:"friendlies"`
	Contracts  int            `json:"contracts"`
	BySport    map[string]int `json:"bySport"`
}

// Compute summarizes the four collections.
func Compute(players []model.Player, clubs []model.Club, friendlies []model.Friendly, contracts []model.Contract) KPIs {
	k := KPIs{
		Players:    len(players),
		Clubs:      len(clubs),
		Friendlies: len(friendlies),
		Contracts:  len(contracts),
		BySport:    make(map[string]int, len(sportFamilies)),
	}
	for _, f := range sportFamilies {
		k.BySport[f.Name] = 0
	}
	for _, p := range players {
		sport := strings.ToLower(p.Sport)
		for _, f := range sportFamilies {
			if strings.Contains(sport, f.Needle) {
				k.BySport[f.Name]++
			}
		}
	}
	return k
}
