package normalize

import "github.com/okian/agentdesk/internal/domain/model"

// Aliases maps each canonical field to the source names accepted for it,
// in probing order.
type Aliases map[string][]string

// PlayerAliases covers the English field names and the French headers of
// the agency's spreadsheets.
var PlayerAliases = Aliases{
	"name":        {"name", "Nom", "nom", "player", "Name", "Joueur", "joueur"},
	"sport":       {"sport", "Sport"},
	"position":    {"position", "Poste", "poste", "Position"},
	"birthYear":   {"birthYear", "Année", "année", "Annee", "annee", "naissance", "Naissance", "birth_year"},
	"heightCm":    {"heightCm", "Taille", "taille", "height"},
	"weightKg":    {"weightKg", "Poids", "poids", "weight"},
	"club":        {"club", "Club"},
	"nationality": {"nationality", "Nationalité", "nationalité", "Nationalite", "nationalite", "Nation"},
	"status":      {"status", "Statut", "statut", "Status"},
}

var ClubAliases = Aliases{
	"name":     {"name", "Nom", "nom", "club", "Club", "Name"},
	"country":  {"country", "Pays", "pays", "Country"},
	"division": {"division", "Division", "Niveau", "niveau"},
	"city":     {"city", "Ville", "ville", "City"},
	"notes":    {"notes", "Notes", "Remarques", "remarques"},
}

var FriendlyAliases = Aliases{
	"requesterClub": {"requesterClub", "Club demandeur", "demandeur", "club", "Club"},
	"category":      {"category", "Catégorie", "catégorie", "Categorie", "categorie", "Category"},
	"dateWanted":    {"dateWanted", "Date souhaitée", "date", "Date"},
	"location":      {"location", "Lieu", "lieu", "Location"},
	"budget":        {"budget", "Budget"},
	"notes":         {"notes", "Notes", "Remarques", "remarques"},
}

var ContractAliases = Aliases{
	"person":        {"person", "Personne", "personne", "joueur", "Joueur", "player"},
	"club":          {"club", "Club"},
	"type":          {"type", "Type"},
	"start":         {"start", "Début", "début", "Debut", "debut"},
	"end":           {"end", "Fin", "fin"},
	"commissionPct": {"commissionPct", "Commission", "commission", "Commission %"},
	"fixedFee":      {"fixedFee", "Honoraires", "honoraires", "fee", "Fee"},
	"status":        {"status", "Statut", "statut", "Status"},
}

// AliasesFor returns the alias table of kind.
func AliasesFor(kind model.Kind) (Aliases, bool) {
	switch kind {
	case model.KindPlayers:
		return PlayerAliases, true
	case model.KindClubs:
		return ClubAliases, true
	case model.KindFriendlies:
		return FriendlyAliases, true
	case model.KindContracts:
		return ContractAliases, true
	}
	return nil, false
}

// Defaults applied when no alias yields a value.
const (
	DefaultSport     = "Football"
	DefaultStatus    = "Prospect"
	DefaultBirthYear = 2004
	DefaultCountry   = "FRA"
)
