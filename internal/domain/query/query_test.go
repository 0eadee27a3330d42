package query_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/query"
)

func samplePlayers() []model.Player {
	return []model.Player{
		{ID: "a", Name: "Babacar Ndiaye Mendy", Sport: "Football", Position: "GK", BirthYear: 2006, Club: "Rayo Vallecano B", Nationality: "SEN", Status: "Prospect"},
		{ID: "b", Name: "Lucas Dycke", Sport: "Rugby", Position: "Centre", BirthYear: 2001, Club: "CSBJ Rugby", Nationality: "FRA", Status: "Pro"},
		{ID: "c", Name: "Arthur Fillaudeau", Sport: "Football", Position: "Coach", BirthYear: 1991, Club: "Rayo Vallecano (Academy)", Nationality: "FRA", Status: "Staff"},
		{ID: "d", Name: "Nina Rayo", Sport: "Basket", Position: "Guard", BirthYear: 2003, Nationality: "ESP", Status: "Pro"},
	}
}

func ids(rows []model.Player) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	Convey("Given a player collection", t, func() {
		rows := samplePlayers()

		Convey("When the query is empty", func() {
			got := query.Filter(rows, query.Query{})

			Convey("Then everything matches in order", func() {
				So(ids(got), ShouldResemble, []string{"a", "b", "c", "d"})
			})
		})

		Convey("When filtering on an exact field", func() {
			got := query.Filter(rows, query.Query{Exact: map[string]string{"sport": "Football"}})

			Convey("Then only equal values remain", func() {
				So(ids(got), ShouldResemble, []string{"a", "c"})
			})

			Convey("And exact matching is case-sensitive", func() {
				none := query.Filter(rows, query.Query{Exact: map[string]string{"sport": "football"}})
				So(none, ShouldBeEmpty)
			})
		})

		Convey("When an exact criterion is empty", func() {
			got := query.Filter(rows, query.Query{Exact: map[string]string{"sport": ""}})

			Convey("Then it is ignored", func() {
				So(len(got), ShouldEqual, 4)
			})
		})

		Convey("When filtering on an unknown field", func() {
			got := query.Filter(rows, query.Query{Exact: map[string]string{"shoeSize": "44"}})

			Convey("Then nothing matches", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When searching free text", func() {
			got := query.Filter(rows, query.Query{Text: "RAYO"})

			Convey("Then any field may contain it, ignoring case", func() {
				So(ids(got), ShouldResemble, []string{"a", "c", "d"})
			})

			Convey("And numbers are searchable as text", func() {
				So(ids(query.Filter(rows, query.Query{Text: "2001"})), ShouldResemble, []string{"b"})
			})
		})

		Convey("When combining criteria", func() {
			exact := query.Query{Exact: map[string]string{"nationality": "FRA"}}
			text := query.Query{Text: "rugby"}
			both := query.Query{Text: "rugby", Exact: map[string]string{"nationality": "FRA"}}

			Convey("Then the order of application does not matter", func() {
				first := query.Filter(query.Filter(rows, exact), text)
				second := query.Filter(query.Filter(rows, text), exact)
				So(ids(first), ShouldResemble, ids(second))
				So(ids(query.Filter(rows, both)), ShouldResemble, ids(first))
				So(ids(first), ShouldResemble, []string{"b"})
			})
		})

		Convey("When filtering with any query", func() {
			before := samplePlayers()
			for _, q := range []query.Query{{}, {Text: "zzz"}, {Text: "a", Exact: map[string]string{"status": "Pro"}}} {
				got := query.Filter(rows, q)
				for i := range got {
					got[i].Name = "mutated"
				}
			}

			Convey("Then the input is left untouched", func() {
				So(rows, ShouldResemble, before)
			})
		})
	})
}

func TestFacets(t *testing.T) {
	Convey("Given a player collection", t, func() {
		rows := samplePlayers()

		Convey("Then facets list distinct values in first-seen order", func() {
			So(query.Facets(rows, "sport"), ShouldResemble, []string{"Football", "Rugby", "Basket"})
			So(query.Facets(rows, "nationality"), ShouldResemble, []string{"SEN", "FRA", "ESP"})
		})

		Convey("Then empty values are skipped", func() {
			So(query.Facets(rows, "club"), ShouldResemble, []string{"Rayo Vallecano B", "CSBJ Rugby", "Rayo Vallecano (Academy)"})
		})

		Convey("Then unknown fields produce no values", func() {
			So(query.Facets(rows, "budget"), ShouldBeEmpty)
		})
	})

	Convey("Given query emptiness", t, func() {
		So(query.Query{}.IsZero(), ShouldBeTrue)
		So(query.Query{Text: "  ", Exact: map[string]string{"sport": ""}}.IsZero(), ShouldBeTrue)
		So(query.Query{Text: "x"}.IsZero(), ShouldBeFalse)
	})
}
