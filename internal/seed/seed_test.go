package seed_test

import (
	"testing"

	"github.com/okian/agentdesk/internal/seed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the sample dataset", t, func() {
		d := seed.New(nil)

		Convey("Then every collection is populated", func() {
			So(d.Players, ShouldHaveLength, 3)
			So(d.Clubs, ShouldHaveLength, 3)
			So(d.Friendlies, ShouldHaveLength, 2)
			So(d.Contracts, ShouldHaveLength, 2)
			So(d.Branding["brand"], ShouldNotBeEmpty)
		})

		Convey("Then ids are set and distinct", func() {
			seen := map[string]bool{}
			var all []string
			for _, p := range d.Players {
				all = append(all, p.ID)
			}
			for _, c := range d.Clubs {
				all = append(all, c.ID)
			}
			for _, f := range d.Friendlies {
				all = append(all, f.ID)
			}
			for _, k := range d.Contracts {
				all = append(all, k.ID)
			}
			for _, id := range all {
				So(id, ShouldNotBeEmpty)
				So(seen[id], ShouldBeFalse)
				seen[id] = true
			}
		})
	})

	Convey("Given the empty dataset", t, func() {
		d := seed.Empty()

		So(d.Players, ShouldBeEmpty)
		So(d.Contracts, ShouldBeEmpty)
		So(d.Branding, ShouldResemble, seed.DefaultBranding())
	})
}
