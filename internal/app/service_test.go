package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/agentdesk/internal/adapters/interchange"
	"github.com/okian/agentdesk/internal/adapters/kvstore"
	service "github.com/okian/agentdesk/internal/app"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/query"
	"github.com/okian/agentdesk/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func emptyService(ctx context.Context, opts ...service.Option) *service.Service {
	return service.New(ctx, append([]service.Option{
		service.WithSeedOnEmpty(false),
		service.WithLogger(logger.Nop()),
	}, opts...)...)
}

func TestService_New(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new service with default options", t, func() {
		svc := service.New(ctx, service.WithLogger(logger.Nop()))

		Convey("Then the collections hold the sample records", func() {
			So(svc.Players().Len(), ShouldEqual, 3)
			So(svc.Clubs().Len(), ShouldEqual, 3)
			So(svc.Friendlies().Len(), ShouldEqual, 2)
			So(svc.Contracts().Len(), ShouldEqual, 2)
			So(svc.Branding()["brand"], ShouldNotBeEmpty)
			So(svc.Session().LoggedIn(), ShouldBeFalse)
		})

		Convey("Then the KPIs count sport families", func() {
			kpis := svc.KPIs()
			So(kpis.Players, ShouldEqual, 3)
			So(kpis.BySport["Football"], ShouldEqual, 2)
			So(kpis.BySport["Rugby"], ShouldEqual, 1)
			So(kpis.BySport["Basket"], ShouldEqual, 0)
		})
	})

	Convey("Given seeding is disabled", t, func() {
		svc := emptyService(ctx)

		Convey("Then every collection starts empty", func() {
			So(svc.Players().Len(), ShouldEqual, 0)
			So(svc.Contracts().Len(), ShouldEqual, 0)
		})
	})

	Convey("Given stored players holding numbers as text", t, func() {
		backend := kvstore.NewMemoryBackend()
		So(backend.Set(ctx, model.KindPlayers.StorageKey(), []byte(`[{"id":"mine","name":"Kept","heightCm":"183"}]`)), ShouldBeNil)

		svc := service.New(ctx, service.WithBackend(backend), service.WithLogger(logger.Nop()))

		Convey("Then the stored player is kept and not replaced by samples", func() {
			players := svc.Players().All()
			So(players, ShouldHaveLength, 1)
			So(players[0].ID, ShouldEqual, "mine")
			So(players[0].HeightCm, ShouldEqual, 183)
		})
	})

	Convey("Given a backend that already holds data", t, func() {
		backend := kvstore.NewMemoryBackend()
		So(kvstore.Save(ctx, backend, model.KindClubs.StorageKey(), []model.Club{}).IsOk(), ShouldBeTrue)

		svc := service.New(ctx, service.WithBackend(backend), service.WithLogger(logger.Nop()))

		Convey("Then stored collections win and absent ones are seeded", func() {
			So(svc.Clubs().Len(), ShouldEqual, 0)
			So(svc.Players().Len(), ShouldEqual, 3)
		})
	})
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty service", t, func() {
		svc := emptyService(ctx)

		Convey("When a player is entered with an out-of-range birth year", func() {
			rec, err := svc.Upsert(ctx, model.KindPlayers, []byte(`{"name": "Old Timer", "birthYear": 1900}`))

			Convey("Then it is stored with a fresh id and a clamped year", func() {
				So(err, ShouldBeNil)
				p := rec.(model.Player)
				So(p.ID, ShouldNotBeEmpty)
				So(p.BirthYear, ShouldEqual, model.MinBirthYear)
				So(svc.Players().All()[0], ShouldResemble, p)
			})

			Convey("Then editing it keeps its place", func() {
				_, err := svc.Upsert(ctx, model.KindPlayers, []byte(`{"name": "Other"}`))
				So(err, ShouldBeNil)

				edited := rec.(model.Player)
				edited.Name = "Renamed"
				edited.BirthYear = 2030
				raw, _ := interchange.ToJSON(edited)
				out, err := svc.Upsert(ctx, model.KindPlayers, []byte(raw))
				So(err, ShouldBeNil)
				So(out.(model.Player).BirthYear, ShouldEqual, model.MaxBirthYear)

				all := svc.Players().All()
				So(all, ShouldHaveLength, 2)
				So(all[1].Name, ShouldEqual, "Renamed")
			})
		})

		Convey("When a CSV import brings an out-of-range year", func() {
			_, err := svc.ImportCSV(ctx, model.KindPlayers, "name,birthYear\nAncient,1900")

			Convey("Then it is kept as is", func() {
				So(err, ShouldBeNil)
				So(svc.Players().All()[0].BirthYear, ShouldEqual, 1900)
			})
		})

		Convey("When the body is not a record", func() {
			_, err := svc.Upsert(ctx, model.KindClubs, []byte(`[1,2]`))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidRecord), ShouldBeTrue)
				So(svc.Clubs().Len(), ShouldEqual, 0)
			})
		})

		Convey("When the collection is unknown", func() {
			_, err := svc.Upsert(ctx, model.Kind("coaches"), []byte(`{}`))

			So(errors.Is(err, service.ErrUnknownKind), ShouldBeTrue)
		})
	})
}

func TestService_ListAndRemove(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with sample records", t, func() {
		svc := service.New(ctx, service.WithLogger(logger.Nop()))

		Convey("When filtering players by sport and text", func() {
			rows, err := svc.List(model.KindPlayers, query.Query{Text: "rayo", Exact: map[string]string{"sport": "Football"}})

			Convey("Then only matching records come back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
			})
		})

		Convey("When asking for facets", func() {
			facets, err := svc.Facets(model.KindClubs, "country")

			So(err, ShouldBeNil)
			So(facets, ShouldResemble, []string{"ESP", "FRA"})
		})

		Convey("When removing an absent id", func() {
			before := svc.Clubs().All()
			So(svc.Remove(ctx, model.KindClubs, "missing"), ShouldBeNil)

			Convey("Then nothing changes", func() {
				So(svc.Clubs().All(), ShouldResemble, before)
			})
		})

		Convey("When removing a present id", func() {
			target := svc.Clubs().All()[1]
			So(svc.Remove(ctx, model.KindClubs, target.ID), ShouldBeNil)

			Convey("Then it is gone", func() {
				So(svc.Clubs().Len(), ShouldEqual, 2)
				_, err := svc.Clubs().Get(target.ID)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When using an unknown collection", func() {
			_, err := svc.List(model.Kind("x"), query.Query{})
			So(errors.Is(err, service.ErrUnknownKind), ShouldBeTrue)
			So(errors.Is(svc.Remove(ctx, model.Kind("x"), "id"), service.ErrUnknownKind), ShouldBeTrue)
		})
	})
}

func TestService_CSV(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty service", t, func() {
		svc := emptyService(ctx)

		Convey("When importing French headers", func() {
			n, err := svc.ImportCSV(ctx, model.KindPlayers, "Nom,Sport,naissance\nJean Dupont,Rugby,1999\nAna,Basket,2003\n")

			Convey("Then rows are normalized and prepended in file order", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				all := svc.Players().All()
				So(all[0].Name, ShouldEqual, "Jean Dupont")
				So(all[0].Sport, ShouldEqual, "Rugby")
				So(all[0].BirthYear, ShouldEqual, 1999)
				So(all[0].Status, ShouldEqual, "Prospect")
				So(all[1].Name, ShouldEqual, "Ana")
				So(all[0].ID, ShouldNotEqual, all[1].ID)
			})

			Convey("Then a second import goes ahead of the first", func() {
				_, err := svc.ImportCSV(ctx, model.KindPlayers, "name\nNewest")
				So(err, ShouldBeNil)
				So(svc.Players().All()[0].Name, ShouldEqual, "Newest")
				So(svc.Players().Len(), ShouldEqual, 3)
			})
		})

		Convey("When exporting an empty collection", func() {
			out, err := svc.ExportCSV(model.KindContracts)

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "")
		})

		Convey("When exporting a club with quotes in its notes", func() {
			_, err := svc.Upsert(ctx, model.KindClubs, []byte(`{"id":"c1","name":"Lyon","notes":"He said \"hi\", ok"}`))
			So(err, ShouldBeNil)
			out, err := svc.ExportCSV(model.KindClubs)

			Convey("Then the cell is quoted and escaped", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `"He said ""hi"", ok"`)
				So(strings.Split(out, "\n")[0], ShouldEqual, "id,name,country,division,city,notes")
			})
		})
	})
}

func TestService_JSON(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service holding one player and one club", t, func() {
		svc := emptyService(ctx)
		svc.Players().Upsert(ctx, model.Player{ID: "A", Name: "Player A"})
		svc.Clubs().Upsert(ctx, model.Club{ID: "B", Name: "Club B"})

		Convey("When importing a document with bad players and good clubs", func() {
			report, err := svc.ImportJSON(ctx, `{"players": "not-an-array", "clubs": [{"id": "C", "name": "Club C"}]}`)

			Convey("Then players are untouched and clubs replaced", func() {
				So(err, ShouldBeNil)
				So(svc.Players().All(), ShouldResemble, []model.Player{{ID: "A", Name: "Player A"}})
				So(svc.Clubs().All(), ShouldResemble, []model.Club{{ID: "C", Name: "Club C"}})
				So(report.Applied, ShouldResemble, []string{"clubs"})
				So(report.Skipped, ShouldResemble, []string{"players"})
			})
		})

		Convey("When importing malformed text", func() {
			_, err := svc.ImportJSON(ctx, `{"clubs": [`)

			Convey("Then a format error is returned and nothing changes", func() {
				So(errors.Is(err, interchange.ErrFormat), ShouldBeTrue)
				So(svc.Clubs().All(), ShouldResemble, []model.Club{{ID: "B", Name: "Club B"}})
			})
		})

		Convey("When exporting and restoring into another service", func() {
			svc.SetBranding(ctx, model.Branding{"brand": "Agence X"})
			doc, err := svc.ExportJSON()
			So(err, ShouldBeNil)

			other := emptyService(ctx)
			_, err = other.ImportJSON(ctx, doc)

			Convey("Then the state is identical", func() {
				So(err, ShouldBeNil)
				So(other.Players().All(), ShouldResemble, svc.Players().All())
				So(other.Clubs().All(), ShouldResemble, svc.Clubs().All())
				So(other.Friendlies().All(), ShouldResemble, svc.Friendlies().All())
				So(other.Branding(), ShouldResemble, model.Branding{"brand": "Agence X"})
			})
		})

		Convey("When a backup holds numbers as text", func() {
			report, err := svc.ImportJSON(ctx, `{"players": [{"id": "a", "name": "Lucas Dycke"}, {"id": "b", "name": "Ali", "heightCm": "183"}], "clubs": [{"id": "c"}]}`)

			Convey("Then the players are applied too", func() {
				So(err, ShouldBeNil)
				So(report.Applied, ShouldResemble, []string{"players", "clubs"})
				So(report.Skipped, ShouldBeEmpty)
				players := svc.Players().All()
				So(players, ShouldHaveLength, 2)
				So(players[1].HeightCm, ShouldEqual, 183)
			})
		})

		Convey("When a backup repeats an id", func() {
			_, err := svc.ImportJSON(ctx, `{"clubs": [{"id": "D"}, {"id": "D"}]}`)

			Convey("Then ids stay unique", func() {
				So(err, ShouldBeNil)
				all := svc.Clubs().All()
				So(all, ShouldHaveLength, 2)
				So(all[0].ID, ShouldEqual, "D")
				So(all[1].ID, ShouldNotEqual, "D")
			})
		})
	})
}

func TestService_Settings(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a shared backend", t, func() {
		backend := kvstore.NewMemoryBackend()
		svc := emptyService(ctx, service.WithBackend(backend))

		Convey("When logging in as admin", func() {
			sess, err := svc.Login(ctx, " Agent ", "ADMIN")

			Convey("Then the session persists", func() {
				So(err, ShouldBeNil)
				So(sess, ShouldResemble, model.Session{Name: "Agent", Role: model.RoleAdmin})
				reopened := emptyService(ctx, service.WithBackend(backend))
				So(reopened.Session(), ShouldResemble, sess)
			})

			Convey("Then logging out clears it", func() {
				svc.Logout(ctx)
				So(svc.Session().LoggedIn(), ShouldBeFalse)
			})
		})

		Convey("When logging in without a role", func() {
			sess, err := svc.Login(ctx, "Guest", "")
			So(err, ShouldBeNil)
			So(sess.Role, ShouldEqual, model.RoleViewer)
		})

		Convey("When logging in with bad input", func() {
			_, err := svc.Login(ctx, "", "admin")
			So(errors.Is(err, service.ErrInvalidLogin), ShouldBeTrue)
			_, err = svc.Login(ctx, "x", "root")
			So(errors.Is(err, service.ErrInvalidLogin), ShouldBeTrue)
		})

		Convey("When changing branding", func() {
			out := svc.SetBranding(ctx, model.Branding{"brand": "New", "primary": "#000"})
			out["brand"] = "mutated"

			Convey("Then callers cannot mutate the stored map", func() {
				So(svc.Branding()["brand"], ShouldEqual, "New")
			})
		})
	})
}
