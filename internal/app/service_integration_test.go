package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
	service "github.com/okian/agentdesk/internal/app"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := emptyService(ctx, service.WithWorkerCount(2), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then starting twice is harmless", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats(ctx).Started, ShouldBeTrue)
		})

		Convey("When a CSV import is queued", func() {
			job, err := svc.EnqueueImport(ctx, model.ImportJob{
				Kind:    model.KindClubs,
				Format:  model.FormatCSV,
				Payload: "Nom,Pays\nLyon,FRA\nPorto,POR",
			})

			Convey("Then it gets an id and is applied in the background", func() {
				So(err, ShouldBeNil)
				So(job.ID, ShouldNotBeEmpty)
				So(job.SubmittedAt.IsZero(), ShouldBeFalse)
				So(eventually(func() bool { return svc.Clubs().Len() == 2 }), ShouldBeTrue)
				So(svc.Clubs().All()[0].Name, ShouldEqual, "Lyon")
				So(eventually(func() bool { return svc.GetStats(ctx).ImportsProcessed == 1 }), ShouldBeTrue)
			})
		})

		Convey("When a JSON restore is queued", func() {
			_, err := svc.EnqueueImport(ctx, model.ImportJob{
				Format:  model.FormatJSON,
				Payload: `{"contracts": [{"id": "k1", "person": "A"}], "branding": {"brand": "Queued"}}`,
			})

			Convey("Then the restore applies", func() {
				So(err, ShouldBeNil)
				So(eventually(func() bool { return svc.Contracts().Len() == 1 }), ShouldBeTrue)
				So(eventually(func() bool { return svc.Branding()["brand"] == "Queued" }), ShouldBeTrue)
			})
		})

		Convey("When many imports race into one collection", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = svc.EnqueueImport(ctx, model.ImportJob{
						Kind:    model.KindPlayers,
						Format:  model.FormatCSV,
						Payload: fmt.Sprintf("name\nP%d-a\nP%d-b", i, i),
					})
				}(i)
			}
			wg.Wait()

			Convey("Then every row lands under a distinct id", func() {
				So(eventually(func() bool { return svc.Players().Len() == 20 }), ShouldBeTrue)
				seen := map[string]bool{}
				for _, p := range svc.Players().All() {
					So(seen[p.ID], ShouldBeFalse)
					seen[p.ID] = true
				}
			})
		})

		Convey("When a job is invalid", func() {
			_, err := svc.EnqueueImport(ctx, model.ImportJob{Kind: "coaches", Format: model.FormatCSV})
			So(errors.Is(err, service.ErrInvalidJob), ShouldBeTrue)

			_, err = svc.EnqueueImport(ctx, model.ImportJob{Format: "xlsx"})
			So(errors.Is(err, service.ErrInvalidJob), ShouldBeTrue)
		})
	})

	Convey("Given a service that was never started", t, func() {
		ctx := context.Background()
		svc := emptyService(ctx)

		Convey("Then background imports are refused", func() {
			_, err := svc.EnqueueImport(ctx, model.ImportJob{Kind: model.KindClubs, Format: model.FormatCSV})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Then stopping is a no-op", func() {
			svc.Stop()
			So(svc.GetStats(ctx).Started, ShouldBeFalse)
		})
	})

	Convey("Given a service whose start context is cancelled with jobs queued", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		svc := emptyService(ctx, service.WithWorkerCount(1), service.WithQueueSize(128))
		So(svc.Start(ctx), ShouldBeNil)

		accepted := 0
		for i := 0; i < 100; i++ {
			if _, err := svc.EnqueueImport(ctx, model.ImportJob{Kind: model.KindClubs, Format: model.FormatCSV, Payload: "Nom\nClub"}); err == nil {
				accepted++
			}
		}
		cancel()
		svc.Stop()

		Convey("Then every accepted job is still applied", func() {
			So(accepted, ShouldEqual, 100)
			So(svc.Clubs().Len(), ShouldEqual, 100)
			So(svc.GetStats(context.Background()).Started, ShouldBeFalse)
		})
	})

	Convey("Given a service restarted between queueing and stopping", t, func() {
		ctx := context.Background()
		svc := emptyService(ctx, service.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		for i := 0; i < 5; i++ {
			_, err := svc.EnqueueImport(ctx, model.ImportJob{Kind: model.KindFriendlies, Format: model.FormatCSV, Payload: "club\nX"})
			So(err, ShouldBeNil)
		}
		svc.Stop()

		Convey("Then pending jobs were drained before stopping", func() {
			So(svc.Friendlies().Len(), ShouldEqual, 5)
		})

		Convey("Then it can start again", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			_, err := svc.EnqueueImport(ctx, model.ImportJob{Kind: model.KindFriendlies, Format: model.FormatCSV, Payload: "club\nY"})
			So(err, ShouldBeNil)
			So(eventually(func() bool { return svc.Friendlies().Len() == 6 }), ShouldBeTrue)
		})
	})
}

func TestServicePersistence(t *testing.T) {
	Convey("Given services over durable backends", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		openers := []struct {
			name string
			open func() kvstore.Backend
		}{
			{"file", func() kvstore.Backend {
				b, err := kvstore.NewFileBackend(filepath.Join(dir, "files"))
				So(err, ShouldBeNil)
				return b
			}},
			{"sqlite", func() kvstore.Backend {
				b, err := kvstore.OpenSQLite(ctx, filepath.Join(dir, "agentdesk.db"))
				So(err, ShouldBeNil)
				return b
			}},
		}

		for _, o := range openers {
			open := o.open
			Convey("When changes are made through the "+o.name+" backend and the process restarts", func() {
				first := service.New(ctx, service.WithBackend(open()), service.WithLogger(logger.Nop()))
				_, err := first.ImportCSV(ctx, model.KindPlayers, "name,sport\nPersisted,Basket")
				So(err, ShouldBeNil)
				removed := first.Clubs().All()[0].ID
				So(first.Remove(ctx, model.KindClubs, removed), ShouldBeNil)
				want := first.Players().All()
				So(first.Close(), ShouldBeNil)

				second := service.New(ctx, service.WithBackend(open()), service.WithLogger(logger.Nop()))
				defer func() { _ = second.Close() }()

				Convey("Then the new instance sees the same state", func() {
					So(second.Players().All(), ShouldResemble, want)
					So(second.Clubs().Len(), ShouldEqual, 2)
					_, err := second.Clubs().Get(removed)
					So(err, ShouldNotBeNil)
					So(second.KPIs().BySport["Basket"], ShouldEqual, 1)
				})
			})
		}
	})
}
