package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/agentdesk/internal/adapters/mq/queue"
	worker "github.com/okian/agentdesk/internal/adapters/mq/worker"
	model "github.com/okian/agentdesk/internal/domain/model"
	logging "github.com/okian/agentdesk/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// mockImporter records applied jobs and fails the ids listed in fail.
type mockImporter struct {
	mu      sync.Mutex
	applied []string
	fail    map[string]error
}

func newMockImporter() *mockImporter {
	return &mockImporter{fail: make(map[string]error)}
}

func (m *mockImporter) ApplyImport(_ context.Context, job worker.Job) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[job.ID]; ok {
		return 0, err
	}
	m.applied = append(m.applied, job.ID)
	return 1, nil
}

func (m *mockImporter) appliedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.applied...)
}

func job(id string) queue.Job {
	return queue.Job{ID: id, Kind: model.KindClubs, Format: model.FormatCSV, Payload: "name\nX"}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a queue", t, func() {
		_ = logging.Init()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		imp := newMockImporter()
		w := worker.NewInMemoryWorker(q, imp, worker.WithName("test-worker"), worker.WithLogger(logging.Nop()))
		go w.Run(ctx)

		convey.Convey("When jobs are enqueued", func() {
			convey.So(q.Enqueue(ctx, job("a")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, job("b")), convey.ShouldBeNil)

			convey.Convey("Then they are applied in order", func() {
				convey.So(waitFor(func() bool { return len(imp.appliedIDs()) == 2 }), convey.ShouldBeTrue)
				convey.So(imp.appliedIDs(), convey.ShouldResemble, []string{"a", "b"})
				convey.So(w.Processed(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a job fails", func() {
			imp.mu.Lock()
			imp.fail["bad"] = errors.New("boom")
			imp.mu.Unlock()
			convey.So(q.Enqueue(ctx, job("bad")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, job("good")), convey.ShouldBeNil)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(waitFor(func() bool { return w.Processed() == 2 }), convey.ShouldBeTrue)
				convey.So(imp.appliedIDs(), convey.ShouldResemble, []string{"good"})
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()

			convey.Convey("Then it stops and a second call is harmless", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose context is cancelled", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, newMockImporter(), worker.WithLogger(logging.Nop()))

		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()
		cancel()

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		imp := newMockImporter()
		pool := worker.NewPool(3, q, imp, worker.WithLogger(logging.Nop()))

		convey.Convey("Then it has the requested size", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 3)
		})

		convey.Convey("Then a non-positive count falls back to the default", func() {
			convey.So(worker.NewPool(0, q, imp, worker.WithLogger(logging.Nop())).Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("When started and fed jobs before shutdown", func() {
			pool.Start(ctx)
			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(ctx, job(fmt.Sprintf("j%d", i))), convey.ShouldBeNil)
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then every queued job is applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(imp.appliedIDs()), convey.ShouldEqual, 20)
				convey.So(pool.Processed(), convey.ShouldEqual, 20)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When stopped", func() {
			pool.Start(ctx)
			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then all workers exit", func() {
				convey.So(pool.Stop(stopCtx), convey.ShouldBeNil)
			})
		})
	})
}
