package main

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/agentdesk/internal/config"
	"github.com/okian/agentdesk/pkg/logger"
)

func TestNewService(t *testing.T) {
	convey.Convey("Given a memory store configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StoreBackend = "memory"
		cfg.ImportWorkers = 3

		convey.Convey("When the service is built", func() {
			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.Reset(func() { _ = svc.Close() })

			convey.Convey("Then the sample records are loaded", func() {
				convey.So(svc.Players().Len(), convey.ShouldEqual, 3)
			})

			convey.Convey("And it starts with the configured workers", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				convey.So(svc.GetStats(ctx).Workers, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the store backend is unknown", func() {
			cfg.StoreBackend = "etcd"
			_, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When seeding is disabled over a file store", func() {
			cfg.StoreBackend = "file"
			cfg.StorePath = t.TempDir()
			cfg.SeedOnEmpty = false
			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.Reset(func() { _ = svc.Close() })

			convey.Convey("Then the collections start empty", func() {
				convey.So(svc.Players().Len(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a running service", t, func() {
		cfg := config.New()
		cfg.StoreBackend = "memory"
		svc, err := newService(context.Background(), cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the updater returns once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
