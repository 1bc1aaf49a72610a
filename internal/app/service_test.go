package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/provider"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("boom")}
	blocking := &fakeService{name: "blocking", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, zap.NewNop().Sugar())
	if err == nil || err.Error() != "boom" {
		t.Fatalf("want boom error, got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	blocking := &fakeService{name: "blocking", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should be treated as clean shutdown, got %v", err)
	}
	if !blocking.stopped.Load() {
		t.Fatalf("service should be stopped")
	}
}

func TestBuildRunnerRejectsInvalidModes(t *testing.T) {
	cfg := &config.Config{}
	if _, err := BuildRunner(cfg, "bogus"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
	if _, err := BuildRunner(cfg, ModeWorker); err == nil {
		t.Fatalf("worker mode without queue should fail")
	}
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
}

func TestBuildRunnerWithoutQueueUsesInProcessPurge(t *testing.T) {
	db, err := models.Open("sqlite", "file:app_build_runner?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"}}
	runner, err := buildRunner(cfg, provider.NewContainerWithDB(cfg, db), ModeAll)
	if err != nil {
		t.Fatalf("build runner failed: %v", err)
	}
	names := make([]string, 0, len(runner.services))
	for _, svc := range runner.services {
		names = append(names, svc.Name())
	}
	if len(names) != 2 || names[0] != "http" || names[1] != "cart-purge" {
		t.Fatalf("unexpected services: %v", names)
	}
}
