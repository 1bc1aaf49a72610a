package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultCartPurgeInterval = time.Hour

// Service 异步队列服务
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	purgeInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		purgeInterval: resolvePurgeInterval(consumer),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartService != nil {
		go s.runCartPurgeLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCartPurgeLoop 定时投递清理任务；队列客户端不可用时直接执行
func (s *Service) runCartPurgeLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		client := s.consumer.QueueClient
		if client != nil && client.Enabled() {
			payload := queue.CartPurgeStalePayload{StaleDays: s.consumer.staleDays()}
			err := client.EnqueueCartPurgeStale(payload, s.purgeInterval)
			if err == nil {
				return
			}
			logger.Warnw("worker_cart_purge_enqueue_failed", "error", err)
		}
		_, _ = s.consumer.purgeStaleCarts(0, time.Now())
	}
	runOnce()

	ticker := time.NewTicker(s.purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func resolvePurgeInterval(consumer *Consumer) time.Duration {
	if consumer != nil && consumer.Config != nil && consumer.Config.Cart.PurgeIntervalMinutes > 0 {
		return time.Duration(consumer.Config.Cart.PurgeIntervalMinutes) * time.Minute
	}
	return defaultCartPurgeInterval
}

// PurgeService 未启用队列时在进程内定时清理匿名购物车
type PurgeService struct {
	consumer *Consumer
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPurgeService 创建进程内清理服务
func NewPurgeService(consumer *Consumer) (*PurgeService, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	return &PurgeService{
		consumer: consumer,
		interval: resolvePurgeInterval(consumer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Name 服务名称
func (s *PurgeService) Name() string {
	return "cart-purge"
}

// Start 阻塞运行直到 ctx 结束或 Stop 被调用
func (s *PurgeService) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("purge service not initialized")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_, _ = s.consumer.purgeStaleCarts(0, time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			_, _ = s.consumer.purgeStaleCarts(0, time.Now())
		}
	}
}

// Stop 停止服务
func (s *PurgeService) Stop(_ context.Context) error {
	if s == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	return nil
}
