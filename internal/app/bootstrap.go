package app

import (
	"errors"
	"fmt"

	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/provider"
	"github.com/techstore-next/internal/router"
	"github.com/techstore-next/internal/worker"
)

// BuildRunner 按启动模式组装服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !isKnownMode(mode) {
		return nil, fmt.Errorf("unknown mode: %s", mode)
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode requires queue.enabled")
	}

	container := provider.NewContainer(cfg)
	return buildRunner(cfg, container, mode)
}

func buildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			// 无队列时浏览量同步累加，只需在进程内清理购物车
			purgeService, err := worker.NewPurgeService(consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, purgeService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "queue_enabled", opts.Config.Queue.Enabled)
	return RunWithOptions(runner, opts)
}
