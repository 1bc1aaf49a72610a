package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/provider"
	"github.com/techstore-next/internal/queue"
	"github.com/techstore-next/internal/service"

	"github.com/hibiken/asynq"
)

const defaultCartStaleDays = 30

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskProductViewIncrement, c.handleProductView)
	mux.HandleFunc(queue.TaskCartPurgeStale, c.handleCartPurgeStale)
}

func (c *Consumer) handleProductView(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_product_view_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ProductViewPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_product_view_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_product_view_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.CatalogService == nil {
		logger.Warnw("worker_product_view_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	if err := c.CatalogService.IncrementView(payload.ProductID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return nil
		}
		logger.Warnw("worker_product_view_increment_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCartPurgeStale(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPurgeStalePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_cart_purge_unmarshal_failed", "error", err)
			return err
		}
	}
	_, err := c.purgeStaleCarts(payload.StaleDays, time.Now())
	return err
}

// purgeStaleCarts 清理过期匿名购物车；staleDays 未指定时取配置值
func (c *Consumer) purgeStaleCarts(staleDays int, now time.Time) (int64, error) {
	if c.CartService == nil {
		logger.Warnw("worker_cart_purge_skip_service_nil")
		return 0, nil
	}
	if staleDays <= 0 {
		staleDays = c.staleDays()
	}
	removed, err := c.CartService.PurgeStale(staleDays, now)
	if err != nil {
		logger.Warnw("worker_cart_purge_failed", "stale_days", staleDays, "error", err)
		return 0, err
	}
	if removed > 0 {
		logger.Infow("worker_cart_purge_done", "stale_days", staleDays, "removed", removed)
	}
	return removed, nil
}

func (c *Consumer) staleDays() int {
	if c.Config != nil && c.Config.Cart.StaleDays > 0 {
		return c.Config.Cart.StaleDays
	}
	return defaultCartStaleDays
}
