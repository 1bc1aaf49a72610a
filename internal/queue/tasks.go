package queue

import (
	"encoding/json"

	"github.com/techstore-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskProductViewIncrement 商品浏览量累加任务
	TaskProductViewIncrement = constants.TaskProductViewIncrement
	// TaskCartPurgeStale 过期匿名购物车清理任务
	TaskCartPurgeStale = constants.TaskCartPurgeStale
)

// ProductViewPayload 商品浏览任务载荷
type ProductViewPayload struct {
	ProductID uint `json:"product_id"`
}

// CartPurgeStalePayload 匿名购物车清理任务载荷
type CartPurgeStalePayload struct {
	StaleDays int `json:"stale_days"`
}

// NewProductViewTask 创建商品浏览任务
func NewProductViewTask(payload ProductViewPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductViewIncrement, body), nil
}

// NewCartPurgeStaleTask 创建匿名购物车清理任务
func NewCartPurgeStaleTask(payload CartPurgeStalePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPurgeStale, body), nil
}
