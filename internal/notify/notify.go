// Package notify delivers order status-change events to the downstream
// inventory/notification collaborator. Delivery is best-effort: failures are
// logged and never surfaced to the write path that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecoprint/b2b-manager/internal/config"
	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

type Event struct {
	OrderID string             `json:"orderId"`
	From    domain.OrderStatus `json:"from,omitempty"`
	To      domain.OrderStatus `json:"to"`
	Actor   string             `json:"actor"`
	At      time.Time          `json:"at"`
}

type Service struct {
	url        string
	client     clients.HTTPClientI
	workerPool WorkerPoolI

	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg *config.Config, client clients.HTTPClientI) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		url:        cfg.NotifyAddress,
		client:     client,
		workerPool: NewWorkerPool(10),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// OrderStatusChanged queues one delivery. It never blocks the caller beyond
// worker-pool admission and never returns an error.
func (s *Service) OrderStatusChanged(orderID string, from, to domain.OrderStatus, actor string) {
	event := Event{
		OrderID: orderID,
		From:    from,
		To:      to,
		Actor:   actor,
		At:      time.Now(),
	}
	err := s.workerPool.AddTask(s.ctx, func() error {
		return s.deliver(s.ctx, event)
	})
	if err != nil {
		zap.L().Error("failed to queue status notification",
			zap.String("orderID", orderID), zap.Error(err))
	}
}

// Broadcast fans one event per status change out through the pool.
func (s *Service) Broadcast(changes []domain.StatusChange, actor string) {
	var g errgroup.Group
	for _, change := range changes {
		change := change
		g.Go(func() error {
			event := Event{OrderID: change.OrderID, From: change.From, To: change.To, Actor: actor, At: time.Now()}
			return s.workerPool.AddTask(s.ctx, func() error {
				return s.deliver(s.ctx, event)
			})
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("failed to queue bulk status notifications", zap.Error(err))
	}
}

func (s *Service) deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	url := s.url + "/api/notifications/order-status"
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		statusCode, _, err := s.client.PostJSON(ctx, url, body)
		if err == nil && statusCode < http.StatusInternalServerError {
			if statusCode >= http.StatusBadRequest {
				zap.L().Warn("notification rejected",
					zap.String("orderID", event.OrderID), zap.Int("status", statusCode))
			}
			return nil
		}
		if attempt < maxRetries {
			time.Sleep(retryInterval * time.Duration(attempt))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to deliver notification for order %s after %d retries: %w",
				event.OrderID, maxRetries, err)
		}
		return fmt.Errorf("notification endpoint returned %d for order %s", statusCode, event.OrderID)
	}
	return nil
}

func (s *Service) Stop() {
	s.cancel()
	s.workerPool.Close()
}
