// Package tracking sends order events to the seller's attribution service without blocking
// the payment flow.
package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/metrics"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Platform    string
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type job struct {
	sellerID string
	status   domain.TransactionStatus
	payload  *domain.TrackingPayload
}

// Dispatcher runs a fixed worker pool over a bounded queue. When the queue is full the event is
// dropped and logged; callers never wait on delivery.
type Dispatcher struct {
	Settings domain.SettingsRepository
	Client   domain.TrackingClient
	Metrics  *metrics.CheckoutMetrics
	Logger   logrus.FieldLogger
	Config   Config

	queue  chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(
	settings domain.SettingsRepository,
	client domain.TrackingClient,
	cfg Config,
	logger logrus.FieldLogger,
	checkoutMetrics *metrics.CheckoutMetrics,
) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		Settings: settings,
		Client:   client,
		Metrics:  checkoutMetrics,
		Logger:   logger,
		Config:   cfg,
		queue:    make(chan job, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Dispatch snapshots src into a payload and queues it. Ordering relative to the caller's return
// is unspecified.
func (d *Dispatcher) Dispatch(src OrderEventSource, status domain.TransactionStatus) {
	payload, err := BuildPayload(src, status, d.Config.Platform)
	if err != nil {
		d.Logger.WithError(err).Warn("tracking event not built")
		return
	}

	j := job{sellerID: src.SellerID(), status: status, payload: payload}
	log := d.Logger.WithFields(logrus.Fields{
		"order_id":  payload.OrderID,
		"seller_id": j.sellerID,
		"status":    payload.Status,
	})

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn("tracking dispatcher closed, event dropped")
		d.record(status, metrics.TrackingDropped)
		return
	}

	select {
	case d.queue <- j:
	default:
		log.Warn("tracking queue full, event dropped")
		d.record(status, metrics.TrackingDropped)
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	log := d.Logger.WithFields(logrus.Fields{
		"order_id":  j.payload.OrderID,
		"seller_id": j.sellerID,
		"status":    j.payload.Status,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("%w: panic: %v", domain.ErrTrackingDispatchFailed, r)).Error("tracking client panicked")
			d.record(j.status, metrics.TrackingFailed)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.Config.SendTimeout)
	defer cancel()

	settings, err := d.Settings.GetAppSettings(ctx, j.sellerID)
	if err != nil || !settings.TrackingReady() {
		log.Debug("tracking disabled for seller, event skipped")
		d.record(j.status, metrics.TrackingSkipped)
		return
	}

	if err := d.Client.SendOrderEvent(ctx, j.payload, settings.UtmifyToken); err != nil {
		log.WithError(fmt.Errorf("%w: %v", domain.ErrTrackingDispatchFailed, err)).Error("failed to send tracking event")
		d.record(j.status, metrics.TrackingFailed)
		return
	}

	log.Info("tracking event sent")
	d.record(j.status, metrics.TrackingSent)
}

func (d *Dispatcher) record(status domain.TransactionStatus, result string) {
	if d.Metrics == nil {
		return
	}
	d.Metrics.RecordTrackingDispatch(string(status), result)
}
