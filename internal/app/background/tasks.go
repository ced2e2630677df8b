package background

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/charge"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Config struct {
	SweepSchedule string
	MinAge        time.Duration
	BatchSize     int
	WebhookTopic  string
	GroupID       string
}

type BackgroundTasks struct {
	ChargeUsecase charge.ChargeUsecase
	Subscriber    domain.SubscriberPort
	Config        Config
	Logger        logrus.FieldLogger

	cron *cron.Cron
}

func NewBackgroundTasks(chargeUC charge.ChargeUsecase, subscriber domain.SubscriberPort, cfg Config, logger logrus.FieldLogger) *BackgroundTasks {
	return &BackgroundTasks{
		ChargeUsecase: chargeUC,
		Subscriber:    subscriber,
		Config:        cfg,
		Logger:        logger,
	}
}

// StartAll schedules the pending-charge sweep and, when a subscriber is set, starts consuming
// gateway notifications. Everything stops when ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	bt.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := bt.cron.AddFunc(bt.Config.SweepSchedule, func() { bt.sweepPending(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", bt.Config.SweepSchedule, err)
	}
	bt.cron.Start()
	bt.Logger.WithField("schedule", bt.Config.SweepSchedule).Info("pending charge sweep scheduled")

	if bt.Subscriber != nil {
		msgs, err := bt.Subscriber.Subscribe(ctx, bt.Config.WebhookTopic, bt.Config.GroupID)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", bt.Config.WebhookTopic, err)
		}
		go bt.consumeNotifications(ctx, msgs)
		bt.Logger.WithField("topic", bt.Config.WebhookTopic).Info("consuming gateway notifications")
	}
	return nil
}

// Stop waits for a running sweep to finish.
func (bt *BackgroundTasks) Stop() {
	if bt.cron == nil {
		return
	}
	<-bt.cron.Stop().Done()
}

func (bt *BackgroundTasks) sweepPending(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	n, err := bt.ChargeUsecase.SweepPending(ctx, bt.Config.MinAge, bt.Config.BatchSize)
	if err != nil {
		bt.Logger.WithError(err).Error("pending charge sweep failed")
		return
	}
	if n > 0 {
		bt.Logger.WithField("checked", n).Info("pending charges swept")
	}
}

func (bt *BackgroundTasks) consumeNotifications(ctx context.Context, msgs <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				bt.Logger.Warn("gateway notification stream closed")
				return
			}
			bt.handleNotification(ctx, msg)
		}
	}
}

func (bt *BackgroundTasks) handleNotification(ctx context.Context, msg domain.Message) {
	var n domain.GatewayNotification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		bt.Logger.WithError(err).WithField("key", string(msg.Key)).Warn("malformed gateway notification")
		return
	}
	if n.ID == "" {
		bt.Logger.WithField("key", string(msg.Key)).Warn("gateway notification without id")
		return
	}

	out, err := bt.ChargeUsecase.HandleNotification(ctx, n)
	if err != nil {
		bt.Logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": n.ID,
			"status":         n.Status,
			"kind":           domain.KindOf(err),
		}).Error("failed to apply gateway notification")
		return
	}
	bt.Logger.WithFields(logrus.Fields{
		"transaction_id": n.ID,
		"status":         out.Status,
	}).Debug("gateway notification applied")
}
