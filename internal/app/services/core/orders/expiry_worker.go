package orders

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
)

// leaderLockKey serializes the sweep so only one instance expires orders.
const leaderLockKey = "orderexpiry:leader"

// ExpiryWorker periodically flips overdue pending orders to expired.
type ExpiryWorker struct {
	log          *zap.Logger
	cfg          *config.InternalConfig
	locker       contracts.LockerService
	orderUsecase contracts.OrderUsecase
	cron         *cron.Cron
	runCtx       context.Context
	cancel       context.CancelFunc
}

func NewExpiryWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, orderUsecase contracts.OrderUsecase) *ExpiryWorker {
	return &ExpiryWorker{log: log, cfg: cfg, locker: lockerSvc, orderUsecase: orderUsecase}
}

// Start begins the periodic sweep on the configured cron spec.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Payment.ExpirySweepCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("orders.expiryWorker: failed to schedule with provided cron spec; falling back to @every 1m", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop gracefully stops the cron and waits for a running sweep to finish.
func (w *ExpiryWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *ExpiryWorker) runOnce(ctx context.Context) {
	ttl := time.Duration(w.cfg.Payment.ExpirySweepLockTTLInSeconds) * time.Second
	acquired, token, err := w.locker.TryLock(ctx, leaderLockKey, ttl)
	if err != nil {
		w.log.Warn("orders.expiryWorker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("orders.expiryWorker: leader lock not acquired; another instance is sweeping")
		return
	}
	defer w.locker.Unlock(ctx, leaderLockKey, token)

	if _, err := w.orderUsecase.ExpireDueOrders(ctx); err != nil {
		w.log.Warn("orders.expiryWorker: sweep failed", zap.Error(err))
	}
}
