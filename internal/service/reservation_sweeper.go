package service

import (
	"context"
	"errors"
	"time"

	"github.com/propertyhub/transaction-service/internal/platform/logger"
	"github.com/propertyhub/transaction-service/internal/platform/metrics"
	"github.com/propertyhub/transaction-service/internal/repository"
)

// ReservationSweeper cancels PENDING purchases that were abandoned mid-flow.
// Without it a reserved property would stay PENDING forever once a buyer
// walks away. Each stale transaction goes through the regular CancelPurchase
// path, so the reservation release and events behave exactly as a
// user-driven cancellation.
type ReservationSweeper struct {
	purchases       PurchaseService
	transactionRepo repository.TransactionRepository
	log             logger.Logger
	interval        time.Duration
	reservationTTL  time.Duration
}

func NewReservationSweeper(
	purchases PurchaseService,
	transactionRepo repository.TransactionRepository,
	log logger.Logger,
	interval time.Duration,
	reservationTTL time.Duration,
) *ReservationSweeper {
	return &ReservationSweeper{
		purchases:       purchases,
		transactionRepo: transactionRepo,
		log:             log,
		interval:        interval,
		reservationTTL:  reservationTTL,
	}
}

func (w *ReservationSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Infof("Reservation sweeper started: interval %s, reservation TTL %s", w.interval, w.reservationTTL)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Reservation sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReservationSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.reservationTTL)

	stale, err := w.transactionRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		w.log.Errorf("Failed to list stale pending transactions: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	w.log.Infof("Sweeping %d stale pending transactions older than %s", len(stale), cutoff.Format(time.RFC3339))

	for _, transaction := range stale {
		_, err := w.purchases.CancelPurchase(ctx, transaction.ID)
		switch {
		case err == nil:
			w.log.Infof("Cancelled stale purchase transaction %s for property %s", transaction.ID, transaction.PropertyID)
			metrics.ObserveStaleReservationCancelled()
		case errors.Is(err, ErrConflict), errors.Is(err, ErrNotFound):
			// Settled between the scan and the cancel; nothing to do.
			w.log.Debugf("Stale transaction %s already settled: %v", transaction.ID, err)
		default:
			w.log.Errorf("Failed to cancel stale transaction %s: %v", transaction.ID, err)
		}
	}
}
