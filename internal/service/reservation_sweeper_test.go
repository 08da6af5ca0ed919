package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
)

func TestReservationSweeper_CancelsStalePending(t *testing.T) {
	purchases := new(MockPurchaseService)
	transactionRepo := new(MockTransactionRepository)
	sweeper := NewReservationSweeper(purchases, transactionRepo, NewNoOpLogger(), time.Minute, 30*time.Minute)

	stale := []entity.Transaction{
		{ID: "tx1", PropertyID: "property1", Status: entity.TransactionStatusPending},
		{ID: "tx2", PropertyID: "property2", Status: entity.TransactionStatusPending},
	}

	transactionRepo.On("ListStalePending", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) >= 30*time.Minute
	})).Return(stale, nil).Once()
	purchases.On("CancelPurchase", mock.Anything, "tx1").Return(&entity.Transaction{ID: "tx1", Status: entity.TransactionStatusCancelled}, nil).Once()
	purchases.On("CancelPurchase", mock.Anything, "tx2").Return(&entity.Transaction{ID: "tx2", Status: entity.TransactionStatusCancelled}, nil).Once()

	sweeper.sweep(context.Background())

	transactionRepo.AssertExpectations(t)
	purchases.AssertExpectations(t)
}

func TestReservationSweeper_SettledRaceIsSkipped(t *testing.T) {
	purchases := new(MockPurchaseService)
	transactionRepo := new(MockTransactionRepository)
	sweeper := NewReservationSweeper(purchases, transactionRepo, NewNoOpLogger(), time.Minute, 30*time.Minute)

	stale := []entity.Transaction{
		{ID: "tx1", PropertyID: "property1", Status: entity.TransactionStatusPending},
		{ID: "tx2", PropertyID: "property2", Status: entity.TransactionStatusPending},
	}

	transactionRepo.On("ListStalePending", mock.Anything, mock.Anything).Return(stale, nil).Once()
	// tx1 completed between the scan and the cancel attempt.
	purchases.On("CancelPurchase", mock.Anything, "tx1").Return(nil, ErrConflict).Once()
	purchases.On("CancelPurchase", mock.Anything, "tx2").Return(&entity.Transaction{ID: "tx2", Status: entity.TransactionStatusCancelled}, nil).Once()

	sweeper.sweep(context.Background())

	purchases.AssertExpectations(t)
}

func TestReservationSweeper_ListFailureSkipsCycle(t *testing.T) {
	purchases := new(MockPurchaseService)
	transactionRepo := new(MockTransactionRepository)
	sweeper := NewReservationSweeper(purchases, transactionRepo, NewNoOpLogger(), time.Minute, 30*time.Minute)

	transactionRepo.On("ListStalePending", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	sweeper.sweep(context.Background())

	purchases.AssertNotCalled(t, "CancelPurchase", mock.Anything, mock.Anything)
}

func TestReservationSweeper_StopsOnContextCancel(t *testing.T) {
	purchases := new(MockPurchaseService)
	transactionRepo := new(MockTransactionRepository)
	sweeper := NewReservationSweeper(purchases, transactionRepo, NewNoOpLogger(), 10*time.Millisecond, 30*time.Minute)

	transactionRepo.On("ListStalePending", mock.Anything, mock.Anything).Return([]entity.Transaction{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
	assert.True(t, transactionRepo.AssertCalled(t, "ListStalePending", mock.Anything, mock.Anything))
}
