package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propertyhub/transaction-service/internal/adapter/nats"
	"github.com/propertyhub/transaction-service/internal/domain/entity"
	"github.com/propertyhub/transaction-service/internal/platform/logger"
	"github.com/propertyhub/transaction-service/internal/platform/metrics"
	"github.com/propertyhub/transaction-service/internal/repository"
)

const (
	natsSubjectPurchaseCreated          = "purchase.created"
	natsSubjectPurchaseCompleted        = "purchase.completed"
	natsSubjectPurchaseCancelled        = "purchase.cancelled"
	natsSubjectPropertyStatusUpdated    = "property.status.updated"
	natsSubjectReconciliationDivergence = "purchase.reconciliation.divergence"
)

// PurchaseServiceConfig carries the reservation policy. With
// ReserveOnInitiate set, a purchase intent holds the property at PENDING
// until the transaction settles; the completion CAS then expects PENDING as
// the prior status. With it cleared, properties stay ACTIVE while a purchase
// is in flight and completion expects ACTIVE.
type PurchaseServiceConfig struct {
	ReserveOnInitiate bool
	PropertyCacheTTL  time.Duration
}

// PurchaseCompletion is the outcome of a successful CompletePurchase: the
// completed transaction and the terminal status the property was moved to.
type PurchaseCompletion struct {
	Transaction    *entity.Transaction
	PropertyStatus entity.PropertyStatus
}

type PurchaseService interface {
	InitiatePurchase(ctx context.Context, propertyID, buyerID string) (*entity.Transaction, error)
	CompletePurchase(ctx context.Context, transactionID string) (*PurchaseCompletion, error)
	CancelPurchase(ctx context.Context, transactionID string) (*entity.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*entity.Transaction, error)
	ListPropertyTransactions(ctx context.Context, propertyID string) ([]entity.Transaction, error)
	GetProperty(ctx context.Context, propertyID string) (*entity.Property, error)
}

type purchaseService struct {
	propertyRepo    repository.PropertyRepository
	transactionRepo repository.TransactionRepository
	userLookup      repository.UserLookup
	propertyCache   repository.PropertyCache
	msgPublisher    nats.MessagePublisher
	log             logger.Logger
	cfg             PurchaseServiceConfig
}

func NewPurchaseService(
	propertyRepo repository.PropertyRepository,
	transactionRepo repository.TransactionRepository,
	userLookup repository.UserLookup,
	propertyCache repository.PropertyCache,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
	cfg PurchaseServiceConfig,
) PurchaseService {
	return &purchaseService{
		propertyRepo:    propertyRepo,
		transactionRepo: transactionRepo,
		userLookup:      userLookup,
		propertyCache:   propertyCache,
		msgPublisher:    msgPublisher,
		log:             log,
		cfg:             cfg,
	}
}

// expectedPriorStatus is the property status a completion (or cancellation
// rollback) CAS expects to find, derived from the reservation policy.
func (s *purchaseService) expectedPriorStatus() entity.PropertyStatus {
	if s.cfg.ReserveOnInitiate {
		return entity.PropertyStatusPending
	}
	return entity.PropertyStatusActive
}

func (s *purchaseService) InitiatePurchase(ctx context.Context, propertyID, buyerID string) (*entity.Transaction, error) {
	s.log.Infof("Initiating purchase of property %s by buyer %s", propertyID, buyerID)

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePurchase("initiate", "rejected")
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		metrics.ObservePurchase("initiate", "error")
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	if !property.IsPurchasable() {
		s.log.Warnf("Purchase of property %s rejected: status is %s", propertyID, property.Status)
		metrics.ObservePurchase("initiate", "rejected")
		return nil, fmt.Errorf("property %s has status %s: %w", propertyID, property.Status, ErrPropertyNotPurchasable)
	}

	exists, err := s.userLookup.Exists(ctx, buyerID)
	if err != nil {
		metrics.ObservePurchase("initiate", "error")
		return nil, fmt.Errorf("failed to resolve buyer %s: %w", buyerID, err)
	}
	if !exists {
		s.log.Warnf("Purchase of property %s rejected: buyer %s does not resolve", propertyID, buyerID)
		metrics.ObservePurchase("initiate", "rejected")
		return nil, fmt.Errorf("buyer %s: %w", buyerID, ErrInvalidReference)
	}

	if buyerID == property.OwnerUserID {
		s.log.Warnf("Buyer %s attempted to purchase own property %s", buyerID, propertyID)
		metrics.ObservePurchase("initiate", "rejected")
		return nil, fmt.Errorf("buyer %s owns property %s: %w", buyerID, propertyID, ErrSelfPurchase)
	}

	// Amount is snapshotted from the property's current price, not held as a
	// live reference.
	transaction, err := entity.NewTransaction(propertyID, buyerID, property.BrokerID, property.Price)
	if err != nil {
		metrics.ObservePurchase("initiate", "rejected")
		return nil, fmt.Errorf("invalid purchase intent: %w", err)
	}

	transactionID, err := s.transactionRepo.Create(ctx, repository.CreateTransactionParams{
		PropertyID:      transaction.PropertyID,
		BuyerID:         transaction.BuyerID,
		BrokerID:        transaction.BrokerID,
		Amount:          transaction.Amount,
		TransactionDate: transaction.TransactionDate,
	})
	if err != nil {
		metrics.ObservePurchase("initiate", "error")
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	transaction.ID = transactionID

	if s.cfg.ReserveOnInitiate {
		err = s.propertyRepo.TransitionStatus(ctx, repository.TransitionPropertyStatusParams{
			PropertyID:      propertyID,
			Target:          entity.PropertyStatusPending,
			ExpectedCurrent: entity.PropertyStatusActive,
		})
		if err != nil {
			// Another buyer won the reservation race; roll the just-created
			// transaction back so no orphaned PENDING record remains.
			if cancelErr := s.transactionRepo.UpdateStatus(ctx, repository.UpdateTransactionStatusParams{
				TransactionID:   transactionID,
				Target:          entity.TransactionStatusCancelled,
				ExpectedCurrent: entity.TransactionStatusPending,
			}); cancelErr != nil {
				s.log.Errorf("Failed to roll back transaction %s after lost reservation on property %s: %v", transactionID, propertyID, cancelErr)
			}
			if errors.Is(err, repository.ErrStatusConflict) || errors.Is(err, repository.ErrNotFound) {
				s.log.Warnf("Reservation of property %s lost for transaction %s", propertyID, transactionID)
				metrics.ObservePurchase("initiate", "rejected")
				return nil, fmt.Errorf("property %s was reserved concurrently: %w", propertyID, ErrPropertyNotPurchasable)
			}
			metrics.ObservePurchase("initiate", "error")
			return nil, fmt.Errorf("failed to reserve property %s: %w", propertyID, err)
		}
		s.invalidateProperty(ctx, propertyID)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectPurchaseCreated, transaction); err != nil {
		s.log.Warnf("Failed to publish purchase created event for transaction %s: %v", transactionID, err)
	}

	s.log.Infof("Purchase of property %s initiated: transaction %s", propertyID, transactionID)
	metrics.ObservePurchase("initiate", "success")
	return transaction, nil
}

func (s *purchaseService) CompletePurchase(ctx context.Context, transactionID string) (*PurchaseCompletion, error) {
	s.log.Infof("Completing purchase transaction %s", transactionID)

	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePurchase("complete", "rejected")
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		metrics.ObservePurchase("complete", "error")
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}

	// The CAS from PENDING is the idempotence guard: a retry of a completed
	// (or cancelled) transaction fails here and never re-drives the property
	// transition.
	err = s.transactionRepo.UpdateStatus(ctx, repository.UpdateTransactionStatusParams{
		TransactionID:   transactionID,
		Target:          entity.TransactionStatusCompleted,
		ExpectedCurrent: entity.TransactionStatusPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			s.log.Warnf("Transaction %s is already settled (status %s)", transactionID, transaction.Status)
			metrics.ObservePurchase("complete", "rejected")
			return nil, fmt.Errorf("transaction %s is already settled: %w", transactionID, ErrConflict)
		}
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePurchase("complete", "rejected")
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		metrics.ObservePurchase("complete", "error")
		return nil, fmt.Errorf("failed to complete transaction %s: %w", transactionID, err)
	}
	transaction.Status = entity.TransactionStatusCompleted
	transaction.Version++

	expected := s.expectedPriorStatus()

	property, err := s.propertyRepo.GetByID(ctx, transaction.PropertyID)
	if err != nil {
		// The transaction is completed; a missing property is a divergence,
		// not a rollback.
		return nil, s.reportDivergence(ctx, transactionID, transaction.PropertyID, entity.PropertyStatus(""), expected)
	}

	target := property.PropertyType.TerminalStatus()
	err = s.propertyRepo.TransitionStatus(ctx, repository.TransitionPropertyStatusParams{
		PropertyID:      property.ID,
		Target:          target,
		ExpectedCurrent: expected,
	})
	if err != nil {
		actual := entity.PropertyStatus("")
		if current, readErr := s.propertyRepo.GetByID(ctx, property.ID); readErr == nil {
			actual = current.Status
		}
		return nil, s.reportDivergence(ctx, transactionID, property.ID, actual, expected)
	}
	s.invalidateProperty(ctx, property.ID)

	if err := s.msgPublisher.Publish(ctx, natsSubjectPurchaseCompleted, transaction); err != nil {
		s.log.Warnf("Failed to publish purchase completed event for transaction %s: %v", transactionID, err)
	}
	if err := s.msgPublisher.Publish(ctx, natsSubjectPropertyStatusUpdated, map[string]interface{}{
		"propertyId": property.ID,
		"status":     target,
	}); err != nil {
		s.log.Warnf("Failed to publish property status updated event for property %s: %v", property.ID, err)
	}

	s.log.Infof("Purchase transaction %s completed, property %s moved to %s", transactionID, property.ID, target)
	metrics.ObservePurchase("complete", "success")
	return &PurchaseCompletion{
		Transaction:    transaction,
		PropertyStatus: target,
	}, nil
}

func (s *purchaseService) CancelPurchase(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	s.log.Infof("Cancelling purchase transaction %s", transactionID)

	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePurchase("cancel", "rejected")
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		metrics.ObservePurchase("cancel", "error")
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}

	err = s.transactionRepo.UpdateStatus(ctx, repository.UpdateTransactionStatusParams{
		TransactionID:   transactionID,
		Target:          entity.TransactionStatusCancelled,
		ExpectedCurrent: entity.TransactionStatusPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			metrics.ObservePurchase("cancel", "rejected")
			return nil, fmt.Errorf("transaction %s is already settled: %w", transactionID, ErrConflict)
		}
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePurchase("cancel", "rejected")
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		metrics.ObservePurchase("cancel", "error")
		return nil, fmt.Errorf("failed to cancel transaction %s: %w", transactionID, err)
	}
	transaction.Status = entity.TransactionStatusCancelled
	transaction.Version++

	if s.cfg.ReserveOnInitiate {
		// Best-effort release of the reservation. A conflict means the
		// property moved on independently; the cancellation still stands.
		err = s.propertyRepo.TransitionStatus(ctx, repository.TransitionPropertyStatusParams{
			PropertyID:      transaction.PropertyID,
			Target:          entity.PropertyStatusActive,
			ExpectedCurrent: entity.PropertyStatusPending,
		})
		switch {
		case err == nil:
			s.invalidateProperty(ctx, transaction.PropertyID)
		case errors.Is(err, repository.ErrStatusConflict) || errors.Is(err, repository.ErrNotFound):
			s.log.Debugf("Reservation release skipped for property %s: %v", transaction.PropertyID, err)
		default:
			s.log.Warnf("Failed to release reservation on property %s for transaction %s: %v", transaction.PropertyID, transactionID, err)
		}
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectPurchaseCancelled, transaction); err != nil {
		s.log.Warnf("Failed to publish purchase cancelled event for transaction %s: %v", transactionID, err)
	}

	s.log.Infof("Purchase transaction %s cancelled", transactionID)
	metrics.ObservePurchase("cancel", "success")
	return transaction, nil
}

func (s *purchaseService) GetTransaction(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	return transaction, nil
}

func (s *purchaseService) ListPropertyTransactions(ctx context.Context, propertyID string) ([]entity.Transaction, error) {
	transactions, err := s.transactionRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for property %s: %w", propertyID, err)
	}
	return transactions, nil
}

// GetProperty serves the read side through the cache. Guard checks inside
// the purchase workflow never go through here; they always read the store.
func (s *purchaseService) GetProperty(ctx context.Context, propertyID string) (*entity.Property, error) {
	cached, err := s.propertyCache.Get(ctx, propertyID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warnf("Property cache read failed for %s: %v", propertyID, err)
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	if err := s.propertyCache.Set(ctx, property, s.cfg.PropertyCacheTTL); err != nil {
		s.log.Warnf("Failed to cache property %s: %v", propertyID, err)
	}
	return property, nil
}

func (s *purchaseService) invalidateProperty(ctx context.Context, propertyID string) {
	if err := s.propertyCache.Delete(ctx, propertyID); err != nil {
		s.log.Warnf("Failed to invalidate cached property %s: %v", propertyID, err)
	}
}

// reportDivergence surfaces a property projection that failed to converge on
// a completed transaction: logged, counted, published, and returned as a
// typed error. The completed transaction is never rolled back.
func (s *purchaseService) reportDivergence(ctx context.Context, transactionID, propertyID string, actual, expected entity.PropertyStatus) error {
	divergence := &DivergenceError{
		TransactionID: transactionID,
		PropertyID:    propertyID,
		Expected:      expected,
		Actual:        actual,
	}

	s.log.Errorf("Reconciliation divergence: %v", divergence)
	metrics.ObserveDivergence()
	metrics.ObservePurchase("complete", "divergence")

	if err := s.msgPublisher.Publish(ctx, natsSubjectReconciliationDivergence, map[string]interface{}{
		"transactionId":  transactionID,
		"propertyId":     propertyID,
		"expectedStatus": expected,
		"actualStatus":   actual,
	}); err != nil {
		s.log.Warnf("Failed to publish reconciliation divergence event for transaction %s: %v", transactionID, err)
	}

	return divergence
}
