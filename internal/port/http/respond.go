package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/propertyhub/transaction-service/internal/platform/logger"
	"github.com/propertyhub/transaction-service/internal/service"
)

// Stable error kind strings callers branch on. The free-text message is
// intentionally not exposed.
const (
	kindNotFound                 = "NOT_FOUND"
	kindSelfPurchase             = "SELF_PURCHASE"
	kindPropertyNotPurchasable   = "PROPERTY_NOT_PURCHASABLE"
	kindInvalidReference         = "INVALID_REFERENCE"
	kindConflict                 = "CONFLICT"
	kindReconciliationDivergence = "RECONCILIATION_DIVERGENCE"
	kindBadRequest               = "BAD_REQUEST"
	kindInternal                 = "INTERNAL"
)

type errorResponse struct {
	ErrorKind string `json:"errorKind"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeErrorKind(w http.ResponseWriter, log logger.Logger, status int, kind string) {
	writeJSON(w, log, status, errorResponse{ErrorKind: kind})
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeErrorKind(w, log, http.StatusNotFound, kindNotFound)
	case errors.Is(err, service.ErrSelfPurchase):
		writeErrorKind(w, log, http.StatusUnprocessableEntity, kindSelfPurchase)
	case errors.Is(err, service.ErrInvalidReference):
		writeErrorKind(w, log, http.StatusUnprocessableEntity, kindInvalidReference)
	case errors.Is(err, service.ErrPropertyNotPurchasable):
		writeErrorKind(w, log, http.StatusConflict, kindPropertyNotPurchasable)
	case errors.Is(err, service.ErrConflict):
		writeErrorKind(w, log, http.StatusConflict, kindConflict)
	case errors.Is(err, service.ErrReconciliationDivergence):
		writeErrorKind(w, log, http.StatusInternalServerError, kindReconciliationDivergence)
	default:
		log.Errorf("Unhandled error in HTTP handler: %v", err)
		writeErrorKind(w, log, http.StatusInternalServerError, kindInternal)
	}
}
