package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propertyhub/transaction-service/internal/platform/logger"
	"github.com/propertyhub/transaction-service/internal/service"
)

type PropertyHandler struct {
	svc service.PurchaseService
	log logger.Logger
}

func NewPropertyHandler(svc service.PurchaseService, log logger.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

func (h *PropertyHandler) Routes(r chi.Router) {
	r.Get("/{propertyID}", h.get)
	r.Get("/{propertyID}/purchases", h.listPurchases)
}

func (h *PropertyHandler) get(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	property, err := h.svc.GetProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, property)
}

func (h *PropertyHandler) listPurchases(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	transactions, err := h.svc.ListPropertyTransactions(r.Context(), propertyID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	responses := make([]transactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = toTransactionResponse(&transactions[i])
	}

	writeJSON(w, h.log, http.StatusOK, responses)
}
