package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
	"github.com/propertyhub/transaction-service/internal/platform/logger"
	"github.com/propertyhub/transaction-service/internal/service"
)

type PurchaseHandler struct {
	svc service.PurchaseService
	log logger.Logger
}

func NewPurchaseHandler(svc service.PurchaseService, log logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, log: log}
}

func (h *PurchaseHandler) Routes(r chi.Router) {
	r.Post("/", h.initiate)
	r.Get("/{transactionID}", h.get)
	r.Post("/{transactionID}/complete", h.complete)
	r.Post("/{transactionID}/cancel", h.cancel)
}

type initiatePurchaseRequest struct {
	PropertyID string `json:"propertyId"`
	BuyerID    string `json:"buyerId"`
}

type transactionResponse struct {
	TransactionID   string    `json:"transactionId"`
	PropertyID      string    `json:"propertyId"`
	BuyerID         string    `json:"buyerId"`
	BrokerID        string    `json:"brokerId,omitempty"`
	Amount          float64   `json:"amount"`
	TransactionDate time.Time `json:"transactionDate"`
	Status          string    `json:"status"`
}

type completionResponse struct {
	transactionResponse
	PropertyStatus string `json:"propertyStatus"`
}

func toTransactionResponse(t *entity.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID:   t.ID,
		PropertyID:      t.PropertyID,
		BuyerID:         t.BuyerID,
		BrokerID:        t.BrokerID,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Status:          string(t.Status),
	}
}

func (h *PurchaseHandler) initiate(w http.ResponseWriter, r *http.Request) {
	var req initiatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, h.log, http.StatusBadRequest, kindBadRequest)
		return
	}
	if req.PropertyID == "" || req.BuyerID == "" {
		writeErrorKind(w, h.log, http.StatusBadRequest, kindBadRequest)
		return
	}

	transaction, err := h.svc.InitiatePurchase(r.Context(), req.PropertyID, req.BuyerID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, toTransactionResponse(transaction))
}

func (h *PurchaseHandler) get(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	transaction, err := h.svc.GetTransaction(r.Context(), transactionID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, toTransactionResponse(transaction))
}

func (h *PurchaseHandler) complete(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	completion, err := h.svc.CompletePurchase(r.Context(), transactionID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, completionResponse{
		transactionResponse: toTransactionResponse(completion.Transaction),
		PropertyStatus:      string(completion.PropertyStatus),
	})
}

func (h *PurchaseHandler) cancel(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	transaction, err := h.svc.CancelPurchase(r.Context(), transactionID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, toTransactionResponse(transaction))
}
