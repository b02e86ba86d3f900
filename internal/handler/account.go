package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/internal/service"
	"github.com/sankofabank/core-ledger/pkg/response"
)

type AccountHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewAccountHandler(svc *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		service:   svc,
		validator: validator.New(),
	}
}

func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var request domain.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	account, err := h.service.OpenAccount(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, account)
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	balance, err := h.service.GetBalance(r.Context(), accountNumber)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, balance)
}

func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.service.GetStatement(r.Context(), accountNumber, limit, offset)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, entries)
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	var request domain.UpdateAccountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	account, err := h.service.UpdateStatus(r.Context(), accountNumber, request.Status)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, account)
}

func (h *AccountHandler) PostTransfer(w http.ResponseWriter, r *http.Request) {
	var request domain.PostTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.PostTransfer(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *AccountHandler) ReverseEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(mux.Vars(r)["entryId"])
	if err != nil {
		response.BadRequest(w, "Invalid entry ID", err)
		return
	}

	var request struct {
		Narration string `json:"narration" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	reversal, err := h.service.ReverseEntry(r.Context(), entryID, request.Narration)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, reversal)
}

func (h *AccountHandler) PlaceLien(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	var request domain.LienRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	account, err := h.service.PlaceLien(r.Context(), accountNumber, request.Amount)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, account)
}

func (h *AccountHandler) ReleaseLien(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	var request struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	account, err := h.service.ReleaseLien(r.Context(), accountNumber, request.Amount)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, account)
}
