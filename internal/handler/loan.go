package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/internal/service"
	"github.com/sankofabank/core-ledger/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(svc *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   svc,
		validator: validator.New(),
	}
}

func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var request domain.DisburseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.DisburseLoan(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanAccountNumber := mux.Vars(r)["loanAccountNumber"]

	loanAccount, err := h.service.GetLoan(r.Context(), loanAccountNumber)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, loanAccount)
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanAccountNumber := mux.Vars(r)["loanAccountNumber"]

	schedule, err := h.service.GetSchedule(r.Context(), loanAccountNumber)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, schedule)
}

func (h *LoanHandler) MakeRepayment(w http.ResponseWriter, r *http.Request) {
	loanAccountNumber := mux.Vars(r)["loanAccountNumber"]

	var request domain.RepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	repayment, err := h.service.ProcessRepayment(r.Context(), loanAccountNumber, &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, repayment)
}
