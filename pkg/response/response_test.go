package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
}

func TestBusinessError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()

	BusinessError(rec, customError.WrapAccountNotFound("0123456789"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, customError.ErrCodeAccountNotFound, resp.Code)

	rec = httptest.NewRecorder()
	BusinessError(rec, customError.WrapLoanNotFound("3000000011"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBusinessError_BadRequest(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"insufficient funds", customError.WrapInsufficientFunds("0123456789", decimal.NewFromInt(1000), decimal.RequireFromString("1000.01")), customError.ErrCodeInsufficientFunds},
		{"post no debit", customError.WrapPostNoDebit("0123456789"), customError.ErrCodePostNoDebit},
		{"currency mismatch", customError.WrapCurrencyMismatch("USD", "NGN"), customError.ErrCodeCurrencyMismatch},
		{"account not active", customError.WrapAccountNotActive("0123456789", "dormant"), customError.ErrCodeAccountNotActive},
		{"loan closed", customError.WrapLoanClosed("3000000011", "paid_off"), customError.ErrCodeLoanClosed},
		{"invalid amount", customError.WrapInvalidAmount(decimal.Zero), customError.ErrCodeInvalidAmount},
		{"invalid operation", customError.WrapInvalidOperation("cannot reverse a reversal entry"), customError.ErrCodeInvalidOperation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			BusinessError(rec, tc.err)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestBusinessError_Unknown(t *testing.T) {
	rec := httptest.NewRecorder()

	BusinessError(rec, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestBusinessError_WrappedDatabaseError(t *testing.T) {
	rec := httptest.NewRecorder()

	BusinessError(rec, customError.WrapDatabaseError(errors.New("dial tcp: refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, customError.ErrCodeDatabaseError, resp.Code)
}
