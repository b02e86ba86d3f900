package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sankofabank/core-ledger/internal/domain"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

const entryColumns = `
	id, transaction_id, account_id, entry_type, amount, currency, narration,
	transaction_date, value_date, balance_before, balance_after, channel,
	external_reference, is_reversal_entry
`

func (r *ledgerRepository) CreateEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.TransactionID,
		entry.AccountID,
		entry.EntryType,
		entry.Amount,
		entry.Currency,
		entry.Narration,
		entry.TransactionDate,
		entry.ValueDate,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Channel,
		entry.ExternalReference,
		entry.IsReversalEntry,
	)

	return err
}

func (r *ledgerRepository) ListEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var entries []*domain.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, accountID, limit, offset); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *ledgerRepository) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`

	var entry domain.LedgerEntry
	if err := r.db.GetContext(ctx, &entry, query, entryID); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *ledgerRepository) CreateAccrualLog(ctx context.Context, tx *sqlx.Tx, logRow *domain.InterestAccrualLog) error {
	query := `
		INSERT INTO interest_accrual_logs (
			id, account_id, accrual_date, amount_accrued, interest_rate_pa_used,
			balance_subject_to_interest, direction, is_posted, posting_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, query,
		logRow.ID,
		logRow.AccountID,
		logRow.AccrualDate,
		logRow.AmountAccrued,
		logRow.InterestRatePAUsed,
		logRow.BalanceSubjectToInterest,
		logRow.Direction,
		logRow.IsPosted,
		logRow.PostingDate,
		logRow.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) MarkAccrualsPosted(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, postingDate time.Time) error {
	query := `
		UPDATE interest_accrual_logs
		SET is_posted = TRUE, posting_date = $2
		WHERE account_id = $1 AND is_posted = FALSE
	`

	_, err := tx.ExecContext(ctx, query, accountID, postingDate)
	return err
}
