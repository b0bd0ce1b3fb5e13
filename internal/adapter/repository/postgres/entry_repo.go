package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// LedgerEntryRepository implements usecase.LedgerEntryRepository. The
// ledger_entries table is append-only; date and posted-state filters join
// through the owning transaction.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerEntryRepository creates a new LedgerEntryRepository.
func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{pool: pool}
}

const entryColumns = `id, transaction_id, ledger_entry_number, transaction_number, account_code, entry_type, amount, description, created_at`

// CreateBatch appends entries to the ledger. Entries that already exist
// are skipped, so re-posting a transaction after an unpost is a no-op.
func (r *LedgerEntryRepository) CreateBatch(ctx context.Context, tx usecase.Tx, entries []*domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(query,
			entry.ID,
			entry.TransactionID,
			stringToPgText(entry.LedgerEntryNumber),
			stringToPgText(entry.TransactionNumber),
			entry.AccountCode,
			string(entry.EntryType),
			decimalToNumeric(entry.Amount),
			entry.Description,
			timeToPgTimestamptz(entry.CreatedAt),
		)
	}

	return pgxTx.SendBatch(ctx, batch).Close()
}

// Query lists entries matching the filter, ordered by the owning
// transaction's date.
func (r *LedgerEntryRepository) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT e.id, e.transaction_id, e.ledger_entry_number, e.transaction_number,
		       e.account_code, e.entry_type, e.amount, e.description, e.created_at
		FROM ledger_entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE 1=1
	`
	args := []any{}
	argPos := 1

	if filter.AccountCode != "" {
		query += fmt.Sprintf(` AND e.account_code = $%d`, argPos)
		args = append(args, filter.AccountCode)
		argPos++
	}

	if filter.TransactionNumber != "" {
		query += fmt.Sprintf(` AND e.transaction_number = $%d`, argPos)
		args = append(args, filter.TransactionNumber)
		argPos++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(` AND t.transaction_date >= $%d`, argPos)
		args = append(args, timeToPgDate(domain.DateOnly(*filter.StartDate)))
		argPos++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(` AND t.transaction_date <= $%d`, argPos)
		args = append(args, timeToPgDate(domain.DateOnly(*filter.EndDate)))
		argPos++
	}

	if filter.PostedOnly {
		query += ` AND t.is_posted`
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY t.transaction_date %s, e.created_at %s, e.id`, direction, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(rows pgx.Rows) (*domain.LedgerEntry, error) {
	var (
		entry             domain.LedgerEntry
		entryNumber       pgtype.Text
		transactionNumber pgtype.Text
		entryType         string
		amount            pgtype.Numeric
		createdAt         pgtype.Timestamptz
	)

	err := rows.Scan(
		&entry.ID,
		&entry.TransactionID,
		&entryNumber,
		&transactionNumber,
		&entry.AccountCode,
		&entryType,
		&amount,
		&entry.Description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.LedgerEntryNumber = pgTextToString(entryNumber)
	entry.TransactionNumber = pgTextToString(transactionNumber)
	entry.EntryType = domain.EntryType(entryType)
	entry.Amount = numericToDecimal(amount)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
