package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, transaction_number, transaction_date, description, document_number, is_posted, created_at, updated_at`

// Create inserts a new transaction header.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		transaction.ID,
		stringToPgText(transaction.TransactionNumber),
		timeToPgDate(transaction.TransactionDate),
		transaction.Description,
		transaction.DocumentNumber,
		transaction.IsPosted,
		timeToPgTimestamptz(transaction.CreatedAt),
		timeToPgTimestamptz(transaction.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCode
	}

	return err
}

// Save upserts a transaction header. Posting and unposting flow through
// here; the entries themselves are append-only and never touched.
func (r *TransactionRepository) Save(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			transaction_number = EXCLUDED.transaction_number,
			transaction_date = EXCLUDED.transaction_date,
			description = EXCLUDED.description,
			document_number = EXCLUDED.document_number,
			is_posted = EXCLUDED.is_posted,
			updated_at = EXCLUDED.updated_at
	`

	_, err := pgxTx.Exec(ctx, query,
		transaction.ID,
		stringToPgText(transaction.TransactionNumber),
		timeToPgDate(transaction.TransactionDate),
		transaction.Description,
		transaction.DocumentNumber,
		transaction.IsPosted,
		timeToPgTimestamptz(transaction.CreatedAt),
		timeToPgTimestamptz(transaction.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction with its entries by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.getOne(ctx, query, id)
}

// GetByNumber retrieves a transaction with its entries by its number.
func (r *TransactionRepository) GetByNumber(ctx context.Context, number string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_number = $1`

	return r.getOne(ctx, query, number)
}

// List lists transaction headers ordered by creation time, newest first.
// Entries are not loaded.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) getOne(ctx context.Context, query string, arg any) (*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}

		return nil, domain.ErrTransactionNotFound
	}

	transaction, err := scanTransaction(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	transaction.Entries, err = r.loadEntries(ctx, transaction.ID)
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

func (r *TransactionRepository) loadEntries(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE transaction_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, transactionID)
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

func scanTransaction(rows pgx.Rows) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		number      pgtype.Text
		date        pgtype.Date
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := rows.Scan(
		&transaction.ID,
		&number,
		&date,
		&transaction.Description,
		&transaction.DocumentNumber,
		&transaction.IsPosted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.TransactionNumber = pgTextToString(number)
	transaction.TransactionDate = domain.DateOnly(date.Time)
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time

	return &transaction, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
