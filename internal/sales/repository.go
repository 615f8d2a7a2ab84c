package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
)

// ErrSaleNotFound is returned when a sale id has no persisted record.
var ErrSaleNotFound = errors.New("sale not found")

const schema = `
CREATE TABLE IF NOT EXISTS sales (
	id             UUID PRIMARY KEY,
	invoice_number TEXT NOT NULL UNIQUE,
	sale_date      TIMESTAMPTZ NOT NULL,
	total_amount   NUMERIC(12,2) NOT NULL
);
CREATE TABLE IF NOT EXISTS sale_lines (
	sale_id     UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	item_id     TEXT NOT NULL,
	item_name   TEXT NOT NULL,
	variant     TEXT NOT NULL DEFAULT '',
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	unit_price  NUMERIC(12,2) NOT NULL,
	total_price NUMERIC(12,2) NOT NULL
);
CREATE SEQUENCE IF NOT EXISTS invoice_seq START 1;
`

// Repository persists sales and their lines.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// EnsureSchema creates the sales tables and invoice sequence if missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure sales schema: %w", err)
	}
	return nil
}

// CreateSale persists the draft atomically: sale row, line rows and an
// invoice number from the sequence, all in one transaction. The stored
// total is recomputed through the shared aggregator, never trusted from
// the client.
func (r *Repository) CreateSale(ctx context.Context, draft cartengine.SaleDraft) (*Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('invoice_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	sale := &Sale{
		SaleID:        uuid.NewString(),
		InvoiceNumber: fmt.Sprintf("INV-%06d", seq),
		SaleDate:      time.Now().UTC(),
		Items:         draft.Items,
		TotalAmount:   cartengine.LinesTotal(draft.Items),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, invoice_number, sale_date, total_amount) VALUES ($1, $2, $3, $4)`,
		sale.SaleID, sale.InvoiceNumber, sale.SaleDate, sale.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, line := range sale.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_lines (sale_id, item_id, item_name, variant, quantity, unit_price, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.SaleID, line.ItemID, line.ItemName, string(line.Variant), line.Quantity, line.UnitPrice, line.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	r.logger.Info("sale persisted",
		zap.String("sale_id", sale.SaleID),
		zap.String("invoice_number", sale.InvoiceNumber),
		zap.Int("lines", len(sale.Items)))
	return sale, nil
}

// GetSale loads one sale with its lines.
func (r *Repository) GetSale(ctx context.Context, saleID string) (*Sale, error) {
	sale := &Sale{SaleID: saleID}
	var total string
	err := r.db.QueryRowContext(ctx,
		`SELECT invoice_number, sale_date, total_amount::text FROM sales WHERE id = $1`, saleID).
		Scan(&sale.InvoiceNumber, &sale.SaleDate, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to fetch sale: %w", err)
	}
	if sale.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to parse sale total: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, item_name, variant, quantity, unit_price::text, total_price::text
		 FROM sale_lines WHERE sale_id = $1 ORDER BY item_id, variant`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sale lines: %w", err)
	}
	return sale, nil
}

// ListSales returns the most recent sales without their lines.
func (r *Repository) ListSales(ctx context.Context, limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_number, sale_date, total_amount::text FROM sales ORDER BY sale_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		var total string
		if err := rows.Scan(&s.SaleID, &s.InvoiceNumber, &s.SaleDate, &total); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if s.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("failed to parse sale total: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}
	return out, nil
}

func scanLine(rows *sql.Rows) (cartengine.PricedLine, error) {
	var line cartengine.PricedLine
	var variant, unit, total string
	if err := rows.Scan(&line.ItemID, &line.ItemName, &variant, &line.Quantity, &unit, &total); err != nil {
		return line, fmt.Errorf("failed to scan sale line: %w", err)
	}
	line.Variant = cartengine.Variant(variant)
	var err error
	if line.UnitPrice, err = decimal.NewFromString(unit); err != nil {
		return line, fmt.Errorf("failed to parse unit price: %w", err)
	}
	if line.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return line, fmt.Errorf("failed to parse line total: %w", err)
	}
	return line, nil
}
