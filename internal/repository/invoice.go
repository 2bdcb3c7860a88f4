package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
	"github.com/minhvu-dev/invoice-ocr/internal/entity"
	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
)

type InvoiceRepository interface {
	CreateFromExtraction(ctx context.Context, imageID uuid.UUID, res *extraction.ExtractionResult) (*entity.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewInvoiceRepository(pool *pgxpool.Pool, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepo{pool: pool, logger: logger}
}

// CreateFromExtraction stores the invoice header and its line items in
// one transaction.
func (r *invoiceRepo) CreateFromExtraction(ctx context.Context, imageID uuid.UUID, res *extraction.ExtractionResult) (*entity.Invoice, error) {
	inv := &entity.Invoice{
		ID:          uuid.New(),
		InvoiceCode: res.InvoiceCode,
		PaymentDate: res.PaymentDate,
		TotalAmount: res.TotalAmount,
		ImageID:     imageID,
		RawText:     res.RawText,
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(common.ErrDatabase, "beginning transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var totalParam *string
	if inv.TotalAmount != nil {
		s := inv.TotalAmount.String()
		totalParam = &s
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO invoices (id, invoice_code, payment_date, total_amount, image_id, raw_text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.InvoiceCode, inv.PaymentDate, totalParam, inv.ImageID, inv.RawText, inv.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert invoice", "invoice_id", inv.ID, "error", err)
		return nil, common.WrapError(common.ErrDatabase, "inserting invoice", err)
	}

	for _, item := range res.Items {
		itemID := uuid.New()
		_, err = tx.Exec(ctx,
			`INSERT INTO invoice_items (id, invoice_id, item_name, quantity, unit_price, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			itemID, inv.ID, item.ItemName, item.Quantity, item.UnitPrice.String(), item.TotalPrice.String())
		if err != nil {
			r.logger.Error("failed to insert invoice item", "invoice_id", inv.ID, "item", item.ItemName, "error", err)
			return nil, common.WrapError(common.ErrDatabase, "inserting invoice item", err)
		}
		inv.Items = append(inv.Items, entity.InvoiceItem{
			ID:         itemID,
			InvoiceID:  inv.ID,
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(common.ErrDatabase, "committing invoice", err)
	}
	r.logger.Info("invoice stored", "invoice_id", inv.ID, "items", len(inv.Items))
	return inv, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := r.scanInvoice(r.pool.QueryRow(ctx,
		`SELECT id, invoice_code, payment_date, total_amount::text, image_id, raw_text, created_at
		 FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByDateRange returns invoices whose payment date falls inside
// [from, to], items included. Invoices without a payment date are
// excluded since they cannot be placed on the range.
func (r *invoiceRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_code, payment_date, total_amount::text, image_id, raw_text, created_at
		 FROM invoices
		 WHERE payment_date IS NOT NULL AND payment_date BETWEEN $1 AND $2
		 ORDER BY payment_date, created_at`, from, to)
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, common.WrapError(common.ErrDatabase, "listing invoices", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(common.ErrDatabase, "reading invoice rows", err)
	}
	for _, inv := range out {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete invoice", "invoice_id", id, "error", err)
		return common.WrapError(common.ErrDatabase, "deleting invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return common.WrapError(common.ErrNotFound, "invoice not found", nil)
	}
	r.logger.Info("invoice deleted", "invoice_id", id)
	return nil
}

func (r *invoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv       entity.Invoice
		totalText *string
	)
	err := row.Scan(&inv.ID, &inv.InvoiceCode, &inv.PaymentDate, &totalText, &inv.ImageID, &inv.RawText, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "invoice not found", nil)
	}
	if err != nil {
		r.logger.Error("failed to scan invoice", "error", err)
		return nil, common.WrapError(common.ErrDatabase, "scanning invoice", err)
	}
	if totalText != nil {
		d, err := decimal.NewFromString(*totalText)
		if err != nil {
			return nil, common.WrapError(common.ErrDatabase, "parsing total_amount", err)
		}
		inv.TotalAmount = &d
	}
	return &inv, nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, inv *entity.Invoice) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, item_name, quantity, unit_price::text, total_price::text
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, inv.ID)
	if err != nil {
		return common.WrapError(common.ErrDatabase, "loading invoice items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      entity.InvoiceItem
			unit, tot string
		)
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Quantity, &unit, &tot); err != nil {
			return common.WrapError(common.ErrDatabase, "scanning invoice item", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(unit); err != nil {
			return common.WrapError(common.ErrDatabase, "parsing unit_price", err)
		}
		if item.TotalPrice, err = decimal.NewFromString(tot); err != nil {
			return common.WrapError(common.ErrDatabase, "parsing total_price", err)
		}
		item.InvoiceID = inv.ID
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}
