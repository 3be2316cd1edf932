package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

// execer is satisfied by both *sql.DB and *sql.Tx, so the same ledger
// queries serve plain reads and the commit transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type MySQLInventoryRepo struct{ q execer }

func NewMySQLInventoryRepo(db *sql.DB) *MySQLInventoryRepo { return &MySQLInventoryRepo{q: db} }

func (r *MySQLInventoryRepo) GetSKU(ctx context.Context, skuID string) (*domain.SKU, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, name, price_cents, stock, sales FROM sku WHERE id = ?`, skuID)
	var s domain.SKU
	if err := row.Scan(&s.ID, &s.Name, &s.PriceCents, &s.Stock, &s.Sales); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// DecrementStock is the optimistic-concurrency primitive: one conditional
// UPDATE that moves the stock/sales pair only while the persisted stock
// still equals what the caller observed. rows == 0 means another commit got
// there first; that is the retry signal, not an error.
func (r *MySQLInventoryRepo) DecrementStock(ctx context.Context, skuID string, observedStock, qty int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
UPDATE sku
SET stock = ?, sales = sales + ?
WHERE id = ? AND stock = ?`,
		observedStock-qty, qty, skuID, observedStock,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

var _ usecase.InventoryLedger = (*MySQLInventoryRepo)(nil)
