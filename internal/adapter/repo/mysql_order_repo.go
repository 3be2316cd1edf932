package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLOrderStore struct{ db *sql.DB }

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore { return &MySQLOrderStore{db: db} }

// RunInTx wraps fn in the commit boundary. fn returning an error rolls
// everything back; other readers never see a partial order.
func (r *MySQLOrderStore) RunInTx(ctx context.Context, fn func(tx usecase.CommitTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&mysqlCommitTx{tx: tx, inv: MySQLInventoryRepo{q: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mysqlCommitTx is the transactional view handed to the coordinator: order
// writes plus ledger ops, all on the same *sql.Tx.
type mysqlCommitTx struct {
	tx  *sql.Tx
	inv MySQLInventoryRepo
}

func (t *mysqlCommitTx) GetSKU(ctx context.Context, skuID string) (*domain.SKU, error) {
	return t.inv.GetSKU(ctx, skuID)
}

func (t *mysqlCommitTx) DecrementStock(ctx context.Context, skuID string, observedStock, qty int) (bool, error) {
	return t.inv.DecrementStock(ctx, skuID, observedStock, qty)
}

func (t *mysqlCommitTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO orders (id, user_id, address_id, pay_method, status, total_count, amount_cents, created_at)
VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		o.ID, o.UserID, o.AddressID, string(o.PayMethod), string(o.Status), o.CreatedAt)
	return err
}

func (t *mysqlCommitTx) InsertLine(ctx context.Context, l *domain.OrderLine) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO order_lines (order_id, sku_id, count, price_cents, comment)
VALUES (?, ?, ?, ?, '')`,
		l.OrderID, l.SKUID, l.Count, l.PriceCents)
	return err
}

func (t *mysqlCommitTx) UpdateTotals(ctx context.Context, orderID string, amountCents int64, totalCount int) error {
	res, err := t.tx.ExecContext(ctx, `
UPDATE orders SET amount_cents = ?, total_count = ? WHERE id = ?`,
		amountCents, totalCount, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLOrderStore) GetForUser(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, address_id, pay_method, status, total_count, amount_cents, trade_id, created_at
FROM orders WHERE id = ? AND user_id = ?`, orderID, userID)
	return scanOrder(row)
}

func (r *MySQLOrderStore) ListForUser(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, address_id, pay_method, status, total_count, amount_cents, trade_id, created_at
FROM orders WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ? OFFSET ?`, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var payMethod, status string
		var tradeID sql.NullString
		if err := rows.Scan(&o.ID, &o.UserID, &o.AddressID, &payMethod, &status,
			&o.TotalCount, &o.AmountCents, &tradeID, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		o.PayMethod = domain.PayMethod(payMethod)
		o.Status = domain.Status(status)
		o.TradeID = tradeID.String
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *MySQLOrderStore) GetLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT order_id, sku_id, count, price_cents, comment
FROM order_lines WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.SKUID, &l.Count, &l.PriceCents, &l.Comment); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkPaid records the gateway trade id and moves UNPAID -> UNCOMMENTED in
// one conditional update, so a lost race never overwrites a settled order.
func (r *MySQLOrderStore) MarkPaid(ctx context.Context, orderID, tradeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status = ?, trade_id = ?
WHERE id = ? AND status = ?`,
		string(domain.StatusUncommented), tradeID, orderID, string(domain.StatusUnpaid))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLOrderStore) UpdateStatusIf(ctx context.Context, orderID string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		string(to), orderID, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLOrderStore) SaveLineComment(ctx context.Context, orderID, skuID, comment string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE order_lines SET comment = ? WHERE order_id = ? AND sku_id = ?`,
		comment, orderID, skuID)
	return err
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	var payMethod, status string
	var tradeID sql.NullString
	if err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &payMethod, &status,
		&o.TotalCount, &o.AmountCents, &tradeID, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.PayMethod = domain.PayMethod(payMethod)
	o.Status = domain.Status(status)
	o.TradeID = tradeID.String
	return &o, nil
}

var _ usecase.OrderStore = (*MySQLOrderStore)(nil)
