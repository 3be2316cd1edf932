package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

type MySQLAddressRepo struct{ db *sql.DB }

func NewMySQLAddressRepo(db *sql.DB) *MySQLAddressRepo { return &MySQLAddressRepo{db: db} }

func (r *MySQLAddressRepo) GetForUser(ctx context.Context, addressID, userID string) (*domain.Address, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, receiver, detail, phone
FROM addresses WHERE id = ? AND user_id = ?`, addressID, userID)
	var a domain.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.Receiver, &a.Detail, &a.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

var _ usecase.AddressStore = (*MySQLAddressRepo)(nil)
