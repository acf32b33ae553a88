package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arc-wallet/backend/internal/models"
)

type TransferRepo struct {
	pool *pgxpool.Pool
}

func NewTransferRepo(pool *pgxpool.Pool) *TransferRepo {
	return &TransferRepo{pool: pool}
}

func (r *TransferRepo) Record(ctx context.Context, rec models.TransferRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transfer_log (user_id, kind, to_address, amount, tx_hash, status, error_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.UserID, rec.Kind, rec.ToAddress, rec.Amount, rec.TxHash, rec.Status, rec.ErrorKind)
	return err
}

func (r *TransferRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.TransferRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, to_address, amount, tx_hash, status, error_kind, created_at
		FROM transfer_log WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.TransferRecord
	for rows.Next() {
		var rec models.TransferRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.ToAddress, &rec.Amount,
			&rec.TxHash, &rec.Status, &rec.ErrorKind, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
