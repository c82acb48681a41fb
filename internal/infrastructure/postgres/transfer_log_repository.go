package postgres

import (
	"context"
	"fmt"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

var _ repository.TransferLogRepository = (*TransferLogRepo)(nil)

// TransferLogRepo implementación sobre PostgreSQL (usable con pool o tx).
type TransferLogRepo struct {
	q Querier
}

// NewTransferLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferLogRepository(q Querier) *TransferLogRepo {
	return &TransferLogRepo{q: q}
}

// Create persiste un asiento en la bitácora de transferencias.
func (r *TransferLogRepo) Create(t *entity.TransferLog) error {
	query := `
		INSERT INTO ferre_transferencias (id, caso, monto, motivo, fotografia, fecha, subido_por, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.Kind, t.Amount, t.Reason, nullIfEmpty(t.PhotoURL),
		t.OccurredAt, nullIfEmpty(t.UploadedBy), nullIfEmpty(t.UserID),
	)
	if err != nil {
		return fmt.Errorf("insert transfer log: %w", err)
	}
	return nil
}
