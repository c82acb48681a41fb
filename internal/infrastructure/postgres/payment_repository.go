package postgres

import (
	"context"
	"fmt"

	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste el pago de contado de una factura.
func (r *PaymentRepo) Create(p *entity.SupplierPayment) error {
	query := `
		INSERT INTO ferre_pagos_proveedores (id, factura_id, monto, metodo_pago, tipo_pago, referencia_pago, nuevo_saldo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.InvoiceID, p.Amount, p.PaymentMethod, p.PaymentType,
		nullIfEmpty(p.Reference), p.NewBalance, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier payment: %w", err)
	}
	return nil
}
