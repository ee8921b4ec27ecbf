package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/adexpert/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/adexpert/ads-dashboard-api/internal/domain"
)

const (
	dailyOrdersTable = "daily_orders"

	dailyOrdersColumns = "to_char(order_date, 'YYYY-MM-DD'), invoice_number, order_status, " +
		"paid_amount, due_amount, total_amount, delivery_area, classification"
)

// OrderRecordRepository é a superfície de upsert/leitura do razão de pedidos.
// A chave natural de idempotência é (order_date, invoice_number).
type OrderRecordRepository interface {
	SaveBatch(ctx context.Context, records []*domain.OrderRecord) error
	GetSince(cutoff string) ([]*domain.OrderRecord, error)
}

type orderRecordRepository struct {
	conn *postgres.Connection
}

func NewOrderRecordRepository(conn *postgres.Connection) OrderRecordRepository {
	return &orderRecordRepository{
		conn: conn,
	}
}

// SaveBatch grava o lote em uma única transação com upsert por linha.
func (r *orderRecordRepository) SaveBatch(ctx context.Context, records []*domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range records {
			query, args, err := squirrel.
				Insert(dailyOrdersTable).
				Columns(
					"order_date", "invoice_number", "order_status", "paid_amount",
					"due_amount", "total_amount", "delivery_area", "classification",
				).
				Values(
					record.OrderDate, record.InvoiceNumber, record.OrderStatus,
					record.PaidAmount, record.DueAmount, record.TotalPrice,
					record.DeliveryArea, record.Classification,
				).
				Suffix(`
					ON CONFLICT (order_date, invoice_number) DO UPDATE SET
						order_status = EXCLUDED.order_status,
						paid_amount = EXCLUDED.paid_amount,
						due_amount = EXCLUDED.due_amount,
						total_amount = EXCLUDED.total_amount,
						delivery_area = EXCLUDED.delivery_area,
						classification = EXCLUDED.classification,
						updated_at = NOW()
				`).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query de upsert: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("erro ao gravar registro de pedido: %w", err)
			}
		}
		return nil
	})
}

// GetSince retorna os pedidos com order_date >= cutoff (YYYY-MM-DD),
// ordenados de forma ascendente.
func (r *orderRecordRepository) GetSince(cutoff string) ([]*domain.OrderRecord, error) {
	query, args, err := squirrel.
		Select(dailyOrdersColumns).
		From(dailyOrdersTable).
		Where(squirrel.GtOrEq{"order_date": cutoff}).
		OrderBy("order_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.OrderRecord, 0)
	for rows.Next() {
		record, err := scanOrderRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de pedido: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func scanOrderRecord(rows *sql.Rows) (*domain.OrderRecord, error) {
	var (
		record         domain.OrderRecord
		classification sql.NullString
	)

	err := rows.Scan(
		&record.OrderDate, &record.InvoiceNumber, &record.OrderStatus,
		&record.PaidAmount, &record.DueAmount, &record.TotalPrice,
		&record.DeliveryArea, &classification,
	)
	if err != nil {
		return nil, err
	}

	if classification.Valid {
		record.Classification = &classification.String
	}

	return &record, nil
}
