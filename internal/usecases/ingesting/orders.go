package ingesting

import (
	"bytes"
	"encoding/csv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
)

// parseOrders ingere o razão de vendas, sempre texto delimitado. O export é
// declarado latin-1; bytes que não formem UTF-8 válido são decodificados como
// ISO-8859-1 antes do parse.
func (s *Service) parseOrders(data []byte) ([]*domain.OrderRecord, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, errors.Wrap(err, "falha ao decodificar o CSV de vendas como latin-1")
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler o CSV de vendas")
	}
	if len(rows) == 0 {
		return []*domain.OrderRecord{}, nil
	}

	cols := resolveColumns(rows[0], orderFieldSpecs)
	out := make([]*domain.OrderRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		rawDate, _ := cols.cell(row, fieldOrderDate)
		orderDate := normalize.LocalDate(rawDate)
		if orderDate == "" {
			s.metrics.RowDropped("orders")
			continue
		}

		invoice, _ := cols.cell(row, fieldInvoice)
		status, _ := cols.cell(row, fieldOrderStatus)
		area, _ := cols.cell(row, fieldDeliveryArea)
		paidRaw, _ := cols.cell(row, fieldPaidAmount)
		dueRaw, _ := cols.cell(row, fieldDueAmount)
		totalRaw, _ := cols.cell(row, fieldTotalPrice)

		total := normalize.Number(totalRaw)

		out = append(out, &domain.OrderRecord{
			OrderDate:      orderDate,
			InvoiceNumber:  invoice,
			OrderStatus:    status,
			PaidAmount:     normalize.Number(paidRaw),
			DueAmount:      normalize.Number(dueRaw),
			TotalPrice:     total,
			DeliveryArea:   area,
			Classification: domain.Classify(total),
		})
		s.metrics.RowIngested("orders")
	}

	return out, nil
}
