package domain

import (
	"strings"
	"time"
)

// Classificação interna por faixa de valor do pedido
const (
	ClassificationPCMO = "PCMO"
	ClassificationMCO  = "MCO"
)

// OrderRecord representa uma linha canônica do razão de vendas.
type OrderRecord struct {
	ID             int64   `json:"id,omitempty"`
	OrderDate      string  `json:"order_date"` // YYYY-MM-DD, calendário local
	InvoiceNumber  string  `json:"invoice_number"`
	OrderStatus    string  `json:"order_status"`
	PaidAmount     float64 `json:"paid_amount"`
	DueAmount      float64 `json:"due_amount"`
	TotalPrice     float64 `json:"total_price"`
	DeliveryArea   string  `json:"delivery_area"`
	Classification *string `json:"classification"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Classify atribui a faixa de valor do pedido. A lacuna entre 1500 e 2000 é
// intencionalmente não classificada; não fechar sem confirmação do produto.
func Classify(total float64) *string {
	switch {
	case total >= 2000:
		c := ClassificationPCMO
		return &c
	case total >= 600 && total <= 1500:
		c := ClassificationMCO
		return &c
	default:
		return nil
	}
}

// validOrderStatuses são os status conhecidos de pedidos concluídos/ativos
// que contam para receita e contagem de pedidos.
var validOrderStatuses = map[string]struct{}{
	"delivered":        {},
	"confirmed":        {},
	"paid":             {},
	"pending":          {},
	"in transit":       {},
	"shipped":          {},
	"processing":       {},
	"partial paid":     {},
	"out for delivery": {},
}

// IsValidOrderStatus informa se o pedido conta para os totais diários.
// Pedido sem status é considerado válido (ausência de sinal negativo);
// qualquer variação contendo "cancel" é excluída antes da lista.
func IsValidOrderStatus(status string) bool {
	if status == "" {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(status))
	if strings.Contains(normalized, "cancel") {
		return false
	}
	_, ok := validOrderStatuses[normalized]
	return ok
}
