package ingesting

import (
	"strings"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
)

// Ingester converte os bytes crus dos exports em registros canônicos.
type Ingester interface {
	// IngestAds ingere o relatório de anúncios; o nome do arquivo decide a
	// forma (texto delimitado ou binário de planilha).
	IngestAds(filename string, data []byte) ([]*domain.AdRecord, error)

	// IngestOrders ingere o razão de vendas (sempre texto delimitado).
	IngestOrders(data []byte) ([]*domain.OrderRecord, error)
}

// Service implementa a ingestão tolerante: células malformadas degradam para
// zero/nulo/padrão; apenas uma data não resolvível descarta a linha, pois a
// data é a chave de agregação e não pode ser inventada.
type Service struct {
	converter *normalize.CurrencyConverter
	metrics   *telemetry.Metrics
}

func NewService(converter *normalize.CurrencyConverter, metrics *telemetry.Metrics) *Service {
	return &Service{
		converter: converter,
		metrics:   metrics,
	}
}

func (s *Service) IngestAds(filename string, data []byte) ([]*domain.AdRecord, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return s.parseAdsCSV(data)
	}
	return s.parseAdsSheet(data)
}

func (s *Service) IngestOrders(data []byte) ([]*domain.OrderRecord, error) {
	return s.parseOrders(data)
}
