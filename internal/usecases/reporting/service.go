package reporting

import (
	"sort"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
)

// Reporter dobra os registros canônicos na série diária de KPIs.
type Reporter interface {
	ComputeDailyKpis(ads []*domain.AdRecord, orders []*domain.OrderRecord) []*domain.DailyKpiRow
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ComputeDailyKpis acumula as duas entradas por data e deriva as métricas do
// dia. A saída é ordenada ascendente pela string de data (lexical, correto
// porque as datas são YYYY-MM-DD com zero à esquerda).
//
// cpm_bdt e frequency usam uma média rolante par a par
// (novo = (atual + entrante) / 2), que não é uma média verdadeira e depende
// da ordem das linhas de entrada. O comportamento é mantido exatamente assim
// por compatibilidade com os números históricos do dashboard.
func (s *Service) ComputeDailyKpis(ads []*domain.AdRecord, orders []*domain.OrderRecord) []*domain.DailyKpiRow {
	byDay := make(map[string]*domain.DailyKpiRow)

	day := func(date string) *domain.DailyKpiRow {
		row, ok := byDay[date]
		if !ok {
			row = &domain.DailyKpiRow{Date: date}
			byDay[date] = row
		}
		return row
	}

	for _, a := range ads {
		if a.ReportDate == "" {
			continue
		}
		row := day(a.ReportDate)

		// Linhas de todos os níveis somam no gasto do dia; exports
		// hierárquicos podem duplicar a mesma entidade e o detector tolera.
		row.AdSpendBDT += a.SpendBDT
		row.Conversations += a.ConversationsStarted

		if a.CPMBDT != nil {
			row.CPMBDT = pairwise(row.CPMBDT, *a.CPMBDT)
		}
		if a.Frequency != 0 {
			row.Frequency = pairwise(row.Frequency, a.Frequency)
		}
	}

	for _, o := range orders {
		if o.OrderDate == "" {
			continue
		}
		row := day(o.OrderDate)

		if domain.IsValidOrderStatus(o.OrderStatus) {
			row.RevenueBDT += o.PaidAmount + o.DueAmount
			row.Orders++
		}
	}

	out := make([]*domain.DailyKpiRow, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	for _, row := range out {
		if row.Orders > 0 {
			cpa := row.AdSpendBDT / float64(row.Orders)
			row.BlendedCPABDT = &cpa
		}
		if row.AdSpendBDT > 0 {
			roas := row.RevenueBDT / row.AdSpendBDT
			row.ROAS = &roas
		}
		if row.Conversations > 0 {
			rate := float64(row.Orders) / row.Conversations * 100
			row.ConvToOrderRate = &rate
		}
	}

	return out
}

// pairwise aplica a média rolante par a par usada historicamente pelo
// dashboard para cpm/frequency do dia.
func pairwise(existing *float64, incoming float64) *float64 {
	if existing == nil {
		return &incoming
	}
	avg := (*existing + incoming) / 2
	return &avg
}
