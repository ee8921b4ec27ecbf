package domain

// DailyKpiRow é a linha da série temporal diária de KPIs, uma por data
// distinta presente em qualquer uma das entradas. Imutável após o cálculo.
type DailyKpiRow struct {
	Date            string   `json:"date"`
	RevenueBDT      float64  `json:"revenue_bdt"`
	Orders          int      `json:"orders"`
	AdSpendBDT      float64  `json:"ad_spend_bdt"`
	Conversations   float64  `json:"conversations"`
	CPMBDT          *float64 `json:"cpm_bdt"`
	Frequency       *float64 `json:"frequency"`
	BlendedCPABDT   *float64 `json:"blended_cpa_bdt"`
	ROAS            *float64 `json:"roas"`
	ConvToOrderRate *float64 `json:"conv_to_order_rate"`
}

// DashboardSnapshot reúne as coleções de um processamento completo, na forma
// consumida pela camada de apresentação (somente leitura).
type DashboardSnapshot struct {
	BatchID string         `json:"batch_id,omitempty"`
	Daily   []*DailyKpiRow `json:"daily"`
	Ads     []*AdRecord    `json:"ads"`
	Alerts  []*Alert       `json:"alerts"`
}
