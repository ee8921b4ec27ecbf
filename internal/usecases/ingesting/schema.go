package ingesting

import "strings"

// Campos lógicos do relatório de anúncios
const (
	fieldCampaignName = "campaign_name"
	fieldAdsetName    = "adset_name"
	fieldAdName       = "ad_name"
	fieldLevel        = "level"
	fieldReach        = "reach"
	fieldImpressions  = "impressions"
	fieldFrequency    = "frequency"
	fieldResultType   = "result_type"
	fieldResults      = "results"
	fieldSpendSGD     = "spend_sgd"
	fieldMsgConv      = "conversations_started"
	fieldUniqueCTR    = "unique_ctr"
	fieldCTRAll       = "ctr_all"
	fieldPurchases    = "purchases"
	fieldReportStart  = "report_start"
	fieldReportEnd    = "report_end"
)

// Campos lógicos do razão de vendas
const (
	fieldOrderDate    = "order_date"
	fieldInvoice      = "invoice_number"
	fieldOrderStatus  = "order_status"
	fieldPaidAmount   = "paid_amount"
	fieldDueAmount    = "due_amount"
	fieldTotalPrice   = "total_price"
	fieldDeliveryArea = "delivery_area"
)

// fieldSpec liga um campo lógico à lista ordenada de sinônimos aceitos no
// cabeçalho físico. O primeiro sinônimo que casar (comparação exata,
// insensível a maiúsculas) vence; os exports variam o nome das colunas entre
// versões da plataforma.
type fieldSpec struct {
	field    string
	synonyms []string
}

var adFieldSpecs = []fieldSpec{
	{fieldCampaignName, []string{"Campaign name", "Campaign Name"}},
	{fieldAdsetName, []string{"Ad Set Name", "Ad set name"}},
	{fieldAdName, []string{"Ad name"}},
	{fieldLevel, []string{"Delivery level"}},
	{fieldReach, []string{"Reach"}},
	{fieldImpressions, []string{"Impressions"}},
	{fieldFrequency, []string{"Frequency"}},
	{fieldResultType, []string{"Result type"}},
	{fieldResults, []string{"Results"}},
	{fieldSpendSGD, []string{"Amount spent (SGD)", "Amount Spent (SGD)", "Spend (SGD)"}},
	{fieldMsgConv, []string{"Messaging conversations started"}},
	{fieldUniqueCTR, []string{"Unique CTR (link click-through rate)"}},
	{fieldCTRAll, []string{"CTR (All)", "Ctr (All)"}},
	{fieldPurchases, []string{"Purchases"}},
	{fieldReportStart, []string{"Reporting starts", "Report Start Date", "Date"}},
	{fieldReportEnd, []string{"Reporting ends", "Report End Date"}},
}

var orderFieldSpecs = []fieldSpec{
	{fieldOrderDate, []string{"Creation Date"}},
	{fieldInvoice, []string{"Invoice Number"}},
	{fieldOrderStatus, []string{"Order Status"}},
	{fieldPaidAmount, []string{"Paid Amount"}},
	{fieldDueAmount, []string{"Due Amount"}},
	{fieldTotalPrice, []string{"Total Price", "Total amount"}},
	{fieldDeliveryArea, []string{"Delivery Area"}},
}

// columnMap resolve campos lógicos para índices físicos de coluna. Campos
// sem coluna correspondente simplesmente não constam do mapa.
type columnMap map[string]int

// resolveColumns resolve o cabeçalho uma única vez, produzindo o mapa de
// acesso consumido uniformemente pelas duas formas de ingestão (texto
// delimitado e grade de células).
func resolveColumns(header []string, specs []fieldSpec) columnMap {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	cols := make(columnMap, len(specs))
	for _, spec := range specs {
	candidates:
		for _, synonym := range spec.synonyms {
			want := strings.ToLower(synonym)
			for i, got := range normalized {
				if got == want {
					cols[spec.field] = i
					break candidates
				}
			}
		}
	}

	return cols
}

// cell retorna o valor da coluna resolvida para o campo, com espaços
// aparados. A segunda saída indica se a coluna existe e a linha a alcança.
func (m columnMap) cell(row []string, field string) (string, bool) {
	idx, ok := m[field]
	if !ok || idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}
