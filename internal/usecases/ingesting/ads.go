package ingesting

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
)

// headerMarker identifica a linha de cabeçalho dentro de uma grade exportada
// de planilha; tudo acima dela é título/metadado e é ignorado.
const headerMarker = "Campaign name"

// messagingResultType é o rótulo (sensível a maiúsculas, como exportado) que
// permite inferir conversas iniciadas a partir da coluna Results.
const messagingResultType = "Messaging conversations"

// parseAdsCSV ingere o relatório de anúncios na forma texto-delimitado-com-
// cabeçalho.
func (s *Service) parseAdsCSV(data []byte) ([]*domain.AdRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler o CSV de anúncios")
	}
	if len(rows) == 0 {
		return []*domain.AdRecord{}, nil
	}

	cols := resolveColumns(rows[0], adFieldSpecs)
	return s.buildAdRecords(rows[1:], cols), nil
}

// parseAdsSheet ingere o relatório na forma grade-de-células: o cabeçalho é a
// primeira linha contendo a célula literal "Campaign name".
func (s *Service) parseAdsSheet(data []byte) ([]*domain.AdRecord, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "falha ao abrir a planilha de anúncios")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return []*domain.AdRecord{}, nil
	}

	grid, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler as linhas da planilha")
	}

	headerIdx := -1
	for i, row := range grid {
		for _, cell := range row {
			if strings.TrimSpace(cell) == headerMarker {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return []*domain.AdRecord{}, nil
	}

	cols := resolveColumns(grid[headerIdx], adFieldSpecs)
	return s.buildAdRecords(grid[headerIdx+1:], cols), nil
}

// buildAdRecords converte linhas físicas em registros canônicos usando o mapa
// de colunas resolvido. Linhas sem data resolvível são descartadas em
// silêncio; exports rotineiramente trazem linhas de resumo e em branco.
func (s *Service) buildAdRecords(rows [][]string, cols columnMap) []*domain.AdRecord {
	out := make([]*domain.AdRecord, 0, len(rows))

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		rawDate, _ := cols.cell(row, fieldReportStart)
		if rawDate == "" {
			rawDate, _ = cols.cell(row, fieldReportEnd)
		}
		reportDate := normalize.LocalDate(rawDate)
		if reportDate == "" {
			s.metrics.RowDropped("ads")
			continue
		}

		campaign, _ := cols.cell(row, fieldCampaignName)
		adset, _ := cols.cell(row, fieldAdsetName)
		ad, _ := cols.cell(row, fieldAdName)
		level, _ := cols.cell(row, fieldLevel)
		resultType, _ := cols.cell(row, fieldResultType)

		reach, _ := cols.cell(row, fieldReach)
		impressionsRaw, _ := cols.cell(row, fieldImpressions)
		frequencyRaw, _ := cols.cell(row, fieldFrequency)
		resultsRaw, _ := cols.cell(row, fieldResults)
		spendRaw, _ := cols.cell(row, fieldSpendSGD)

		impressions := normalize.Number(impressionsRaw)
		results := normalize.Number(resultsRaw)
		spendSGD := normalize.Number(spendRaw)
		spendBDT := s.converter.ToBDT(spendSGD)

		var cpmBDT *float64
		if impressions > 0 {
			cpm := spendBDT / impressions * 1000
			cpmBDT = &cpm
		}

		record := &domain.AdRecord{
			ReportDate:           reportDate,
			CampaignName:         campaign,
			AdsetName:            adset,
			AdName:               ad,
			Level:                domain.ValidLevel(strings.ToLower(level)),
			Reach:                normalize.Number(reach),
			Impressions:          impressions,
			Frequency:            normalize.Number(frequencyRaw),
			Results:              results,
			ResultType:           resultType,
			ConversationsStarted: conversationsStarted(row, cols, results, resultType),
			UniqueCTR:            optionalPercent(row, cols, fieldUniqueCTR),
			CTRAll:               optionalPercent(row, cols, fieldCTRAll),
			Purchases:            optionalNumber(row, cols, fieldPurchases),
			SpendSGD:             spendSGD,
			SpendBDT:             spendBDT,
			CPMBDT:               cpmBDT,
			CPCBDT:               nil,
		}

		out = append(out, record)
		s.metrics.RowIngested("ads")
	}

	return out
}

// conversationsStarted usa a coluna explícita quando presente e numérica;
// senão infere de Results quando o tipo de resultado indica conversas de
// mensagem; senão 0. Uma célula explícita não numérica ("N/A") conta como
// ausente e cai no fallback.
func conversationsStarted(row []string, cols columnMap, results float64, resultType string) float64 {
	if raw, ok := cols.cell(row, fieldMsgConv); ok {
		if v, numeric := normalize.ParseNumber(raw); numeric {
			return v
		}
	}
	if strings.Contains(resultType, messagingResultType) {
		return results
	}
	return 0
}

func optionalPercent(row []string, cols columnMap, field string) *float64 {
	raw, ok := cols.cell(row, field)
	if !ok || raw == "" {
		return nil
	}
	v := normalize.Percent(raw)
	return &v
}

func optionalNumber(row []string, cols columnMap, field string) *float64 {
	raw, ok := cols.cell(row, field)
	if !ok || raw == "" {
		return nil
	}
	v := normalize.Number(raw)
	return &v
}
