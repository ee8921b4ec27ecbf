package ingesting

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
)

func newTestService(rate float64) *Service {
	return NewService(
		normalize.NewCurrencyConverter(rate),
		telemetry.NewMetrics(prometheus.NewRegistry()),
	)
}

func TestIngestAdsCSV(t *testing.T) {
	csvData := "Reporting starts,Campaign name,Ad Set Name,Ad name,Delivery level,Reach,Impressions,Frequency,Results,Result type,Amount spent (SGD),Unique CTR (link click-through rate),CTR (All)\n" +
		"15/03/2024,Conversão BD,Prospecting,Video 01,ad,800,1000,1.2,7,Messaging conversations started,10,3.2%,4.5%\n" +
		"2024-03-16,Conversão BD,Prospecting,Video 01,ad,900,0,1.3,5,Website purchases,20,2.8%,3.9%\n" +
		",,,,,,,,,,,,\n"

	service := newTestService(95)
	records, err := service.IngestAds("report.csv", []byte(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2) // linha de resumo sem data é descartada

	first := records[0]
	assert.Equal(t, "2024-03-15", first.ReportDate)
	assert.Equal(t, "Conversão BD", first.CampaignName)
	assert.Equal(t, "Prospecting", first.AdsetName)
	assert.Equal(t, "Video 01", first.AdName)
	assert.Equal(t, domain.LevelAd, first.Level)
	assert.Equal(t, 800.0, first.Reach)
	assert.Equal(t, 1000.0, first.Impressions)
	assert.Equal(t, 7.0, first.Results)
	assert.Equal(t, 10.0, first.SpendSGD)
	assert.Equal(t, 950.0, first.SpendBDT)
	require.NotNil(t, first.CPMBDT)
	assert.Equal(t, 950.0, *first.CPMBDT) // 950 / 1000 * 1000
	require.NotNil(t, first.UniqueCTR)
	assert.Equal(t, 3.2, *first.UniqueCTR)
	require.NotNil(t, first.CTRAll)
	assert.Equal(t, 4.5, *first.CTRAll)
	assert.Nil(t, first.Purchases)
	assert.Nil(t, first.CPCBDT)

	second := records[1]
	assert.Equal(t, "2024-03-16", second.ReportDate)
	assert.Nil(t, second.CPMBDT, "cpm deve ser nulo com zero impressões")
}

func TestIngestAdsConversationsStarted(t *testing.T) {
	tests := []struct {
		name     string
		csvData  string
		expected float64
	}{
		{
			name: "coluna explícita vence",
			csvData: "Reporting starts,Campaign name,Results,Result type,Messaging conversations started\n" +
				"15/03/2024,Camp,9,Messaging conversations started,4\n",
			expected: 4,
		},
		{
			name: "coluna explícita não numérica cai para Results",
			csvData: "Reporting starts,Campaign name,Results,Result type,Messaging conversations started\n" +
				"15/03/2024,Camp,7,Messaging conversations started,N/A\n",
			expected: 7,
		},
		{
			name: "coluna explícita não numérica sem tipo de conversa resulta em zero",
			csvData: "Reporting starts,Campaign name,Results,Result type,Messaging conversations started\n" +
				"15/03/2024,Camp,7,Website purchases,N/A\n",
			expected: 0,
		},
		{
			name: "fallback para Results quando o tipo indica conversas",
			csvData: "Reporting starts,Campaign name,Results,Result type\n" +
				"15/03/2024,Camp,9,Messaging conversations started\n",
			expected: 9,
		},
		{
			name: "sem coluna e tipo diferente resulta em zero",
			csvData: "Reporting starts,Campaign name,Results,Result type\n" +
				"15/03/2024,Camp,9,Website purchases\n",
			expected: 0,
		},
		{
			name: "comparação do tipo é sensível a maiúsculas",
			csvData: "Reporting starts,Campaign name,Results,Result type\n" +
				"15/03/2024,Camp,9,messaging conversations started\n",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(95)
			records, err := service.IngestAds("report.csv", []byte(tt.csvData))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.expected, records[0].ConversationsStarted)
		})
	}
}

func TestIngestAdsLevelDefaultsToCampaign(t *testing.T) {
	csvData := "Reporting starts,Campaign name,Delivery level\n" +
		"15/03/2024,Camp,banana\n" +
		"16/03/2024,Camp,ADSET\n"

	service := newTestService(95)
	records, err := service.IngestAds("report.csv", []byte(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.LevelCampaign, records[0].Level)
	assert.Equal(t, domain.LevelAdset, records[1].Level)
}

func TestIngestAdsSheet(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	// Linhas de título/metadado acima do cabeçalho, comuns em exports
	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &[]interface{}{"FB Ads Report"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A2", &[]interface{}{"Generated 2024-03-17"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A3", &[]interface{}{
		"Campaign name", "Ad name", "Delivery level", "Impressions", "Amount spent (SGD)", "Reporting starts",
	}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A4", &[]interface{}{
		"Camp", "Video 02", "ad", "2000", "20", "15/03/2024",
	}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A5", &[]interface{}{
		"Camp", "Video 02", "ad", "1000", "10", "linha inválida",
	}))

	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)

	service := newTestService(95)
	records, err := service.IngestAds("report.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "2024-03-15", record.ReportDate)
	assert.Equal(t, "Video 02", record.AdName)
	assert.Equal(t, 2000.0, record.Impressions)
	assert.Equal(t, 1900.0, record.SpendBDT)
	require.NotNil(t, record.CPMBDT)
	assert.Equal(t, 950.0, *record.CPMBDT)
}

func TestIngestAdsSheetWithoutHeaderReturnsEmpty(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &[]interface{}{"sem cabeçalho aqui"}))

	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)

	service := newTestService(95)
	records, err := service.IngestAds("report.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, records)
}
