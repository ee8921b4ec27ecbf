package ingesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
)

func TestIngestOrders(t *testing.T) {
	csvData := "Creation Date,Invoice Number,Order Status,Paid Amount,Due Amount,Total Price,Delivery Area\n" +
		"15/03/2024,INV-001,Delivered,1500,500,2000,Dhaka\n" +
		"15/03/2024,INV-002,Cancelled,1000,0,1000,Chittagong\n" +
		"data inválida,INV-003,Delivered,700,0,700,Dhaka\n" +
		"16/03/2024,INV-004,,400,300,700,Sylhet\n"

	service := newTestService(95)
	records, err := service.IngestOrders([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, records, 3) // a linha com data inválida é descartada

	first := records[0]
	assert.Equal(t, "2024-03-15", first.OrderDate)
	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, "Delivered", first.OrderStatus)
	assert.Equal(t, 1500.0, first.PaidAmount)
	assert.Equal(t, 500.0, first.DueAmount)
	assert.Equal(t, 2000.0, first.TotalPrice)
	require.NotNil(t, first.Classification)
	assert.Equal(t, domain.ClassificationPCMO, *first.Classification)

	second := records[1]
	assert.Equal(t, "Cancelled", second.OrderStatus)
	require.NotNil(t, second.Classification)
	assert.Equal(t, domain.ClassificationMCO, *second.Classification)

	third := records[2]
	assert.Equal(t, "2024-03-16", third.OrderDate)
	assert.Equal(t, "", third.OrderStatus)
	require.NotNil(t, third.Classification)
	assert.Equal(t, domain.ClassificationMCO, *third.Classification)
}

func TestIngestOrdersTotalAmountSynonym(t *testing.T) {
	csvData := "Creation Date,Invoice Number,Total amount\n" +
		"15/03/2024,INV-010,1800\n"

	service := newTestService(95)
	records, err := service.IngestOrders([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1800.0, records[0].TotalPrice)
	assert.Nil(t, records[0].Classification, "a lacuna 1500-2000 fica sem classificação")
}

func TestIngestOrdersLatin1(t *testing.T) {
	// "São Paulo" codificado em ISO-8859-1 (0xE3 = ã) não é UTF-8 válido
	header := []byte("Creation Date,Invoice Number,Delivery Area\n")
	row := []byte("15/03/2024,INV-020,S\xe3o Paulo\n")

	service := newTestService(95)
	records, err := service.IngestOrders(append(header, row...))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "São Paulo", records[0].DeliveryArea)
}

func TestIngestOrdersMalformedAmountsDegradeToZero(t *testing.T) {
	csvData := "Creation Date,Invoice Number,Paid Amount,Due Amount,Total Price\n" +
		"15/03/2024,INV-030,abc,,n/a\n"

	service := newTestService(95)
	records, err := service.IngestOrders([]byte(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].PaidAmount)
	assert.Equal(t, 0.0, records[0].DueAmount)
	assert.Equal(t, 0.0, records[0].TotalPrice)
	assert.Nil(t, records[0].Classification)
}
