package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
)

func fptr(v float64) *float64 {
	return &v
}

func TestComputeDailyKpisRevenueExcludesInvalidOrders(t *testing.T) {
	orders := []*domain.OrderRecord{
		{OrderDate: "2024-03-15", OrderStatus: "Delivered", PaidAmount: 500, DueAmount: 0},
		{OrderDate: "2024-03-15", OrderStatus: "Cancelled", PaidAmount: 1000, DueAmount: 0},
	}

	service := NewService()
	daily := service.ComputeDailyKpis(nil, orders)
	require.Len(t, daily, 1)

	row := daily[0]
	assert.Equal(t, "2024-03-15", row.Date)
	assert.Equal(t, 500.0, row.RevenueBDT)
	assert.Equal(t, 1, row.Orders)
}

func TestComputeDailyKpisDerivedMetricsNullGuards(t *testing.T) {
	ads := []*domain.AdRecord{
		{ReportDate: "2024-03-15", SpendBDT: 950},
	}
	orders := []*domain.OrderRecord{
		{OrderDate: "2024-03-16", OrderStatus: "Delivered", PaidAmount: 700},
	}

	service := NewService()
	daily := service.ComputeDailyKpis(ads, orders)
	require.Len(t, daily, 2)

	// Dia só com anúncios: sem pedidos, cpa nulo; com gasto, roas derivado
	adsDay := daily[0]
	assert.Equal(t, "2024-03-15", adsDay.Date)
	assert.Nil(t, adsDay.BlendedCPABDT)
	require.NotNil(t, adsDay.ROAS)
	assert.Equal(t, 0.0, *adsDay.ROAS)
	assert.Nil(t, adsDay.ConvToOrderRate)

	// Dia só com pedidos: sem gasto, roas nulo; cpa derivado de gasto zero
	ordersDay := daily[1]
	assert.Equal(t, "2024-03-16", ordersDay.Date)
	assert.Nil(t, ordersDay.ROAS)
	require.NotNil(t, ordersDay.BlendedCPABDT)
	assert.Equal(t, 0.0, *ordersDay.BlendedCPABDT)
}

func TestComputeDailyKpisAccumulation(t *testing.T) {
	ads := []*domain.AdRecord{
		{ReportDate: "2024-03-15", SpendBDT: 950, ConversationsStarted: 3},
		{ReportDate: "2024-03-15", SpendBDT: 50, ConversationsStarted: 1},
	}
	orders := []*domain.OrderRecord{
		{OrderDate: "2024-03-15", OrderStatus: "Delivered", PaidAmount: 1500, DueAmount: 500},
		{OrderDate: "2024-03-15", OrderStatus: "Confirmed", PaidAmount: 1000, DueAmount: 0},
	}

	service := NewService()
	daily := service.ComputeDailyKpis(ads, orders)
	require.Len(t, daily, 1)

	row := daily[0]
	assert.Equal(t, 1000.0, row.AdSpendBDT)
	assert.Equal(t, 4.0, row.Conversations)
	assert.Equal(t, 3000.0, row.RevenueBDT)
	assert.Equal(t, 2, row.Orders)

	require.NotNil(t, row.BlendedCPABDT)
	assert.Equal(t, 500.0, *row.BlendedCPABDT)
	require.NotNil(t, row.ROAS)
	assert.Equal(t, 3.0, *row.ROAS)
	require.NotNil(t, row.ConvToOrderRate)
	assert.Equal(t, 50.0, *row.ConvToOrderRate)
}

// A média rolante par a par é dependente da ordem: preservada exatamente por
// compatibilidade, não é uma média verdadeira.
func TestComputeDailyKpisPairwiseRollingAverage(t *testing.T) {
	ads := []*domain.AdRecord{
		{ReportDate: "2024-03-15", CPMBDT: fptr(100), Frequency: 1},
		{ReportDate: "2024-03-15", CPMBDT: fptr(200), Frequency: 3},
		{ReportDate: "2024-03-15", CPMBDT: fptr(400)},
	}

	service := NewService()
	daily := service.ComputeDailyKpis(ads, nil)
	require.Len(t, daily, 1)

	row := daily[0]
	// ((100+200)/2 + 400)/2 = 275, não a média verdadeira 233.33
	require.NotNil(t, row.CPMBDT)
	assert.Equal(t, 275.0, *row.CPMBDT)
	// frequência zero é tratada como ausente
	require.NotNil(t, row.Frequency)
	assert.Equal(t, 2.0, *row.Frequency)
}

func TestComputeDailyKpisSortedAscending(t *testing.T) {
	ads := []*domain.AdRecord{
		{ReportDate: "2024-03-17", SpendBDT: 1},
		{ReportDate: "2024-03-15", SpendBDT: 1},
		{ReportDate: "2024-03-16", SpendBDT: 1},
	}

	service := NewService()
	daily := service.ComputeDailyKpis(ads, nil)
	require.Len(t, daily, 3)
	assert.Equal(t, "2024-03-15", daily[0].Date)
	assert.Equal(t, "2024-03-16", daily[1].Date)
	assert.Equal(t, "2024-03-17", daily[2].Date)
}
