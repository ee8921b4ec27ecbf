package dashboarding

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adexpert/ads-dashboard-api/infrastructure/repository"
	"github.com/adexpert/ads-dashboard-api/infrastructure/repository/mocks"
	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/alerting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/ingesting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/reporting"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
)

const adsCSV = "Reporting starts,Campaign name,Ad name,Amount spent (SGD),Impressions,Frequency,Messaging conversations started\n" +
	"2024-03-15,Lead Gen,Video 01,10,1000,1.2,3\n" +
	"2024-03-16,Lead Gen,Video 01,20,2000,1.4,5\n"

const ordersCSV = "Creation Date,Invoice Number,Order Status,Paid Amount,Due Amount,Total Price\n" +
	"2024-03-15,INV-1,Delivered,700,0,700\n" +
	"2024-03-15,INV-2,Cancelled,900,0,900\n"

func newTestService(adRepo repository.AdRecordRepository, orderRepo repository.OrderRecordRepository) *Service {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	converter := normalize.NewCurrencyConverter(100)

	return NewService(
		ingesting.NewService(converter, metrics),
		reporting.NewService(),
		alerting.NewService(metrics),
		adRepo,
		orderRepo,
		metrics,
	)
}

func TestProcessUploadBuildsSnapshot(t *testing.T) {
	service := newTestService(nil, nil)

	result, err := service.ProcessUpload(context.Background(), "ads.csv", []byte(adsCSV), []byte(ordersCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, result.AdsRows)
	assert.Equal(t, 2, result.OrdersRows)
	require.NotEmpty(t, result.Snapshot.BatchID)

	require.Len(t, result.Snapshot.Daily, 2)
	first := result.Snapshot.Daily[0]
	assert.Equal(t, "2024-03-15", first.Date)
	assert.Equal(t, 1000.0, first.AdSpendBDT)
	assert.Equal(t, 700.0, first.RevenueBDT)
	assert.Equal(t, 1, first.Orders)

	// O snapshot corrente passa a ser o do upload
	snapshot := service.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, result.Snapshot.BatchID, snapshot.BatchID)
}

func TestProcessUploadAdsOnly(t *testing.T) {
	service := newTestService(nil, nil)

	result, err := service.ProcessUpload(context.Background(), "ads.csv", []byte(adsCSV), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AdsRows)
	assert.Equal(t, 0, result.OrdersRows)
	assert.Len(t, result.Snapshot.Daily, 2)
}

func TestSnapshotNilBeforeFirstUpload(t *testing.T) {
	service := newTestService(nil, nil)
	assert.Nil(t, service.Snapshot())
}

func TestRefreshHistoryRebuildsFromRepositories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adRepo := mocks.NewMockAdRecordRepository(ctrl)
	orderRepo := mocks.NewMockOrderRecordRepository(ctrl)

	adRepo.EXPECT().GetSince(gomock.Any()).Return([]*domain.AdRecord{
		{ReportDate: "2024-03-15", CampaignName: "Lead Gen", SpendBDT: 950},
	}, nil)
	orderRepo.EXPECT().GetSince(gomock.Any()).Return([]*domain.OrderRecord{
		{OrderDate: "2024-03-15", OrderStatus: "Delivered", PaidAmount: 2000},
	}, nil)

	service := newTestService(adRepo, orderRepo)

	snapshot, err := service.RefreshHistory(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, snapshot.Daily, 1)
	assert.Equal(t, 950.0, snapshot.Daily[0].AdSpendBDT)
	assert.Equal(t, 2000.0, snapshot.Daily[0].RevenueBDT)
}

func TestRefreshHistoryFailureKeepsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adRepo := mocks.NewMockAdRecordRepository(ctrl)
	orderRepo := mocks.NewMockOrderRecordRepository(ctrl)

	service := newTestService(adRepo, orderRepo)

	// Snapshot corrente vem de um processamento anterior
	current := &domain.DashboardSnapshot{BatchID: "abc123"}
	service.setSnapshot(current)

	adRepo.EXPECT().GetSince(gomock.Any()).Return(nil, assert.AnError)

	_, err := service.RefreshHistory(context.Background(), 30)
	require.Error(t, err)

	snapshot := service.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, "abc123", snapshot.BatchID)
}

func TestPersistBatchSavesBothLedgers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adRepo := mocks.NewMockAdRecordRepository(ctrl)
	orderRepo := mocks.NewMockOrderRecordRepository(ctrl)

	ads := []*domain.AdRecord{{ReportDate: "2024-03-15"}}
	orders := []*domain.OrderRecord{{OrderDate: "2024-03-15"}}

	adRepo.EXPECT().SaveBatch(gomock.Any(), ads).Return(nil)
	orderRepo.EXPECT().SaveBatch(gomock.Any(), orders).Return(nil)

	service := newTestService(adRepo, orderRepo)
	service.persistBatch("abc123", ads, orders)
}

func TestPersistBatchFailureDoesNotPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adRepo := mocks.NewMockAdRecordRepository(ctrl)
	orderRepo := mocks.NewMockOrderRecordRepository(ctrl)

	adRepo.EXPECT().SaveBatch(gomock.Any(), gomock.Any()).Return(assert.AnError)
	orderRepo.EXPECT().SaveBatch(gomock.Any(), gomock.Any()).Return(nil)

	service := newTestService(adRepo, orderRepo)
	service.persistBatch("abc123", nil, nil)
}
