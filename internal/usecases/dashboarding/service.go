package dashboarding

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/adexpert/ads-dashboard-api/infrastructure/repository"
	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/alerting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/ingesting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/reporting"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
	"github.com/adexpert/ads-dashboard-api/pkg/utils"
)

const persistTimeout = 30 * time.Second

// Dashboarder orquestra o pipeline completo: ingestão dos exports, agregação
// diária, detecção de anomalias e snapshot em memória servido às consultas.
type Dashboarder interface {
	ProcessUpload(ctx context.Context, adsFilename string, adsData, ordersData []byte) (*UploadResult, error)
	RefreshHistory(ctx context.Context, days int) (*domain.DashboardSnapshot, error)
	Snapshot() *domain.DashboardSnapshot
}

// UploadResult é o retorno imediato de um upload processado.
type UploadResult struct {
	Snapshot   *domain.DashboardSnapshot
	AdsRows    int
	OrdersRows int
}

type Service struct {
	ingester  ingesting.Ingester
	reporter  reporting.Reporter
	detector  alerting.Detector
	adRepo    repository.AdRecordRepository
	orderRepo repository.OrderRecordRepository
	metrics   *telemetry.Metrics

	mu       sync.RWMutex
	snapshot *domain.DashboardSnapshot
}

func NewService(
	ingester ingesting.Ingester,
	reporter reporting.Reporter,
	detector alerting.Detector,
	adRepo repository.AdRecordRepository,
	orderRepo repository.OrderRecordRepository,
	metrics *telemetry.Metrics,
) *Service {
	return &Service{
		ingester:  ingester,
		reporter:  reporter,
		detector:  detector,
		adRepo:    adRepo,
		orderRepo: orderRepo,
		metrics:   metrics,
	}
}

// ProcessUpload ingere os dois exports em paralelo, recalcula o dashboard e
// troca o snapshot corrente. A persistência acontece em background depois que
// o resultado já foi computado; falha dela é registrada em log, nunca
// devolvida ao cliente.
func (s *Service) ProcessUpload(ctx context.Context, adsFilename string, adsData, ordersData []byte) (*UploadResult, error) {
	var (
		wg        sync.WaitGroup
		ads       []*domain.AdRecord
		orders    []*domain.OrderRecord
		adsErr    error
		ordersErr error
	)

	if len(adsData) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ads, adsErr = s.ingester.IngestAds(adsFilename, adsData)
		}()
	}

	if len(ordersData) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orders, ordersErr = s.ingester.IngestOrders(ordersData)
		}()
	}

	wg.Wait()

	if adsErr != nil {
		return nil, errors.Wrap(adsErr, "erro ao ingerir o relatório de anúncios")
	}
	if ordersErr != nil {
		return nil, errors.Wrap(ordersErr, "erro ao ingerir o razão de pedidos")
	}

	snapshot, err := s.buildSnapshot(ads, orders)
	if err != nil {
		return nil, err
	}

	s.setSnapshot(snapshot)
	s.metrics.UploadBatch()

	go s.persistBatch(snapshot.BatchID, ads, orders)

	return &UploadResult{
		Snapshot:   snapshot,
		AdsRows:    len(ads),
		OrdersRows: len(orders),
	}, nil
}

// RefreshHistory reconstrói o snapshot a partir dos últimos N dias
// persistidos. Em caso de falha de leitura o snapshot corrente fica intocado.
func (s *Service) RefreshHistory(ctx context.Context, days int) (*domain.DashboardSnapshot, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	ads, err := s.adRepo.GetSince(cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar o histórico de anúncios")
	}

	orders, err := s.orderRepo.GetSince(cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar o histórico de pedidos")
	}

	snapshot, err := s.buildSnapshot(ads, orders)
	if err != nil {
		return nil, err
	}

	s.setSnapshot(snapshot)

	return snapshot, nil
}

// Snapshot devolve o snapshot corrente; nulo antes do primeiro upload.
func (s *Service) Snapshot() *domain.DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) buildSnapshot(ads []*domain.AdRecord, orders []*domain.OrderRecord) (*domain.DashboardSnapshot, error) {
	batchID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o identificador do lote")
	}

	return &domain.DashboardSnapshot{
		BatchID: batchID,
		Daily:   s.reporter.ComputeDailyKpis(ads, orders),
		Ads:     ads,
		Alerts:  s.detector.GenerateAlerts(ads),
	}, nil
}

func (s *Service) setSnapshot(snapshot *domain.DashboardSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

func (s *Service) persistBatch(batchID string, ads []*domain.AdRecord, orders []*domain.OrderRecord) {
	if s.adRepo == nil || s.orderRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.adRepo.SaveBatch(ctx, ads); err != nil {
		logrus.Error("dashboard: failed to persist ads batch ", batchID, ": ", err)
	}

	if err := s.orderRepo.SaveBatch(ctx, orders); err != nil {
		logrus.Error("dashboard: failed to persist orders batch ", batchID, ": ", err)
	}
}
