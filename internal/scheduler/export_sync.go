package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/adexpert/ads-dashboard-api/internal/config"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/dashboarding"
)

// ExportSyncConfig representa a configuração do agendador de reingestão de
// exports.
type ExportSyncConfig struct {
	CronSchedule string
	Directory    string
	SyncEnabled  bool
}

// ExportSyncService reingere periodicamente os exports deixados no diretório
// configurado, mantendo o dashboard atualizado sem upload manual. O arquivo de
// anúncios é reconhecido pelo prefixo "ads" e o razão de pedidos pelo prefixo
// "orders"; em caso de múltiplos candidatos vence o mais recente.
type ExportSyncService struct {
	scheduler           *gocron.Scheduler
	config              ExportSyncConfig
	dashboardService    dashboarding.Dashboarder
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewExportSyncService(
	dashboardService dashboarding.Dashboarder,
	appConfig *config.Config,
) *ExportSyncService {
	syncConfig := ExportSyncConfig{
		CronSchedule: appConfig.ExportSync.CronSchedule,
		Directory:    appConfig.ExportSync.Directory,
		SyncEnabled:  appConfig.ExportSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"directory":     syncConfig.Directory,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de reingestão de exports carregada")

	return &ExportSyncService{
		scheduler:        scheduler,
		config:           syncConfig,
		dashboardService: dashboardService,
	}
}

// Start inicia o agendador
func (s *ExportSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Reingestão de exports desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de reingestão de exports")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncExports(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reingestão de exports: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de reingestão de exports")
		s.scheduler.Stop()
	}()

	return nil
}

// syncExports localiza e reingere o par de exports mais recente do diretório.
func (s *ExportSyncService) syncExports(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reingestão de exports já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	adsPath, ordersPath, err := s.locateExports()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar o diretório de exports")
		return
	}

	if adsPath == "" && ordersPath == "" {
		logrus.WithField("directory", s.config.Directory).Info("Nenhum export encontrado para reingestão")
		return
	}

	var adsData, ordersData []byte

	if adsPath != "" {
		if adsData, err = os.ReadFile(adsPath); err != nil {
			logrus.WithError(err).WithField("file", adsPath).Error("Erro ao ler o export de anúncios")
			return
		}
	}

	if ordersPath != "" {
		if ordersData, err = os.ReadFile(ordersPath); err != nil {
			logrus.WithError(err).WithField("file", ordersPath).Error("Erro ao ler o export de pedidos")
			return
		}
	}

	result, err := s.dashboardService.ProcessUpload(ctx, filepath.Base(adsPath), adsData, ordersData)
	if err != nil {
		logrus.WithError(err).Error("Erro ao reingerir os exports")
		return
	}

	logrus.WithFields(logrus.Fields{
		"batch_id":    result.Snapshot.BatchID,
		"ads_rows":    result.AdsRows,
		"orders_rows": result.OrdersRows,
		"duration":    time.Since(startTime).String(),
	}).Info("Reingestão de exports concluída")
}

// locateExports devolve o caminho do export de anúncios e do razão de pedidos
// mais recentes; vazio quando o prefixo não tem candidato.
func (s *ExportSyncService) locateExports() (adsPath, ordersPath string, err error) {
	entries, err := os.ReadDir(s.config.Directory)
	if err != nil {
		return "", "", err
	}

	var adsModTime, ordersModTime time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		name := strings.ToLower(entry.Name())
		path := filepath.Join(s.config.Directory, entry.Name())

		switch {
		case strings.HasPrefix(name, "ads") && info.ModTime().After(adsModTime):
			adsPath, adsModTime = path, info.ModTime()
		case strings.HasPrefix(name, "orders") && info.ModTime().After(ordersModTime):
			ordersPath, ordersModTime = path, info.ModTime()
		}
	}

	return adsPath, ordersPath, nil
}
