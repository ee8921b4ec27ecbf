package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/adexpert/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/adexpert/ads-dashboard-api/infrastructure/repository"
	"github.com/adexpert/ads-dashboard-api/internal/api"
	"github.com/adexpert/ads-dashboard-api/internal/config"
	"github.com/adexpert/ads-dashboard-api/internal/normalize"
	"github.com/adexpert/ads-dashboard-api/internal/scheduler"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/alerting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/authenticating"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/dashboarding"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/ingesting"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/reporting"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	adRecordRepo := repository.NewAdRecordRepository(pgConn)
	orderRecordRepo := repository.NewOrderRecordRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	authenticator := authenticating.NewService(userRepo, cfg)

	converter := normalize.NewCurrencyConverter(cfg.Dashboard.SGDToBDTRate)
	dashboardService := dashboarding.NewService(
		ingesting.NewService(converter, metrics),
		reporting.NewService(),
		alerting.NewService(metrics),
		adRecordRepo,
		orderRecordRepo,
		metrics,
	)

	// Recupera o snapshot do histórico persistido antes de servir consultas
	if _, err := dashboardService.RefreshHistory(ctx, cfg.Dashboard.HistoryDays); err != nil {
		logrus.WithError(err).Warn("Não foi possível reconstruir o snapshot inicial do histórico")
	} else {
		logrus.WithField("days", cfg.Dashboard.HistoryDays).Info("Snapshot inicial reconstruído do histórico")
	}

	exportSyncService := scheduler.NewExportSyncService(dashboardService, cfg)
	if err := exportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de reingestão de exports")
	} else {
		logrus.Info("Agendador de reingestão de exports iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		dashboardService,
		authenticator,
		registry,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
