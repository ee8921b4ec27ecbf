package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/internal/usecases/dashboarding"
	"github.com/adexpert/ads-dashboard-api/pkg/apiErrors"
	"github.com/adexpert/ads-dashboard-api/pkg/log"
	"github.com/adexpert/ads-dashboard-api/pkg/utils"
)

// Serialização dos payloads de dashboard usa jsoniter; são as respostas mais
// volumosas da API.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Limite de memória para o parse do multipart; o excedente vai para disco.
const uploadMaxMemory = 32 << 20

const defaultHistoryDays = 30

type UploadResponse struct {
	BatchID    string                `json:"batch_id"`
	Daily      []*domain.DailyKpiRow `json:"daily"`
	Alerts     []*domain.Alert       `json:"alerts"`
	AdsRows    int                   `json:"ads_rows"`
	OrdersRows int                   `json:"orders_rows"`
}

type RefreshResponse struct {
	BatchID string                `json:"batch_id"`
	Daily   []*domain.DailyKpiRow `json:"daily"`
	Alerts  []*domain.Alert       `json:"alerts"`
}

// UploadReports recebe o relatório de anúncios e o razão de pedidos como
// partes multipart ("ads" e "orders"), processa o lote e devolve o dashboard
// recalculado.
func UploadReports(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if err := r.ParseMultipartForm(uploadMaxMemory); err != nil {
			logger.WithError(err).Warn("reports: invalid multipart payload")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		adsData, adsFilename, err := readFormFile(r, "ads")
		if err != nil {
			logger.WithError(err).Warn("reports: failed to read ads part")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Erro ao ler o arquivo de anúncios", nil)
			return
		}

		ordersData, _, err := readFormFile(r, "orders")
		if err != nil {
			logger.WithError(err).Warn("reports: failed to read orders part")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Erro ao ler o arquivo de pedidos", nil)
			return
		}

		if len(adsData) == 0 && len(ordersData) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Envie ao menos um dos arquivos: ads ou orders", nil)
			return
		}

		result, err := service.ProcessUpload(r.Context(), adsFilename, adsData, ordersData)
		if err != nil {
			logger.WithError(err).Error("reports: failed to process upload")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar os relatórios", nil)
			return
		}

		logger.WithFields(log.Fields{
			"batch_id":    result.Snapshot.BatchID,
			"ads_rows":    result.AdsRows,
			"orders_rows": result.OrdersRows,
		}).Info("reports: upload processed")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(UploadResponse{
			BatchID:    result.Snapshot.BatchID,
			Daily:      result.Snapshot.Daily,
			Alerts:     result.Snapshot.Alerts,
			AdsRows:    result.AdsRows,
			OrdersRows: result.OrdersRows,
		})
	})
}

// GetDailyKpis devolve a série diária do snapshot corrente, com recorte
// opcional por start_date/end_date (YYYY-MM-DD).
func GetDailyKpis(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
		if err != nil {
			logger.WithFields(log.Fields{
				"start_date": r.URL.Query().Get("start_date"),
				"error":      err.Error(),
			}).Warn("kpis: invalid start_date parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro start_date inválido", nil)
			return
		}

		endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
		if err != nil {
			logger.WithFields(log.Fields{
				"end_date": r.URL.Query().Get("end_date"),
				"error":    err.Error(),
			}).Warn("kpis: invalid end_date parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro end_date inválido", nil)
			return
		}

		daily := make([]*domain.DailyKpiRow, 0)
		if snapshot := service.Snapshot(); snapshot != nil {
			daily = filterDaily(snapshot.Daily, startDate, endDate)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(daily)
	})
}

// filterDaily recorta a série pelo intervalo fechado; datas zero não filtram.
func filterDaily(daily []*domain.DailyKpiRow, startDate, endDate *time.Time) []*domain.DailyKpiRow {
	filtered := make([]*domain.DailyKpiRow, 0, len(daily))
	for _, row := range daily {
		if startDate != nil && !startDate.IsZero() && row.Date < startDate.Format(time.DateOnly) {
			continue
		}
		if endDate != nil && !endDate.IsZero() && row.Date > endDate.Format(time.DateOnly) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// GetAlerts devolve os alertas do snapshot corrente.
func GetAlerts(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		alerts := make([]*domain.Alert, 0)
		if snapshot := service.Snapshot(); snapshot != nil {
			alerts = snapshot.Alerts
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	})
}

// GetAds devolve os registros canônicos de anúncios do snapshot corrente.
func GetAds(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ads := make([]*domain.AdRecord, 0)
		if snapshot := service.Snapshot(); snapshot != nil {
			ads = snapshot.Ads
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ads)
	})
}

// RefreshHistory reconstrói o snapshot a partir do histórico persistido dos
// últimos N dias (query param "days", padrão 30).
func RefreshHistory(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		days := defaultHistoryDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro days inválido", nil)
				return
			}
			days = parsed
		}

		snapshot, err := service.RefreshHistory(r.Context(), days)
		if err != nil {
			logger.WithFields(log.Fields{
				"days":  days,
				"error": err.Error(),
			}).Error("history: failed to rebuild snapshot")

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao reconstruir o histórico", nil)
			return
		}

		logger.WithFields(log.Fields{
			"batch_id": snapshot.BatchID,
			"days":     days,
		}).Info("history: snapshot rebuilt")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RefreshResponse{
			BatchID: snapshot.BatchID,
			Daily:   snapshot.Daily,
			Alerts:  snapshot.Alerts,
		})
	})
}

func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, header.Filename, nil
}
