package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/adexpert/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/adexpert/ads-dashboard-api/internal/domain"
)

const (
	dailyAdsTable = "daily_ads"

	dailyAdsColumns = "to_char(report_date, 'YYYY-MM-DD'), campaign_name, adset_name, ad_name, level, reach, " +
		"impressions, frequency, results, result_type, conversations_started, " +
		"unique_ctr, ctr_all, purchases, spend_sgd, spend_bdt, cpm_bdt, cpc_bdt"
)

// AdRecordRepository é a superfície de upsert/leitura dos registros de
// anúncios. A chave natural de idempotência é
// (report_date, level, campaign_name, adset_name, ad_name).
type AdRecordRepository interface {
	SaveBatch(ctx context.Context, records []*domain.AdRecord) error
	GetSince(cutoff string) ([]*domain.AdRecord, error)
}

type adRecordRepository struct {
	conn *postgres.Connection
}

func NewAdRecordRepository(conn *postgres.Connection) AdRecordRepository {
	return &adRecordRepository{
		conn: conn,
	}
}

// SaveBatch grava o lote em uma única transação com upsert por linha; um
// reprocessamento do mesmo export sobrescreve as métricas, nunca duplica.
func (r *adRecordRepository) SaveBatch(ctx context.Context, records []*domain.AdRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range records {
			query, args, err := squirrel.
				Insert(dailyAdsTable).
				Columns(
					"report_date", "campaign_name", "adset_name", "ad_name", "level",
					"reach", "impressions", "frequency", "results", "result_type",
					"conversations_started", "unique_ctr", "ctr_all", "purchases",
					"spend_sgd", "spend_bdt", "cpm_bdt", "cpc_bdt",
				).
				Values(
					record.ReportDate, record.CampaignName, record.AdsetName,
					record.AdName, record.Level, record.Reach, record.Impressions,
					record.Frequency, record.Results, record.ResultType,
					record.ConversationsStarted, record.UniqueCTR, record.CTRAll,
					record.Purchases, record.SpendSGD, record.SpendBDT,
					record.CPMBDT, record.CPCBDT,
				).
				Suffix(`
					ON CONFLICT (report_date, level, campaign_name, adset_name, ad_name) DO UPDATE SET
						reach = EXCLUDED.reach,
						impressions = EXCLUDED.impressions,
						frequency = EXCLUDED.frequency,
						results = EXCLUDED.results,
						result_type = EXCLUDED.result_type,
						conversations_started = EXCLUDED.conversations_started,
						unique_ctr = EXCLUDED.unique_ctr,
						ctr_all = EXCLUDED.ctr_all,
						purchases = EXCLUDED.purchases,
						spend_sgd = EXCLUDED.spend_sgd,
						spend_bdt = EXCLUDED.spend_bdt,
						cpm_bdt = EXCLUDED.cpm_bdt,
						cpc_bdt = EXCLUDED.cpc_bdt,
						updated_at = NOW()
				`).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query de upsert: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("erro ao gravar registro de anúncio: %w", err)
			}
		}
		return nil
	})
}

// GetSince retorna os registros com report_date >= cutoff (YYYY-MM-DD),
// ordenados de forma ascendente.
func (r *adRecordRepository) GetSince(cutoff string) ([]*domain.AdRecord, error) {
	query, args, err := squirrel.
		Select(dailyAdsColumns).
		From(dailyAdsTable).
		Where(squirrel.GtOrEq{"report_date": cutoff}).
		OrderBy("report_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AdRecord, 0)
	for rows.Next() {
		record, err := scanAdRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de anúncio: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func scanAdRecord(rows *sql.Rows) (*domain.AdRecord, error) {
	var (
		record    domain.AdRecord
		uniqueCTR sql.NullFloat64
		ctrAll    sql.NullFloat64
		purchases sql.NullFloat64
		cpmBDT    sql.NullFloat64
		cpcBDT    sql.NullFloat64
	)

	err := rows.Scan(
		&record.ReportDate, &record.CampaignName, &record.AdsetName,
		&record.AdName, &record.Level, &record.Reach, &record.Impressions,
		&record.Frequency, &record.Results, &record.ResultType,
		&record.ConversationsStarted, &uniqueCTR, &ctrAll, &purchases,
		&record.SpendSGD, &record.SpendBDT, &cpmBDT, &cpcBDT,
	)
	if err != nil {
		return nil, err
	}

	record.UniqueCTR = nullableFloat(uniqueCTR)
	record.CTRAll = nullableFloat(ctrAll)
	record.Purchases = nullableFloat(purchases)
	record.CPMBDT = nullableFloat(cpmBDT)
	record.CPCBDT = nullableFloat(cpcBDT)

	return &record, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
