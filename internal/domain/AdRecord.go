package domain

import "time"

// Nível de entrega reportado pela plataforma de anúncios
const (
	LevelCampaign = "campaign"
	LevelAdset    = "adset"
	LevelAd       = "ad"
)

// AdRecord representa uma linha canônica do relatório diário de anúncios.
// Campos derivados (spend_bdt, cpm_bdt) são calculados na ingestão e nunca
// recalculados depois.
type AdRecord struct {
	ID                   int64    `json:"id,omitempty"`
	ReportDate           string   `json:"report_date"` // YYYY-MM-DD, calendário local
	CampaignName         string   `json:"campaign_name"`
	AdsetName            string   `json:"adset_name"`
	AdName               string   `json:"ad_name"`
	Level                string   `json:"level"`
	Reach                float64  `json:"reach"`
	Impressions          float64  `json:"impressions"`
	Frequency            float64  `json:"frequency"`
	Results              float64  `json:"results"`
	ResultType           string   `json:"result_type"`
	ConversationsStarted float64  `json:"conversations_started"`
	UniqueCTR            *float64 `json:"unique_ctr"`
	CTRAll               *float64 `json:"ctr_all"`
	Purchases            *float64 `json:"purchases"`
	SpendSGD             float64  `json:"spend_sgd"`
	SpendBDT             float64  `json:"spend_bdt"`
	CPMBDT               *float64 `json:"cpm_bdt"`
	CPCBDT               *float64 `json:"cpc_bdt"` // reservado, sempre null neste escopo

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ValidLevel valida o nível de entrega, usando campaign como padrão
func ValidLevel(level string) string {
	switch level {
	case LevelCampaign, LevelAdset, LevelAd:
		return level
	default:
		return LevelCampaign
	}
}

// CreativeName retorna o nome mais específico disponível para a linha:
// ad name, senão adset name, senão campaign name, senão "unknown".
func (a *AdRecord) CreativeName() string {
	if a.AdName != "" {
		return a.AdName
	}
	if a.AdsetName != "" {
		return a.AdsetName
	}
	if a.CampaignName != "" {
		return a.CampaignName
	}
	return "unknown"
}
