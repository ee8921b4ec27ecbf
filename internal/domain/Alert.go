package domain

// Severidade dos alertas
const (
	AlertLevelInfo   = "info"
	AlertLevelWarn   = "warn"
	AlertLevelDanger = "danger"
)

// Escopo da entidade que originou o alerta
const (
	AlertScopeAd       = "ad"
	AlertScopeAdset    = "adset"
	AlertScopeCampaign = "campaign"
)

// Alert representa uma anomalia detectada em um criativo. Key é estável
// (criativo + regra) para permitir deduplicação entre execuções; a lista é
// recalculada por completo a cada processamento.
type Alert struct {
	Date    string `json:"date"` // última data da janela que disparou a regra
	Level   string `json:"level"`
	Scope   string `json:"scope"`
	Key     string `json:"key"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
