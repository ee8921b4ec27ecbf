package alerting

import (
	"fmt"
	"math"
	"sort"

	"github.com/adexpert/ads-dashboard-api/internal/domain"
	"github.com/adexpert/ads-dashboard-api/pkg/telemetry"
)

// Identificadores estáveis das regras; compõem a chave de deduplicação
// <criativo>|<regra>.
const (
	RuleCTRDrop        = "ctr_drop"
	RuleCostPerConvUp  = "cpcnv_up"
	RuleCPMUpCTRSteady = "cpm_up_ctr_steady"
)

// Janela e limiares das regras de tendência
const (
	trendWindow      = 3
	ctrDropThreshold = -0.25
	frequencyCeiling = 2.5
	costPerConvRise  = 0.30
	cpmRiseThreshold = 0.25
	ctrSteadyBand    = 0.05
)

// Detector avalia as regras de anomalia sobre os registros de anúncios.
type Detector interface {
	GenerateAlerts(ads []*domain.AdRecord) []*domain.Alert
}

type Service struct {
	metrics *telemetry.Metrics
}

func NewService(metrics *telemetry.Metrics) *Service {
	return &Service{metrics: metrics}
}

// creativeDay é o balde (data, identidade do criativo) com as métricas do
// dia. Linhas repetidas no mesmo balde acumulam gasto, conversas, impressões
// e cliques; ctr e frequência ficam com o valor da última linha processada.
type creativeDay struct {
	date        string
	name        string
	scope       string
	ctr         *float64
	frequency   *float64
	spend       float64
	convs       float64
	impressions float64
	clicks      float64
}

func (c *creativeDay) cpm() *float64 {
	if c.impressions > 0 {
		v := c.spend / c.impressions * 1000
		return &v
	}
	return nil
}

func (c *creativeDay) cpc() *float64 {
	if c.clicks > 0 {
		v := c.spend / c.clicks
		return &v
	}
	return nil
}

func (c *creativeDay) costPerConv() *float64 {
	if c.convs > 0 {
		v := c.spend / c.convs
		return &v
	}
	return nil
}

// scopeFor devolve o escopo do alerta conforme o campo que forneceu a
// identidade do criativo.
func scopeFor(a *domain.AdRecord) string {
	switch {
	case a.AdName != "":
		return domain.AlertScopeAd
	case a.AdsetName != "":
		return domain.AlertScopeAdset
	case a.CampaignName != "":
		return domain.AlertScopeCampaign
	default:
		return domain.AlertScopeAd
	}
}

// groupByCreativeDaily reagrupa as linhas por (data, criativo) e devolve uma
// série ascendente por data para cada identidade de criativo.
func groupByCreativeDaily(ads []*domain.AdRecord) map[string][]*creativeDay {
	buckets := make(map[string]*creativeDay)
	order := make([]string, 0, len(ads))

	for _, a := range ads {
		name := a.CreativeName()
		key := a.ReportDate + "|" + name

		bucket, ok := buckets[key]
		if !ok {
			bucket = &creativeDay{date: a.ReportDate, name: name}
			buckets[key] = bucket
			order = append(order, key)
		}

		if a.UniqueCTR != nil {
			bucket.ctr = a.UniqueCTR
		}
		freq := a.Frequency
		bucket.frequency = &freq
		bucket.scope = scopeFor(a)

		bucket.spend += a.SpendBDT
		bucket.convs += a.ConversationsStarted
		bucket.impressions += a.Impressions
		if a.UniqueCTR != nil {
			bucket.clicks += *a.UniqueCTR * a.Impressions / 100
		}
	}

	byCreative := make(map[string][]*creativeDay)
	for _, key := range order {
		bucket := buckets[key]
		byCreative[bucket.name] = append(byCreative[bucket.name], bucket)
	}
	for _, series := range byCreative {
		sort.Slice(series, func(i, j int) bool {
			return series[i].date < series[j].date
		})
	}

	return byCreative
}

// windowAvg calcula a média das últimas n amostras não nulas (curr) e das n
// imediatamente anteriores (prev). Com menos de 2n amostras não nulas, ambas
// são nulas: histórico insuficiente nunca gera sinal falso.
func windowAvg(series []*float64, n int) (curr, prev *float64) {
	cleaned := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil && !math.IsNaN(*v) {
			cleaned = append(cleaned, *v)
		}
	}
	if len(cleaned) < n*2 {
		return nil, nil
	}

	sum := func(vals []float64) float64 {
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total
	}

	c := sum(cleaned[len(cleaned)-n:]) / float64(n)
	p := sum(cleaned[len(cleaned)-2*n:len(cleaned)-n]) / float64(n)
	return &c, &p
}

// pctChange é (curr - prev) / prev; nula quando prev é exatamente 0, caso em
// que nenhuma regra dispara.
func pctChange(curr, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	change := (curr - prev) / prev
	return &change
}

// GenerateAlerts avalia as três regras independentes por criativo; cada regra
// produz no máximo um alerta por criativo por execução.
func (s *Service) GenerateAlerts(ads []*domain.AdRecord) []*domain.Alert {
	alerts := make([]*domain.Alert, 0)

	byCreative := groupByCreativeDaily(ads)

	names := make([]string, 0, len(byCreative))
	for name := range byCreative {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		series := byCreative[name]
		lastDate := series[len(series)-1].date
		scope := series[len(series)-1].scope

		ctrSeries := make([]*float64, len(series))
		freqSeries := make([]*float64, len(series))
		cpmSeries := make([]*float64, len(series))
		costPerConvSeries := make([]*float64, len(series))
		for i, day := range series {
			ctrSeries[i] = day.ctr
			freqSeries[i] = day.frequency
			cpmSeries[i] = day.cpm()
			costPerConvSeries[i] = day.costPerConv()
		}

		if alert := s.evalCTRDrop(name, scope, lastDate, ctrSeries, freqSeries); alert != nil {
			alerts = append(alerts, alert)
		}
		if alert := s.evalCostPerConvUp(name, scope, lastDate, costPerConvSeries); alert != nil {
			alerts = append(alerts, alert)
		}
		if alert := s.evalCPMUpCTRSteady(name, scope, lastDate, cpmSeries, ctrSeries); alert != nil {
			alerts = append(alerts, alert)
		}
	}

	return alerts
}

// Regra 1: queda de CTR ≥25% na média de 3 dias com frequência acima de 2.5
// no fim da série indica fadiga do criativo.
func (s *Service) evalCTRDrop(name, scope, lastDate string, ctrSeries, freqSeries []*float64) *domain.Alert {
	curr, prev := windowAvg(ctrSeries, trendWindow)
	if curr == nil || prev == nil {
		return nil
	}

	var lastFreq *float64
	for i := len(freqSeries) - 1; i >= 0; i-- {
		if freqSeries[i] != nil {
			lastFreq = freqSeries[i]
			break
		}
	}
	if lastFreq == nil {
		return nil
	}

	change := pctChange(*curr, *prev)
	if change == nil || *change > ctrDropThreshold || *lastFreq <= frequencyCeiling {
		return nil
	}

	s.metrics.AlertFired(RuleCTRDrop)
	return &domain.Alert{
		Date:  lastDate,
		Level: domain.AlertLevelWarn,
		Scope: scope,
		Key:   name + "|" + RuleCTRDrop,
		Title: "Rotate creative",
		Message: fmt.Sprintf(
			"CTR fell %.0f%% over the last 3 days and frequency is %.2f (>2.5).",
			math.Abs(*change)*100, *lastFreq,
		),
	}
}

// Regra 2: custo por conversa subiu ≥30% na média de 3 dias.
func (s *Service) evalCostPerConvUp(name, scope, lastDate string, costPerConvSeries []*float64) *domain.Alert {
	curr, prev := windowAvg(costPerConvSeries, trendWindow)
	if curr == nil || prev == nil {
		return nil
	}

	change := pctChange(*curr, *prev)
	if change == nil || *change < costPerConvRise {
		return nil
	}

	s.metrics.AlertFired(RuleCostPerConvUp)
	return &domain.Alert{
		Date:  lastDate,
		Level: domain.AlertLevelWarn,
		Scope: scope,
		Key:   name + "|" + RuleCostPerConvUp,
		Title: "Rotate creative (prospecting)",
		Message: fmt.Sprintf(
			"Cost per conversation up %.0f%% vs previous 3 days.",
			*change*100,
		),
	}
}

// Regra 3: CPM subiu ≥25% com CTR estável (±5%): inflação de custo sem perda
// de engajamento, segurar o criativo.
func (s *Service) evalCPMUpCTRSteady(name, scope, lastDate string, cpmSeries, ctrSeries []*float64) *domain.Alert {
	cpmCurr, cpmPrev := windowAvg(cpmSeries, trendWindow)
	ctrCurr, ctrPrev := windowAvg(ctrSeries, trendWindow)
	if cpmCurr == nil || cpmPrev == nil || ctrCurr == nil || ctrPrev == nil {
		return nil
	}

	cpmChange := pctChange(*cpmCurr, *cpmPrev)
	ctrChange := pctChange(*ctrCurr, *ctrPrev)
	if cpmChange == nil || *cpmChange < cpmRiseThreshold {
		return nil
	}
	if ctrChange == nil || math.Abs(*ctrChange) > ctrSteadyBand {
		return nil
	}

	s.metrics.AlertFired(RuleCPMUpCTRSteady)
	return &domain.Alert{
		Date:    lastDate,
		Level:   domain.AlertLevelInfo,
		Scope:   scope,
		Key:     name + "|" + RuleCPMUpCTRSteady,
		Title:   "Ride out CPM rise",
		Message: "CPM up ≥25% with steady CTR. Smooth budgets/daypart; rotate only if persists 5-7 days.",
	}
}
