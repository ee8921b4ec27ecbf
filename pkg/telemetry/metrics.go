package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics expõe os contadores Prometheus do pipeline de ingestão.
type Metrics struct {
	rowsIngested  *prometheus.CounterVec
	rowsDropped   *prometheus.CounterVec
	alertsFired   *prometheus.CounterVec
	uploadBatches prometheus.Counter
}

// NewMetrics registra e retorna as métricas do pipeline no Registerer
// informado; os testes injetam um registro isolado.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	rowsIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adsdash_rows_ingested_total",
		Help: "Linhas canônicas produzidas pela ingestão, por fonte.",
	}, []string{"source"})

	rowsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adsdash_rows_dropped_total",
		Help: "Linhas descartadas por data não resolvível, por fonte.",
	}, []string{"source"})

	alertsFired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adsdash_alerts_fired_total",
		Help: "Alertas emitidos pelo detector, por regra.",
	}, []string{"rule"})

	uploadBatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "adsdash_upload_batches_total",
		Help: "Lotes de upload processados pelo pipeline.",
	})

	reg.MustRegister(rowsIngested, rowsDropped, alertsFired, uploadBatches)

	return &Metrics{
		rowsIngested:  rowsIngested,
		rowsDropped:   rowsDropped,
		alertsFired:   alertsFired,
		uploadBatches: uploadBatches,
	}
}

func (m *Metrics) RowIngested(source string) {
	if m == nil {
		return
	}
	m.rowsIngested.WithLabelValues(source).Inc()
}

func (m *Metrics) RowDropped(source string) {
	if m == nil {
		return
	}
	m.rowsDropped.WithLabelValues(source).Inc()
}

func (m *Metrics) AlertFired(rule string) {
	if m == nil {
		return
	}
	m.alertsFired.WithLabelValues(rule).Inc()
}

func (m *Metrics) UploadBatch() {
	if m == nil {
		return
	}
	m.uploadBatches.Inc()
}
