package ingesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		field    string
		expected int
		found    bool
	}{
		{
			name:     "casamento exato",
			header:   []string{"Campaign name", "Impressions"},
			field:    fieldCampaignName,
			expected: 0,
			found:    true,
		},
		{
			name:     "insensível a maiúsculas",
			header:   []string{"CAMPAIGN NAME", "impressions"},
			field:    fieldImpressions,
			expected: 1,
			found:    true,
		},
		{
			name:     "primeiro sinônimo tem prioridade",
			header:   []string{"Spend (SGD)", "Amount spent (SGD)"},
			field:    fieldSpendSGD,
			expected: 1,
			found:    true,
		},
		{
			name:     "sinônimo de fallback",
			header:   []string{"Date", "Impressions"},
			field:    fieldReportStart,
			expected: 0,
			found:    true,
		},
		{
			name:   "coluna ausente não entra no mapa",
			header: []string{"Campaign name"},
			field:  fieldUniqueCTR,
			found:  false,
		},
		{
			name:     "espaços no cabeçalho são aparados",
			header:   []string{"  Reporting starts  "},
			field:    fieldReportStart,
			expected: 0,
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := resolveColumns(tt.header, adFieldSpecs)
			idx, ok := cols[tt.field]
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, idx)
			}
		})
	}
}

func TestColumnMapCellOutOfRange(t *testing.T) {
	cols := resolveColumns([]string{"Campaign name", "Results"}, adFieldSpecs)

	// Linha mais curta que o cabeçalho não causa pânico
	value, ok := cols.cell([]string{"só uma célula"}, fieldResults)
	assert.False(t, ok)
	assert.Equal(t, "", value)
}
