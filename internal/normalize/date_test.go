package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "formato dd/mm/yyyy",
			input:    "15/03/2024",
			expected: "2024-03-15",
		},
		{
			name:     "formato yyyy-mm-dd",
			input:    "2024-03-15",
			expected: "2024-03-15",
		},
		{
			name:     "formato dd-MMM-yy",
			input:    "15-Mar-24",
			expected: "2024-03-15",
		},
		{
			name:     "formato dd.mm.yyyy",
			input:    "01.12.2023",
			expected: "2023-12-01",
		},
		{
			name:     "abreviação de mês em minúsculas",
			input:    "7-aug-25",
			expected: "2025-08-07",
		},
		{
			name:     "serial de planilha determinístico",
			input:    "45000",
			expected: "2023-03-15",
		},
		{
			name:     "serial fracionário descarta hora",
			input:    "45000.75",
			expected: "2023-03-15",
		},
		{
			name:     "datetime ISO descarta a parte de hora",
			input:    "2024-03-15T10:30:00",
			expected: "2024-03-15",
		},
		{
			name:     "datetime com espaço descarta a parte de hora",
			input:    "15/03/2024 10:30",
			expected: "2024-03-15",
		},
		{
			name:     "mês e dia com zero à esquerda",
			input:    "5/3/2024",
			expected: "2024-03-05",
		},
		{
			name:     "texto por extenso via fallback",
			input:    "Mar 15, 2024",
			expected: "2024-03-15",
		},
		{
			name:     "entrada vazia",
			input:    "",
			expected: "",
		},
		{
			name:     "somente espaços",
			input:    "   ",
			expected: "",
		},
		{
			name:     "texto sem data",
			input:    "Total",
			expected: "",
		},
		{
			name:     "dia inexistente no calendário não transborda",
			input:    "31/02/2024",
			expected: "",
		},
		{
			name:     "abreviação de mês desconhecida",
			input:    "15-Xyz-24",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LocalDate(tt.input))
		})
	}
}

// O serial 45000 deve mapear para a mesma data independente do fuso horário
// do runtime; a aritmética é feita em UTC e os componentes lidos sem shift.
func TestLocalDateSerialIndependentOfTimezone(t *testing.T) {
	assert.Equal(t, "2023-03-15", LocalDate("45000"))
	assert.Equal(t, "1900-01-01", LocalDate("2"))
}
