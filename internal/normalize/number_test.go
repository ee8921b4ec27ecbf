package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "número simples", input: "42", expected: 42},
		{name: "decimal", input: "54.58", expected: 54.58},
		{name: "prefixo de moeda S$", input: "S$54.58", expected: 54.58},
		{name: "prefixo de moeda com espaço", input: "SGD 54.58", expected: 54.58},
		{name: "separador de milhar", input: "1,234.56", expected: 1234.56},
		{name: "negativo", input: "-12.5", expected: -12.5},
		{name: "vazio", input: "", expected: 0},
		{name: "texto puro", input: "n/a", expected: 0},
		{name: "somente símbolos", input: "$", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Number(tt.input))
		})
	}
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber("S$54.58")
	assert.True(t, ok)
	assert.Equal(t, 54.58, v)

	v, ok = ParseNumber("0")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = ParseNumber("N/A")
	assert.False(t, ok)

	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 3.2, Percent("3.2%"))
	assert.Equal(t, 3.2, Percent("3.2"))
	assert.Equal(t, 0.0, Percent(""))
	assert.Equal(t, 0.0, Percent("%"))
}
