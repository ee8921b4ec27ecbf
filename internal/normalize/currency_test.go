package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyConverterToBDT(t *testing.T) {
	converter := NewCurrencyConverter(95)

	assert.Equal(t, 0.0, converter.ToBDT(0))
	assert.Equal(t, 950.0, converter.ToBDT(10))
	assert.Equal(t, 5185.1, converter.ToBDT(54.58))
}

func TestCurrencyConverterRoundsTwoDecimalPlaces(t *testing.T) {
	converter := NewCurrencyConverter(95.5)

	// 1.234 * 95.5 = 117.847 -> 117.85
	assert.Equal(t, 117.85, converter.ToBDT(1.234))
}

func TestCurrencyConverterDefaultsRate(t *testing.T) {
	assert.Equal(t, DefaultSGDToBDTRate, NewCurrencyConverter(0).Rate())
	assert.Equal(t, DefaultSGDToBDTRate, NewCurrencyConverter(-1).Rate())
	assert.Equal(t, 120.0, NewCurrencyConverter(120).Rate())
}
