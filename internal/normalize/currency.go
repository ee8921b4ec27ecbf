package normalize

import "github.com/adexpert/ads-dashboard-api/pkg/utils"

// DefaultSGDToBDTRate é a taxa de conversão usada quando nenhuma é configurada.
const DefaultSGDToBDTRate = 95.0

// CurrencyConverter converte valores da moeda de origem (SGD) para BDT com
// uma taxa fixa injetada na construção, permitindo taxas arbitrárias em teste.
type CurrencyConverter struct {
	rate float64
}

func NewCurrencyConverter(rate float64) *CurrencyConverter {
	if rate <= 0 {
		rate = DefaultSGDToBDTRate
	}
	return &CurrencyConverter{rate: rate}
}

// Rate retorna a taxa configurada.
func (c *CurrencyConverter) Rate() float64 {
	return c.rate
}

// ToBDT converte um valor em SGD para BDT, arredondado para duas casas
// decimais. Valor zero ou ausente resulta em 0, nunca em erro.
func (c *CurrencyConverter) ToBDT(amountSGD float64) float64 {
	return utils.RoundWithTwoDecimalPlace(amountSGD * c.rate)
}
