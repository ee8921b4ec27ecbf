package normalize

import (
	"strconv"
	"strings"
)

// ParseNumber coage uma célula textual para número, tolerando prefixos de
// moeda e separadores de milhar ("S$54.58", "SGD 54.58", "1,234.56").
// Caracteres que não sejam dígito, ponto ou sinal são descartados antes do
// parse. O segundo retorno informa se restou algo numérico; células como
// "N/A" retornam (0, false).
func ParseNumber(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Number é ParseNumber com degradação para 0; esta função nunca falha.
func Number(raw string) float64 {
	n, _ := ParseNumber(raw)
	return n
}

// Percent remove o sufixo "%" e coage o restante; "3.2%" vira 3.2.
func Percent(raw string) float64 {
	return Number(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
}
