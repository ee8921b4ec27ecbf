package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dia zero do calendário serial de planilhas (1899-12-30, aritmética em UTC)
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"02 January 2006",
}

// LocalDate resolve uma célula de data para a forma canônica YYYY-MM-DD usando
// os componentes locais do calendário, nunca uma representação deslocada para
// UTC. Aceita serial de planilha (dias desde 1899-12-30), dd/mm/yyyy,
// yyyy-mm-dd, dd-MMM-yy (separadores "/", "-", "." ou espaço) e alguns
// formatos textuais comuns. Retorna vazio quando nenhuma regra produz uma
// data de calendário válida.
func LocalDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Serial de planilha: célula puramente numérica
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		d := sheetEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return formatLocal(d.UTC())
	}

	// Descartar hora do dia ("2024-03-15T10:00:00", "15/03/2024 10:00")
	dateOnly := raw
	if i := strings.IndexByte(dateOnly, 'T'); i >= 0 {
		dateOnly = dateOnly[:i]
	}
	if i := strings.IndexByte(dateOnly, ' '); i >= 0 {
		dateOnly = dateOnly[:i]
	}

	for _, delim := range []string{"/", "-", ".", " "} {
		parts := strings.Split(dateOnly, delim)
		if len(parts) != 3 {
			continue
		}
		a, b, c := parts[0], parts[1], parts[2]

		// dd/mm/yyyy
		if len(c) == 4 {
			if d, ok := calendarDate(atoi(c), atoi(b), atoi(a)); ok {
				return d
			}
		}

		// yyyy-mm-dd
		if len(a) == 4 {
			if d, ok := calendarDate(atoi(a), atoi(b), atoi(c)); ok {
				return d
			}
		}

		// dd-MMM-yy
		if len(c) == 2 && alphaCount(b) >= 3 {
			if month, ok := monthAbbrevs[strings.ToLower(b[:3])]; ok {
				if d, ok := calendarDate(2000+atoi(c), int(month), atoi(a)); ok {
					return d
				}
			}
		}
	}

	// Último recurso: formatos textuais completos
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return formatLocal(t)
		}
	}

	return ""
}

// calendarDate valida os componentes como data real de calendário (sem o
// transbordo de time.Date, que normalizaria 31/02 para março).
func calendarDate(year, month, day int) (string, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return formatLocal(t), true
}

func formatLocal(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

func alphaCount(s string) int {
	count := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			count++
		}
	}
	return count
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
