package wizard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usSlashRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	parseLayout = []string{time.RFC3339, "2006-01-02 15:04:05", "02-01-2006", "2006/01/02"}
)

// NormalizeDate lleva cualquier representación razonable de fecha al formato
// canónico YYYY-MM-DD. Acepta ISO, mm/dd/yyyy (formato de los inputs de fecha
// en locales en-US) y algunos formatos sueltos; devuelve cadena vacía si no
// se puede interpretar.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if isoDateRe.MatchString(value) {
		return value
	}
	if m := usSlashRe.FindStringSubmatch(value); m != nil {
		mm, _ := strconv.Atoi(m[1])
		dd, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], mm, dd)
	}
	for _, layout := range parseLayout {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// dateBefore compara dos fechas canónicas; con fechas inválidas devuelve false
// (la advertencia de orden solo aplica cuando ambas fechas son legibles).
func dateBefore(a, b string) bool {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Before(tb)
}
