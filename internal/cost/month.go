package cost

import (
	"fmt"
	"time"

	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// UndatedLabel buckets entries whose creation date cannot be parsed.
const UndatedLabel = "Data não disponível"

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthLabel maps a persisted creation timestamp to "Março/2024".
func MonthLabel(raw string) string {
	t, ok := utils.ParseTimestamp(raw)
	if !ok {
		return UndatedLabel
	}
	return labelFor(t.UTC())
}

func labelFor(t time.Time) string {
	return fmt.Sprintf("%s/%d", MonthName(t.Month()), t.Year())
}
