package models

import "strings"

// PeriodToken enumerates the relative date windows offered by the dashboard.
type PeriodToken string

const (
	PeriodToday        PeriodToken = "today"
	PeriodLastWeek     PeriodToken = "last_week"
	PeriodLast15Days   PeriodToken = "last_15_days"
	PeriodLast30Days   PeriodToken = "last_30_days"
	PeriodCurrentMonth PeriodToken = "current_month"
	PeriodCurrentYear  PeriodToken = "current_year"
	PeriodAll          PeriodToken = "all"
	PeriodUnknown      PeriodToken = "unknown"
)

// Periods lists the selectable tokens in the order the period picker shows them.
var Periods = []PeriodToken{
	PeriodToday,
	PeriodLastWeek,
	PeriodLast15Days,
	PeriodLast30Days,
	PeriodCurrentMonth,
	PeriodCurrentYear,
	PeriodAll,
}

var periodLabels = map[PeriodToken]string{
	PeriodToday:        "Hoje",
	PeriodLastWeek:     "Última Semana",
	PeriodLast15Days:   "Últimos 15 Dias",
	PeriodLast30Days:   "Últimos 30 Dias",
	PeriodCurrentMonth: "Mês Atual",
	PeriodCurrentYear:  "Ano Atual",
	PeriodAll:          "Todos",
}

// Label returns the operator-facing name of the period.
func (p PeriodToken) Label() string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePeriod derives a PeriodToken from either a canonical token or the
// Portuguese label used by the period picker.
func ParsePeriod(raw string) PeriodToken {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if normalized == "" {
		return PeriodUnknown
	}

	folded, err := foldAccents(normalized)
	if err != nil {
		folded = normalized
	}

	switch folded {
	case string(PeriodToday), "hoje":
		return PeriodToday
	case string(PeriodLastWeek), "ultima semana":
		return PeriodLastWeek
	case string(PeriodLast15Days), "ultimos 15 dias":
		return PeriodLast15Days
	case string(PeriodLast30Days), "ultimos 30 dias":
		return PeriodLast30Days
	case string(PeriodCurrentMonth), "mes atual":
		return PeriodCurrentMonth
	case string(PeriodCurrentYear), "ano atual":
		return PeriodCurrentYear
	case string(PeriodAll), "todos":
		return PeriodAll
	default:
		return PeriodUnknown
	}
}
