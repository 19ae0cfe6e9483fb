package notifications

import (
	"math"
	"time"
)

// YesterdayLabel - подпись для вчерашней даты
const YesterdayLabel = "Hier"

var frenchWeekdays = [...]string{
	time.Sunday:    "dimanche",
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
}

// FormatDate форматирует t относительно now по календарным дням в зоне now:
// тот же день - "15:04", предыдущий - "Hier", 2-6 дней назад - день недели,
// иначе (в том числе будущие дни) - "02/01/06".
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	t = t.In(now.Location())

	switch days := calendarDaysBetween(t, now); {
	case days == 0:
		return t.Format("15:04")
	case days == 1:
		return YesterdayLabel
	case days >= 2 && days <= 6:
		return frenchWeekdays[t.Weekday()]
	default:
		return t.Format("02/01/06")
	}
}

// calendarDaysBetween - число полуночей между датами t и now.
// Округление сглаживает 23/25-часовые сутки при переходе на летнее время.
func calendarDaysBetween(t, now time.Time) int {
	dayT := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	dayNow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return int(math.Round(dayNow.Sub(dayT).Hours() / 24))
}
