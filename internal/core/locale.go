package core

import (
	"strconv"
	"time"
)

// Locale selects the language used for month bucket labels. It only
// affects formatting, never grouping or ordering.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFA Locale = "fa"
)

var faMonths = [12]string{
	"ژانویه", "فوریه", "مارس", "آوریل", "مه", "ژوئن",
	"ژوئیه", "اوت", "سپتامبر", "اکتبر", "نوامبر", "دسامبر",
}

func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleFA
}

// MonthLabel formats a (year, month) bucket key, e.g. "Mar 2024".
func (l Locale) MonthLabel(year int, month time.Month) string {
	if l == LocaleFA {
		return faMonths[month-1] + " " + strconv.Itoa(year)
	}
	return month.String()[:3] + " " + strconv.Itoa(year)
}
