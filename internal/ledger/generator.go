package ledger

import (
	"time"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// Expected occurrence counts per month for the stepped periods. Months
// exceeding them are flagged as extra-occurrence months for the caller
// (a third bi-weekly paycheck, a fifth weekly bill).
const (
	usualBiWeeklyPerMonth = 2
	usualWeeklyPerMonth   = 4
)

// Expand generates the occurrences of one template within the target
// month, each carrying the template's per-period amount. No pro-rating
// happens: summed over a year the occurrence amounts approximate the
// template's nominal annual rate.
//
// The second return value reports an extra-occurrence month.
func Expand(t models.Template, month types.Month) ([]models.Occurrence, bool) {
	var dates []types.Date

	switch t.BillingPeriod {
	case models.PeriodMonthly:
		dates = expandMonthly(t.Anchor, month)
	case models.PeriodWeekly:
		dates = expandStepped(t.Anchor, month, 7)
	case models.PeriodBiWeekly:
		dates = expandStepped(t.Anchor, month, 14)
	case models.PeriodSemiAnnually:
		dates = expandSemiAnnually(t.Anchor, month)
	}

	occurrences := make([]models.Occurrence, 0, len(dates))
	for _, date := range dates {
		occurrences = append(occurrences, models.NewOccurrence(date, t.Amount))
	}

	extra := (t.BillingPeriod == models.PeriodBiWeekly && len(dates) > usualBiWeeklyPerMonth) ||
		(t.BillingPeriod == models.PeriodWeekly && len(dates) > usualWeeklyPerMonth)

	return occurrences, extra
}

// expandMonthly yields exactly one date. Day anchors clamp to the last day
// of shorter months, so day 31 falls on February 28. Week anchors pick the
// Nth matching weekday; week 5 means the last matching weekday when no
// literal fifth one exists.
func expandMonthly(anchor models.Anchor, month types.Month) []types.Date {
	year := time.Time(month).Year()
	m := time.Time(month).Month()
	days := month.Days()

	if anchor.Weekday == nil {
		day := anchor.Day
		if day > days {
			day = days
		}
		if day < 1 {
			day = 1
		}
		return []types.Date{types.NewDate(year, m, day)}
	}

	// Day of month of the first matching weekday
	firstWeekday := types.NewDate(year, m, 1).Weekday()
	offset := (int(*anchor.Weekday) - int(firstWeekday) + 7) % 7
	day := 1 + offset + (anchor.Week-1)*7

	for day > days {
		day -= 7
	}

	return []types.Date{types.NewDate(year, m, day)}
}

// expandStepped enumerates every step-day interval from the anchor's start
// date that lands inside the month.
func expandStepped(anchor models.Anchor, month types.Month, step int) []types.Date {
	if anchor.StartDate == nil {
		return nil
	}

	start := *anchor.StartDate
	first := month.First()

	// Skip ahead to the first occurrence on or after the month start
	// instead of stepping one by one from a possibly distant anchor.
	date := start
	if start.Before(first) {
		days := int(time.Time(first).Sub(time.Time(start)).Hours() / 24)
		date = start.AddDays((days + step - 1) / step * step)
	}

	var dates []types.Date
	for month.ContainsDate(date) {
		dates = append(dates, date)
		date = date.AddDays(step)
	}

	return dates
}

// expandSemiAnnually yields at most one date: the anchor day in every
// sixth month from the start date, clamped like a monthly day anchor.
func expandSemiAnnually(anchor models.Anchor, month types.Month) []types.Date {
	if anchor.StartDate == nil {
		return nil
	}

	start := *anchor.StartDate
	startMonth := start.Month()

	years := time.Time(month).Year() - time.Time(startMonth).Year()
	months := years*12 + int(time.Time(month).Month()) - int(time.Time(startMonth).Month())
	if months < 0 || months%6 != 0 {
		return nil
	}

	day := start.Day()
	if days := month.Days(); day > days {
		day = days
	}

	return []types.Date{types.NewDate(time.Time(month).Year(), time.Time(month).Month(), day)}
}

// instanceFromTemplate materializes a template into a month. The instance
// keeps a metadata snapshot so later template edits do not rewrite the
// month.
func instanceFromTemplate(t models.Template, month types.Month) models.Instance {
	occurrences, extra := Expand(t, month)

	i := models.NewInstance(month)
	templateID := t.ID
	i.TemplateID = &templateID
	i.BillingPeriod = t.BillingPeriod
	i.Occurrences = occurrences
	i.ExtraOccurrences = extra
	i.Metadata = t.Metadata()
	i.Resequence()
	i.Recompute()

	return i
}
