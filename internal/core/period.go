package core

import "time"

// Period is one billing cycle of a card, inclusive on both bounds.
type Period struct {
	Start Date
	End   Date
}

// StatementPeriod maps a transaction date to the billing period it belongs
// to for a card closing on closingDay.
//
// A transaction on or before the closing day belongs to the period ending on
// that day of the same month; after the closing day it rolls into the period
// ending the next month. When a month is too short for the closing day
// (e.g. 31 in February) the bound is clamped to the month's last day. The
// start is the day after the previous period's end, computed with the same
// clamping rule so consecutive periods stay contiguous.
//
// The function is pure: identical inputs always yield the identical period,
// which is what statement deduplication keys on.
func StatementPeriod(closingDay int, date Date) (Period, error) {
	if closingDay < 1 || closingDay > 31 {
		return Period{}, NewValidationError("closingDay", "must be between 1 and 31")
	}
	if err := date.Validate(); err != nil {
		return Period{}, err
	}

	year, month, day := date.Time.Date()

	endYear, endMonth := year, month
	if day > closingDay {
		endYear, endMonth = nextMonth(year, month)
	}
	end := closingDate(closingDay, endYear, endMonth)

	prevYear, prevMonth := prevMonth(endYear, endMonth)
	start := closingDate(closingDay, prevYear, prevMonth).AddDays(1)

	return Period{Start: start, End: end}, nil
}

// closingDate is the closing day within the given month, clamped to the
// month's last day.
func closingDate(closingDay, year int, month time.Month) Date {
	d := closingDay
	if last := DaysInMonth(year, month); d > last {
		d = last
	}
	return NewDate(year, int(month), d)
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
