package models

import (
	"fmt"
	"time"
)

// NoBirthdayMessage is what an unset Countdown prints.
const NoBirthdayMessage = "No birthday set"

const day = 24 * time.Hour

// Rollover decides when this year's birthday counts as already passed.
type Rollover int

const (
	// RolloverByMonth treats the birthday as upcoming only when its month is
	// strictly after the current month. A birthday later in the current month
	// is counted for next year.
	RolloverByMonth Rollover = iota
	// RolloverByDay compares full dates. A birthday today is 0 days away.
	RolloverByDay
)

// ParseRollover parses "month" or "day". The empty string means RolloverByMonth.
func ParseRollover(s string) (Rollover, error) {
	switch s {
	case "", "month":
		return RolloverByMonth, nil
	case "day":
		return RolloverByDay, nil
	default:
		return RolloverByMonth, fmt.Errorf("unknown rollover %q", s)
	}
}

func (r Rollover) String() string {
	if r == RolloverByDay {
		return "day"
	}
	return "month"
}

// Countdown is the time left until a contact's next birthday.
// Set is false when the contact has no birthday.
type Countdown struct {
	Set      bool
	Duration time.Duration
}

// Days returns the whole days left.
func (c Countdown) Days() int {
	return int(c.Duration / day)
}

func (c Countdown) String() string {
	if !c.Set {
		return NoBirthdayMessage
	}
	return fmt.Sprintf("%d days", c.Days())
}

// DaysToBirthday counts down with RolloverByMonth.
func (r *Record) DaysToBirthday(now time.Time) Countdown {
	return r.Countdown(now, RolloverByMonth)
}

// Countdown returns the time from now's calendar date to the next birthday.
func (r *Record) Countdown(now time.Time, rollover Rollover) Countdown {
	if r.birthday == nil {
		return Countdown{}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	bd := r.birthday.Time()

	next := onYear(bd, today.Year())
	upcoming := next.Month() > today.Month()
	if rollover == RolloverByDay {
		upcoming = !next.Before(today)
	}
	if !upcoming {
		next = onYear(bd, today.Year()+1)
	}
	return Countdown{Set: true, Duration: next.Sub(today)}
}

// onYear moves bd to year. Feb 29 falls back to Feb 28 outside leap years.
func onYear(bd time.Time, year int) time.Time {
	d := bd.Day()
	if bd.Month() == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, bd.Month(), d, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
