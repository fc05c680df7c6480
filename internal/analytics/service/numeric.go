package service

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// rate is 100*numerator/denominator rounded to one decimal, or 0 when the
// denominator is zero.
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(100 * float64(numerator) / float64(denominator))
}

// average is sum/count rounded to one decimal, or 0 when count is zero.
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round1(sum / float64(count))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func fractionalDays(d time.Duration) float64 {
	return d.Hours() / 24
}

func wholeDays(d time.Duration) int {
	return int(d / day)
}

// civilDate truncates t to midnight UTC of its calendar date in loc, so
// dates from different zones compare by calendar day.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
