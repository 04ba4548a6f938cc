package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Departure time periods. Workdays have no high period; the set of periods
// in effect depends on the calendar classification.
const (
	PeriodHigh   = "high"
	PeriodNormal = "normal"
	PeriodLow    = "low"
)

// Booking lead-time buckets.
const (
	Advance1to3   = "1-3"
	Advance4to9   = "4-9"
	Advance10Plus = "10+"
)

// DefaultK is the no-markup category tier applied when a train cannot be
// classified.
const DefaultK = 3

// Fare adjustment tables: K tier -> date type -> time period -> lead bucket
// -> rate. K1 trains carry a 55% base markup, K2 25%, K3 run at base price;
// the rates below already fold that in.
var discountTables = map[int]map[string]map[string]map[string]float64{
	1: {
		DateWorkday: {
			PeriodNormal: {Advance1to3: 1.13, Advance4to9: 1.07, Advance10Plus: 1.01},
			PeriodLow:    {Advance1to3: 1.06, Advance4to9: 1.01, Advance10Plus: 0.95},
		},
		DateWeekend: {
			PeriodHigh:   {Advance1to3: 1.26, Advance4to9: 1.19, Advance10Plus: 1.13},
			PeriodNormal: {Advance1to3: 1.19, Advance4to9: 1.13, Advance10Plus: 1.07},
			PeriodLow:    {Advance1to3: 1.13, Advance4to9: 1.07, Advance10Plus: 1.01},
		},
		DateHoliday: {
			PeriodHigh:   {Advance1to3: 1.33, Advance4to9: 1.26, Advance10Plus: 1.19},
			PeriodNormal: {Advance1to3: 1.26, Advance4to9: 1.19, Advance10Plus: 1.13},
			PeriodLow:    {Advance1to3: 1.19, Advance4to9: 1.13, Advance10Plus: 1.06},
		},
	},
	2: {
		DateWorkday: {
			PeriodNormal: {Advance1to3: 0.91, Advance4to9: 0.86, Advance10Plus: 0.81},
			PeriodLow:    {Advance1to3: 0.86, Advance4to9: 0.81, Advance10Plus: 0.77},
		},
		DateWeekend: {
			PeriodHigh:   {Advance1to3: 1.02, Advance4to9: 0.96, Advance10Plus: 0.91},
			PeriodNormal: {Advance1to3: 0.96, Advance4to9: 0.91, Advance10Plus: 0.86},
			PeriodLow:    {Advance1to3: 0.91, Advance4to9: 0.86, Advance10Plus: 0.81},
		},
		DateHoliday: {
			PeriodHigh:   {Advance1to3: 1.07, Advance4to9: 1.02, Advance10Plus: 0.96},
			PeriodNormal: {Advance1to3: 1.02, Advance4to9: 0.96, Advance10Plus: 0.91},
			PeriodLow:    {Advance1to3: 0.96, Advance4to9: 0.91, Advance10Plus: 0.86},
		},
	},
	3: {
		DateWorkday: {
			PeriodNormal: {Advance1to3: 0.73, Advance4to9: 0.69, Advance10Plus: 0.65},
			PeriodLow:    {Advance1to3: 0.69, Advance4to9: 0.65, Advance10Plus: 0.61},
		},
		DateWeekend: {
			PeriodHigh:   {Advance1to3: 0.81, Advance4to9: 0.77, Advance10Plus: 0.73},
			PeriodNormal: {Advance1to3: 0.77, Advance4to9: 0.73, Advance10Plus: 0.69},
			PeriodLow:    {Advance1to3: 0.73, Advance4to9: 0.69, Advance10Plus: 0.65},
		},
		DateHoliday: {
			PeriodHigh:   {Advance1to3: 0.86, Advance4to9: 0.81, Advance10Plus: 0.77},
			PeriodNormal: {Advance1to3: 0.81, Advance4to9: 0.77, Advance10Plus: 0.73},
			PeriodLow:    {Advance1to3: 0.77, Advance4to9: 0.73, Advance10Plus: 0.69},
		},
	},
}

// PricingContext carries the per-query parameters of one rate resolution.
type PricingContext struct {
	DateType      string
	DepartureTime string // HH:MM
	AdvanceDays   int
	KValue        int
}

// DiscountResult is the outcome of one rate resolution.
type DiscountResult struct {
	OriginalPrice float64 `json:"originalPrice"`
	FinalPrice    float64 `json:"finalPrice"`
	Rate          float64 `json:"discountRate"`
	Info          string  `json:"discountInfo"`
	TimePeriod    string  `json:"timePeriod"`
	AdvanceKey    string  `json:"advanceKey"`
}

// TimePeriod maps a departure time to its period under the given calendar
// classification. Minutes not covered by a defined range fall back to the
// normal period.
func TimePeriod(departureTime, dateType string) string {
	m := TimeToMinutes(departureTime)

	switch dateType {
	case DateWorkday:
		// normal 6:00-6:59, low 7:00-20:59
		switch {
		case m >= 6*60 && m < 7*60:
			return PeriodNormal
		case m >= 7*60 && m < 21*60:
			return PeriodLow
		}
	case DateWeekend:
		// high 6:00-6:59, 14:00-14:59
		// normal 7:00-7:59, 9:00-11:59
		// low 8:00-8:59, 12:00-13:59, 15:00-20:59
		switch {
		case (m >= 6*60 && m < 7*60) || (m >= 14*60 && m < 15*60):
			return PeriodHigh
		case (m >= 7*60 && m < 8*60) || (m >= 9*60 && m < 12*60):
			return PeriodNormal
		case (m >= 8*60 && m < 9*60) || (m >= 12*60 && m < 14*60) || (m >= 15*60 && m < 21*60):
			return PeriodLow
		}
	case DateHoliday:
		// high 6:00-6:59, 14:00-14:59
		// normal 7:00-13:59, 15:00-19:59
		// low 20:00-20:59
		switch {
		case (m >= 6*60 && m < 7*60) || (m >= 14*60 && m < 15*60):
			return PeriodHigh
		case (m >= 7*60 && m < 14*60) || (m >= 15*60 && m < 20*60):
			return PeriodNormal
		case m >= 20*60 && m < 21*60:
			return PeriodLow
		}
	}

	return PeriodNormal
}

// AdvanceDaysKey maps a booking lead time to its bucket. Zero lead days maps
// to the smallest bucket.
func AdvanceDaysKey(advanceDays int) string {
	switch {
	case advanceDays >= 10:
		return Advance10Plus
	case advanceDays >= 4:
		return Advance4to9
	default:
		return Advance1to3
	}
}

// DiscountRate looks up the rate for one axis combination. Any absent key
// yields 1.0: a configuration miss is never an error.
func DiscountRate(kValue int, dateType, timePeriod, advanceKey string) float64 {
	table, ok := discountTables[kValue]
	if !ok {
		return 1.0
	}
	periods, ok := table[dateType]
	if !ok {
		return 1.0
	}
	buckets, ok := periods[timePeriod]
	if !ok {
		return 1.0
	}
	rate, ok := buckets[advanceKey]
	if !ok {
		return 1.0
	}
	return rate
}

// Resolve computes the adjusted price for an original price under the given
// context. Pure: no I/O, safe for concurrent use.
func Resolve(originalPrice float64, pctx PricingContext) DiscountResult {
	period := TimePeriod(pctx.DepartureTime, pctx.DateType)
	advanceKey := AdvanceDaysKey(pctx.AdvanceDays)
	rate := DiscountRate(pctx.KValue, pctx.DateType, period, advanceKey)

	return DiscountResult{
		OriginalPrice: originalPrice,
		FinalPrice:    Round2(originalPrice * rate),
		Rate:          rate,
		Info:          DiscountLabel(rate),
		TimePeriod:    period,
		AdvanceKey:    advanceKey,
	}
}

// DiscountLabel renders a rate as user-facing wording.
func DiscountLabel(rate float64) string {
	switch {
	case rate < 1:
		return fmt.Sprintf("%d%% discount", int(math.Round((1-rate)*100)))
	case rate > 1:
		return fmt.Sprintf("%d%% markup", int(math.Round((rate-1)*100)))
	default:
		return "no discount"
	}
}

// Round2 rounds to two decimals, half up at the cent boundary.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// TimeToMinutes parses "HH:MM" into minutes of day. Malformed fields count
// as zero.
func TimeToMinutes(t string) int {
	parts := strings.SplitN(t, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(parts[1])
	}
	return h*60 + m
}

// MinutesToTime renders minutes of day as zero-padded "HH:MM".
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", (m/60)%24, m%60)
}
