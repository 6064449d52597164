package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timezone is a UTC offset, stored as minutes east of UTC.
type Timezone struct {
	OffsetMinutes int
}

var (
	wholeHoursPattern   = regexp.MustCompile(`^[0-9]+$`)
	hoursMinutesPattern = regexp.MustCompile(`^([0-9]+):([0-5][0-9])$`)
	decimalPattern      = regexp.MustCompile(`^([0-9]+)\.([0-9]+)$`)
)

// ParseTimezone parses a user-supplied UTC offset. Accepted forms include
// "UTC", "GMT", "UTC+5", "GMT-4", "-4", "+5:30", "4.5". Offsets beyond
// +/-24 hours and minute parts that are not a multiple of 15 are rejected.
func ParseTimezone(argument string) (Timezone, error) {
	arg := strings.ToUpper(strings.TrimSpace(argument))
	if arg == "UTC" || arg == "GMT" {
		return Timezone{}, nil
	}
	arg = strings.TrimPrefix(arg, "UTC")
	arg = strings.TrimPrefix(arg, "GMT")
	arg = strings.TrimPrefix(arg, "+")
	negative := strings.HasPrefix(arg, "-")
	arg = strings.TrimPrefix(arg, "-")

	var hours, minutes int
	switch {
	case wholeHoursPattern.MatchString(arg):
		hours, _ = strconv.Atoi(arg)
	case hoursMinutesPattern.MatchString(arg):
		m := hoursMinutesPattern.FindStringSubmatch(arg)
		hours, _ = strconv.Atoi(m[1])
		minutes, _ = strconv.Atoi(m[2])
	case decimalPattern.MatchString(arg):
		m := decimalPattern.FindStringSubmatch(arg)
		hours, _ = strconv.Atoi(m[1])
		frac, _ := strconv.ParseFloat("0."+m[2], 64)
		minutes = int(frac*60 + 0.5)
	default:
		return Timezone{}, fmt.Errorf("unrecognised timezone format %q", argument)
	}

	if hours > 24 {
		return Timezone{}, fmt.Errorf("offset more than UTC+24")
	}
	if minutes%15 != 0 {
		return Timezone{}, fmt.Errorf("offset minute part must be a multiple of 15 minutes")
	}
	total := hours*60 + minutes
	if negative {
		total = -total
	}
	return Timezone{OffsetMinutes: total}, nil
}

// String renders the offset as "UTC-4" or "UTC+5:30".
func (tz Timezone) String() string {
	minutes := tz.OffsetMinutes
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("UTC%s%d", sign, minutes/60)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, minutes/60, minutes%60)
}

// Offset returns the offset as a duration, for comparisons.
func (tz Timezone) Offset() time.Duration {
	return time.Duration(tz.OffsetMinutes) * time.Minute
}
