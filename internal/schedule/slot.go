// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Embedded zone database so minimal containers resolve zone names.
	_ "time/tzdata"
)

// ErrInvalidTimezone is returned for an empty or unknown timezone name.
var ErrInvalidTimezone = errors.New("invalid timezone")

// BroadcastTimezone is the zone broadcast slots in the catalog are given in.
const BroadcastTimezone = "Asia/Tokyo"

// broadcastLocation is loaded once; the embedded zone database guarantees it
// resolves.
var broadcastLocation = mustLoad(BroadcastTimezone)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load %s: %v", name, err))
	}
	return loc
}

// BroadcastLocation returns the broadcaster's zone.
func BroadcastLocation() *time.Location {
	return broadcastLocation
}

// LoadLocation resolves an IANA zone name. Empty names and "Local" are
// rejected so a missing user setting never falls back to the host zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTimezone)
	}
	if name == "Local" {
		return nil, fmt.Errorf("%w: %q depends on the host", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// Slot is a weekly broadcast slot in broadcaster time.
type Slot struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseSlot parses a broadcast day ("Monday", "mondays") and a 24-hour clock
// time ("23:30"). ok is false when either part is missing or malformed.
func ParseSlot(day, clock string) (slot Slot, ok bool) {
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(day)), "s")
	wd, ok := weekdays[d]
	if !ok {
		return Slot{}, false
	}
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return Slot{}, false
	}
	return Slot{Weekday: wd, Hour: t.Hour(), Minute: t.Minute()}, true
}

// Clock formats the slot time as HH:MM.
func (s Slot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// On returns the slot's broadcast instant in the week that starts on monday,
// a midnight in broadcaster time.
func (s Slot) On(monday time.Time) time.Time {
	y, m, d := monday.Date()
	return time.Date(y, m, d+weekIndex(s.Weekday), s.Hour, s.Minute, 0, 0, broadcastLocation)
}

// Next returns the first broadcast at or after t.
func (s Slot) Next(t time.Time) time.Time {
	at := s.On(WeekStart(t))
	if at.Before(t) {
		at = at.AddDate(0, 0, 7)
	}
	return at
}

// WeekStart returns Monday 00:00 broadcaster time of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.In(broadcastLocation)
	y, m, d := t.Date()
	return time.Date(y, m, d-weekIndex(t.Weekday()), 0, 0, 0, 0, broadcastLocation)
}

// weekIndex numbers weekdays from Monday = 0.
func weekIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
