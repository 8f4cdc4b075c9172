package models

import (
	"fmt"
	"time"
)

// TimeWindow is a trailing look-back period for recomputing statistics.
type TimeWindow string

const (
	Window30d TimeWindow = "30d"
	Window90d TimeWindow = "90d"
	Window1y  TimeWindow = "1y"
	Window5y  TimeWindow = "5y"
	Window10y TimeWindow = "10y"
	Window20y TimeWindow = "20y"
	WindowAll TimeWindow = "all"
)

// ParseWindow validates a window token, defaulting the empty string to all-time.
func ParseWindow(s string) (TimeWindow, error) {
	switch TimeWindow(s) {
	case Window30d, Window90d, Window1y, Window5y, Window10y, Window20y, WindowAll:
		return TimeWindow(s), nil
	case "":
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown time window %q", s)
}

// Cutoff returns the window's lower date bound relative to now. The second
// return is false for the all-time window, which has no bound.
func (w TimeWindow) Cutoff(now time.Time) (time.Time, bool) {
	switch w {
	case Window30d:
		return now.AddDate(0, 0, -30), true
	case Window90d:
		return now.AddDate(0, 0, -90), true
	case Window1y:
		return now.AddDate(-1, 0, 0), true
	case Window5y:
		return now.AddDate(-5, 0, 0), true
	case Window10y:
		return now.AddDate(-10, 0, 0), true
	case Window20y:
		return now.AddDate(-20, 0, 0), true
	}
	return time.Time{}, false
}
