package business

import (
	"fmt"
	"strconv"
	"time"
)

// IsOpenAt reports whether any schedule in s covers instant t, evaluated in the
// venue's timezone (or fallback when the venue has none). Records without hours
// are reported closed.
func (s *Source) IsOpenAt(t time.Time, fallback *time.Location) (bool, error) {
	if s == nil || len(s.Hours) == 0 {
		return false, nil
	}

	loc := fallback
	if s.Location.Timezone != "" {
		l, err := time.LoadLocation(s.Location.Timezone)
		if err != nil {
			return false, fmt.Errorf("load timezone %q: %w", s.Location.Timezone, err)
		}
		loc = l
	}
	if loc == nil {
		loc = time.UTC
	}

	local := t.In(loc)
	today := mondayIndex(local.Weekday())
	yesterday := (today + 6) % 7
	now := local.Hour()*60 + local.Minute()

	for _, h := range s.Hours {
		for _, iv := range h.Open {
			start, err := parseHHMM(iv.Start)
			if err != nil {
				return false, err
			}
			end, err := parseHHMM(iv.End)
			if err != nil {
				return false, err
			}

			if end > start {
				if iv.Day == today && now >= start && now < end {
					return true, nil
				}
				continue
			}
			// Overnight window wraps past midnight into the next day.
			if iv.Day == today && now >= start {
				return true, nil
			}
			if iv.Day == yesterday && now < end {
				return true, nil
			}
		}
	}
	return false, nil
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// parseHHMM converts "HHMM" to minutes after midnight.
func parseHHMM(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("invalid time %q: want HHMM", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	h, m := n/100, n%100
	if h > 24 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}
