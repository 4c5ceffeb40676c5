package providers

import (
	"fmt"
	"strconv"
	"strings"

	"cookiespots_backend/internal/venues"
)

// hoursFromWeekdayText parses Google's weekday_text lines
// ("Monday: 7:00 AM – 9:00 PM", "Sunday: Closed") into the canonical
// weekday map. Unparseable lines are skipped.
func hoursFromWeekdayText(lines []string) map[string]string {
	if len(lines) == 0 {
		return nil
	}

	hours := make(map[string]string, len(lines))
	for _, line := range lines {
		day, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(day))
		if !isWeekday(key) {
			continue
		}
		hours[key] = strings.TrimSpace(value)
	}

	if len(hours) == 0 {
		return nil
	}
	return hours
}

// yelpWeekdays maps Yelp's day indices (0 = Monday) to canonical keys.
var yelpWeekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

type yelpOpenSlot struct {
	Day   int    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// hoursFromYelpSlots converts Yelp's open slots ({day:0,start:"0800",end:"2100"})
// into the canonical weekday map. Days with no slot are marked Closed.
func hoursFromYelpSlots(slots []yelpOpenSlot) map[string]string {
	if len(slots) == 0 {
		return nil
	}

	hours := make(map[string]string, len(yelpWeekdays))
	for _, slot := range slots {
		if slot.Day < 0 || slot.Day >= len(yelpWeekdays) {
			continue
		}
		start := clockFromMilitary(slot.Start)
		end := clockFromMilitary(slot.End)
		if start == "" || end == "" {
			continue
		}
		day := yelpWeekdays[slot.Day]
		span := start + " - " + end
		if existing, ok := hours[day]; ok {
			// Split shifts are concatenated in slot order.
			hours[day] = existing + ", " + span
		} else {
			hours[day] = span
		}
	}

	if len(hours) == 0 {
		return nil
	}
	for _, day := range yelpWeekdays {
		if _, ok := hours[day]; !ok {
			hours[day] = "Closed"
		}
	}
	return hours
}

// facebookDayKeys maps Facebook's hour-key prefixes to canonical weekdays.
var facebookDayKeys = map[string]string{
	"mon": "monday",
	"tue": "tuesday",
	"wed": "wednesday",
	"thu": "thursday",
	"fri": "friday",
	"sat": "saturday",
	"sun": "sunday",
}

// hoursFromFacebookMap converts Facebook's flat hour map
// ({"mon_1_open":"09:00","mon_1_close":"17:00"}) into the canonical map.
func hoursFromFacebookMap(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	type span struct{ open, close string }
	spans := make(map[string]span)

	for key, value := range raw {
		parts := strings.Split(key, "_")
		if len(parts) != 3 {
			continue
		}
		day, ok := facebookDayKeys[parts[0]]
		if !ok {
			continue
		}
		entry := spans[day]
		switch parts[2] {
		case "open":
			entry.open = value
		case "close":
			entry.close = value
		}
		spans[day] = entry
	}

	hours := make(map[string]string, len(spans))
	for day, entry := range spans {
		if entry.open == "" || entry.close == "" {
			continue
		}
		hours[day] = entry.open + " - " + entry.close
	}

	if len(hours) == 0 {
		return nil
	}
	return hours
}

// clockFromMilitary converts "0830" to "8:30 AM". Invalid input yields "".
func clockFromMilitary(value string) string {
	if len(value) != 4 {
		return ""
	}
	hour, err := strconv.Atoi(value[:2])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}
	minute := value[2:]

	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}

	return fmt.Sprintf("%d:%s %s", hour, minute, suffix)
}

// priceRangeFromDollars normalizes a $-repeated provider string ("$$",
// "$$ (10-20)") to the canonical one-to-four dollar convention.
func priceRangeFromDollars(value string) string {
	count := 0
	for _, r := range strings.TrimSpace(value) {
		if r != '$' {
			break
		}
		count++
	}
	return venues.PriceRangeFromLevel(count)
}

func isWeekday(value string) bool {
	for _, day := range venues.Weekdays {
		if day == value {
			return true
		}
	}
	return false
}
