package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"buschat/internal/domain/models"
)

// tripIDMarker is the field name that identifies an offer element. Its
// presence is what separates "a list of buses" from any other array.
const tripIDMarker = "tripID"

// hasTripID reports whether an element looks like an offer: an object whose
// trip identifier is present as a number or a numeric string.
func hasTripID(el any) bool {
	return tripIDOf(el) != 0
}

func tripIDOf(el any) int64 {
	obj, ok := el.(map[string]any)
	if !ok {
		return 0
	}
	v, ok := obj[tripIDMarker]
	if !ok {
		v, ok = obj["tripId"]
	}
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extractBalanced returns the first balanced {...} or [...] substring,
// honoring JSON string literals and escapes. Used when a reply embeds JSON
// inside prose or truncation garbage.
func extractBalanced(s string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Last-resort field patterns. Only these six fields are recoverable from a
// mangled reply; everything else on the salvaged offer stays empty.
var (
	salvageTripID      = regexp.MustCompile(`"trip[iI][dD]"\s*:\s*"?(\d+)`)
	salvageOrigin      = regexp.MustCompile(`"origin"\s*:\s*"([^"]*)"`)
	salvageDestination = regexp.MustCompile(`"destination"\s*:\s*"([^"]*)"`)
	salvageRating      = regexp.MustCompile(`"rating"\s*:\s*"?([0-9]+(?:\.[0-9]+)?)`)
	salvageDuration    = regexp.MustCompile(`"duration"\s*:\s*"([^"]*)"`)
	salvageStartTime   = regexp.MustCompile(`"startTime"\s*:\s*"([^"]*)"`)
	salvageEndTime     = regexp.MustCompile(`"endTime"\s*:\s*"([^"]*)"`)
)

// salvageOffer synthesizes one minimal offer from a string that still shows
// the trip-id marker after every parse attempt failed.
func salvageOffer(s string) (models.BusOffer, bool) {
	var offer models.BusOffer

	m := salvageTripID.FindStringSubmatch(s)
	if m == nil {
		return offer, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id == 0 {
		return offer, false
	}
	offer.TripID = id

	if m := salvageOrigin.FindStringSubmatch(s); m != nil {
		offer.Origin = m[1]
	}
	if m := salvageDestination.FindStringSubmatch(s); m != nil {
		offer.Destination = m[1]
	}
	if m := salvageRating.FindStringSubmatch(s); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			offer.Rating = f
		}
	}
	if m := salvageDuration.FindStringSubmatch(s); m != nil {
		offer.Duration = m[1]
	}
	if m := salvageStartTime.FindStringSubmatch(s); m != nil {
		offer.StartTime = m[1]
	}
	if m := salvageEndTime.FindStringSubmatch(s); m != nil {
		offer.EndTime = m[1]
	}
	return offer, true
}
