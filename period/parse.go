package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// ParseString parses a granularity-tagged period string into a Period (spec
// §6: the tension spline additionally accepts "a string parseable per the
// granularity"). Intraday timestamps are parsed as ISO-8601 via
// relvacode/iso8601 (pulled from NimbleMarkets-dbn-go, which parses
// timestamped market-data records off the wire the same way); calendar
// granularities use compact forms: "2019-01-15" (Day), "2019-01" (Month),
// "2019-Q1" (Quarter), "2019" (Year).
func ParseString(s string, g Granularity) (Period, error) {
	s = strings.TrimSpace(s)
	switch {
	case g.intraday():
		t, err := iso8601.ParseString(s)
		if err != nil {
			return Period{}, fmt.Errorf("period: ParseString: %s: %w", s, err)
		}
		return Period{Gran: g, Start: t}, nil
	case g == Day:
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Period{}, fmt.Errorf("period: ParseString: %s: %w", s, err)
		}
		return New(g, t), nil
	case g == Month:
		t, err := time.Parse("2006-01", s)
		if err != nil {
			return Period{}, fmt.Errorf("period: ParseString: %s: %w", s, err)
		}
		return New(g, t), nil
	case g == Quarter:
		return parseQuarterString(s)
	case g == Year:
		y, err := strconv.Atoi(s)
		if err != nil {
			return Period{}, fmt.Errorf("period: ParseString: %s: %w", s, err)
		}
		return New(g, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)), nil
	default:
		return Period{}, fmt.Errorf("period: ParseString: unsupported granularity %s", g)
	}
}

func parseQuarterString(s string) (Period, error) {
	parts := strings.SplitN(strings.ToUpper(s), "-Q", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("period: ParseString: %q is not YYYY-Qn", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("period: ParseString: %q is not YYYY-Qn: %w", s, err)
	}
	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return Period{}, fmt.Errorf("period: ParseString: %q has invalid quarter", s)
	}
	month := time.Month((q-1)*3 + 1)
	return New(Quarter, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)), nil
}
