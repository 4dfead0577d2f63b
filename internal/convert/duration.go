package convert

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

var (
	// [-][d.]hh:mm[:ss[.fffffff]]
	clockPattern = regexp.MustCompile(`^(-)?(?:(\d+)\.)?(\d{1,2}):(\d{1,2})(?::(\d{1,2})(?:\.(\d{1,7}))?)?$`)
	// [-]d
	daysPattern = regexp.MustCompile(`^(-)?(\d+)$`)
)

const day = 24 * time.Hour

// Duration converts text to time.Duration.
type Duration struct{}

// Order implements Converter.
func (Duration) Order() int { return 200 }

// CanConvert implements Converter.
func (Duration) CanConvert(_ any, target reflect.Type) bool {
	base, _ := indirect(target)
	return base == durationType
}

// Convert implements Converter.
func (Duration) Convert(value any, target reflect.Type) (any, error) {
	if d, ok := value.(time.Duration); ok {
		return wrap(reflect.ValueOf(d), target), nil
	}
	s, ok := textOf(value)
	if !ok {
		return nil, newError(value, target, errUnsupportedSource)
	}
	d, err := ParseDuration(s)
	if err != nil {
		return nil, newError(value, target, err)
	}
	return wrap(reflect.ValueOf(d), target), nil
}

// ParseDuration parses the invariant clock grammar "[-][d.]hh:mm[:ss[.fffffff]]",
// a bare day count such as "3", or, failing both, Go duration syntax such as
// "1h30m".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		return clockDuration(m)
	}
	if m := daysPattern.FindStringSubmatch(s); m != nil {
		days, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || days > int64(math.MaxInt64/day) {
			return 0, fmt.Errorf("day count %q out of range", m[2])
		}
		d := time.Duration(days) * day
		if m[1] == "-" {
			d = -d
		}
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unrecognized duration %q", s)
	}
	return d, nil
}

func clockDuration(m []string) (time.Duration, error) {
	field := func(s string, max int64, name string) (int64, error) {
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		if max > 0 && n >= max {
			return 0, fmt.Errorf("%s component %d out of range", name, n)
		}
		return n, nil
	}

	days, err := field(m[2], 0, "day")
	if err != nil {
		return 0, err
	}
	if days > int64(math.MaxInt64/day)-1 {
		return 0, fmt.Errorf("day count %d out of range", days)
	}
	hours, err := field(m[3], 24, "hour")
	if err != nil {
		return 0, err
	}
	minutes, err := field(m[4], 60, "minute")
	if err != nil {
		return 0, err
	}
	seconds, err := field(m[5], 60, "second")
	if err != nil {
		return 0, err
	}

	var fraction time.Duration
	if m[6] != "" {
		// Pad to nanoseconds: "5" is half a second, "0000001" one tick.
		digits := m[6] + strings.Repeat("0", 9-len(m[6]))
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, err
		}
		fraction = time.Duration(n)
	}

	d := time.Duration(days)*day +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		fraction
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}
