package launchd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

// CalendarField names one component of a StartCalendarInterval entry.
type CalendarField string

const (
	FieldMinute  CalendarField = "Minute"
	FieldHour    CalendarField = "Hour"
	FieldDay     CalendarField = "Day"
	FieldWeekday CalendarField = "Weekday"
	FieldMonth   CalendarField = "Month"
)

// CalendarEntry is one disjunct of a time-based trigger. launchd fires a job
// when every populated field of any single entry matches the wall clock.
type CalendarEntry map[CalendarField]int

type fieldDomain struct {
	low, high int
}

// Weekday accepts both 0 and 7 for Sunday, as launchd itself does.
var fieldDomains = map[CalendarField]fieldDomain{
	FieldMinute:  {0, 59},
	FieldHour:    {0, 23},
	FieldDay:     {1, 31},
	FieldWeekday: {0, 7},
	FieldMonth:   {1, 12},
}

// ValidateField checks a single calendar field value against its domain.
func ValidateField(field CalendarField, value int) error {
	dom, ok := fieldDomains[field]
	if !ok {
		return errors.New(errors.CategoryRange, "unknown calendar field").
			WithContext("field", string(field))
	}
	if value < dom.low || value > dom.high {
		return errors.OutOfRange(string(field), value, dom.low, dom.high)
	}
	return nil
}

// cronField holds one parsed field of a cron expression.
type cronField struct {
	values   []int
	wildcard bool
}

// cron fields in expression order: minute hour day-of-month month day-of-week.
var cronFieldOrder = []CalendarField{FieldMinute, FieldHour, FieldDay, FieldMonth, FieldWeekday}

// ExpandCron converts a 5-field cron expression into the equivalent list of
// calendar entries.
//
// When day-of-month, month and day-of-week are all wildcards, only the
// {minute}x{hour} cross product is emitted, keeping the common case compact.
// Otherwise every (minute, hour, month) combination is crossed with either the
// day-of-month values (weekday wildcarded) or the weekday values; the two day
// fields are never combined in one entry, mirroring launchd's OR semantics
// between them.
func ExpandCron(expr string) ([]CalendarEntry, error) {
	parts := strings.Fields(expr)
	if len(parts) != len(cronFieldOrder) {
		return nil, errors.InvalidExpression(expr,
			fmt.Sprintf("expected 5 fields, got %d", len(parts)))
	}

	fields := make(map[CalendarField]cronField, len(cronFieldOrder))
	for i, name := range cronFieldOrder {
		f, err := parseCronField(expr, name, parts[i])
		if err != nil {
			return nil, err
		}
		fields[name] = f
	}

	minutes := fields[FieldMinute]
	hours := fields[FieldHour]
	days := fields[FieldDay]
	months := fields[FieldMonth]
	weekdays := fields[FieldWeekday]

	var entries []CalendarEntry
	if days.wildcard && months.wildcard && weekdays.wildcard {
		for _, h := range hours.values {
			for _, m := range minutes.values {
				entries = append(entries, CalendarEntry{FieldMinute: m, FieldHour: h})
			}
		}
		return entries, nil
	}

	dayField, dayValues := FieldDay, days.values
	if !weekdays.wildcard {
		dayField, dayValues = FieldWeekday, weekdays.values
	}
	for _, mo := range months.values {
		for _, d := range dayValues {
			for _, h := range hours.values {
				for _, m := range minutes.values {
					entries = append(entries, CalendarEntry{
						FieldMinute: m,
						FieldHour:   h,
						dayField:    d,
						FieldMonth:  mo,
					})
				}
			}
		}
	}
	return entries, nil
}

// parseCronField expands one field into a sorted set of in-domain integers.
// Accepted forms per comma-separated element: "*", "N", "A-B", "*/S", "A/S",
// "A-B/S".
func parseCronField(expr string, name CalendarField, field string) (cronField, error) {
	dom := fieldDomains[name]
	if field == "*" {
		return cronField{values: domainValues(dom), wildcard: true}, nil
	}

	seen := make(map[int]struct{})
	for _, elem := range strings.Split(field, ",") {
		vals, err := parseCronElement(expr, name, elem, dom)
		if err != nil {
			return cronField{}, err
		}
		for _, v := range vals {
			seen[v] = struct{}{}
		}
	}
	values := make([]int, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Ints(values)
	return cronField{values: values}, nil
}

func parseCronElement(expr string, name CalendarField, elem string, dom fieldDomain) ([]int, error) {
	base := elem
	step := 0
	if idx := strings.IndexByte(elem, '/'); idx >= 0 {
		base = elem[:idx]
		n, err := strconv.Atoi(elem[idx+1:])
		if err != nil {
			return nil, errors.InvalidExpression(expr,
				fmt.Sprintf("%s: malformed step %q", name, elem))
		}
		if n <= 0 {
			return nil, errors.InvalidExpression(expr,
				fmt.Sprintf("%s: step must be positive, got %d", name, n))
		}
		step = n
	}

	low, high := dom.low, dom.high
	switch {
	case base == "*":
		// full domain
	case strings.Contains(base, "-"):
		lo, hi, ok := splitRange(base)
		if !ok {
			return nil, errors.InvalidExpression(expr,
				fmt.Sprintf("%s: malformed range %q", name, base))
		}
		if err := checkCronValue(expr, name, lo, dom); err != nil {
			return nil, err
		}
		if err := checkCronValue(expr, name, hi, dom); err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, errors.InvalidExpression(expr,
				fmt.Sprintf("%s: descending range %q", name, base))
		}
		low, high = lo, hi
	default:
		v, err := strconv.Atoi(base)
		if err != nil {
			return nil, errors.InvalidExpression(expr,
				fmt.Sprintf("%s: malformed value %q", name, base))
		}
		if err := checkCronValue(expr, name, v, dom); err != nil {
			return nil, err
		}
		if step == 0 {
			return []int{v}, nil
		}
		// "A/S" steps from A to the top of the domain.
		low, high = v, dom.high
	}

	var out []int
	for v := low; v <= high; v++ {
		if step > 0 && (v-dom.low)%step != 0 {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func splitRange(s string) (int, int, bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(lo)
	b, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

func checkCronValue(expr string, name CalendarField, v int, dom fieldDomain) error {
	if v < dom.low || v > dom.high {
		return errors.InvalidExpression(expr,
			fmt.Sprintf("%s value %d outside %d-%d", name, v, dom.low, dom.high))
	}
	return nil
}

func domainValues(dom fieldDomain) []int {
	out := make([]int, 0, dom.high-dom.low+1)
	for v := dom.low; v <= dom.high; v++ {
		out = append(out, v)
	}
	return out
}
