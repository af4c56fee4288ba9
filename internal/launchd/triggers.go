package launchd

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/launchman/internal/errors"
	"git.home.luguber.info/inful/launchman/internal/util/sets"
)

const minutesPerDay = 24 * 60

// TimeTriggers owns the calendar entries and start interval of one schedule.
// The zero value is ready to use.
type TimeTriggers struct {
	entries       []CalendarEntry
	startInterval int
}

// AddCalendarEntry validates every populated field of entry against its
// domain and appends it. The entry is copied; later mutation of the argument
// does not affect the trigger.
func (t *TimeTriggers) AddCalendarEntry(entry CalendarEntry) error {
	for field, value := range entry {
		if err := ValidateField(field, value); err != nil {
			return err
		}
	}
	cp := make(CalendarEntry, len(entry))
	for field, value := range entry {
		cp[field] = value
	}
	t.entries = append(t.entries, cp)
	return nil
}

// AddFixedTime appends a single {Hour, Minute} entry.
func (t *TimeTriggers) AddFixedTime(hour, minute int) error {
	if err := ValidateField(FieldHour, hour); err != nil {
		return err
	}
	if err := ValidateField(FieldMinute, minute); err != nil {
		return err
	}
	return t.AddCalendarEntry(CalendarEntry{FieldHour: hour, FieldMinute: minute})
}

// AddFixedTimes appends one entry per (hour, minute) pair.
func (t *TimeTriggers) AddFixedTimes(pairs [][2]int) error {
	for _, p := range pairs {
		if err := t.AddFixedTime(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}

// AddCron expands a 5-field cron expression and appends the resulting entries.
func (t *TimeTriggers) AddCron(expr string) error {
	entries, err := ExpandCron(expr)
	if err != nil {
		return err
	}
	t.entries = append(t.entries, entries...)
	return nil
}

// AddSuppressionWindow appends one {Hour, Minute} entry for every minute of
// day covered by spec ("HH:MM-HH:MM"). A window whose end lies before its
// start wraps past midnight: "23:55-00:05" covers 23:55..23:59 and
// 00:00..00:05. Each entry carries both fields so the window stays
// unambiguous across hour boundaries.
func (t *TimeTriggers) AddSuppressionWindow(spec string) error {
	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return errors.InvalidTimeWindow(spec)
	}
	startH, startM, err := ParseClock(startStr)
	if err != nil {
		return err
	}
	endH, endM, err := ParseClock(endStr)
	if err != nil {
		return err
	}

	start := startH*60 + startM
	end := endH*60 + endM
	for m := start; ; m = (m + 1) % minutesPerDay {
		if err := t.AddFixedTime(m/60, m%60); err != nil {
			return err
		}
		if m == end {
			break
		}
	}
	return nil
}

// SetStartInterval sets the StartInterval trigger. Seconds must be positive.
func (t *TimeTriggers) SetStartInterval(seconds int) error {
	if seconds <= 0 {
		return errors.NotPositive("StartInterval", seconds)
	}
	t.startInterval = seconds
	return nil
}

// Entries returns a snapshot of the accumulated calendar entries.
func (t *TimeTriggers) Entries() []CalendarEntry {
	out := make([]CalendarEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fragment serializes the time triggers, omitting unset keys entirely.
func (t *TimeTriggers) Fragment() map[string]any {
	out := map[string]any{}
	if len(t.entries) > 0 {
		out["StartCalendarInterval"] = t.Entries()
	}
	if t.startInterval > 0 {
		out["StartInterval"] = t.startInterval
	}
	return out
}

// ParseClock parses "HH:MM" into an (hour, minute) pair.
func ParseClock(s string) (int, int, error) {
	hourStr, minStr, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, errors.InvalidTimeWindow(s)
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, 0, errors.InvalidTimeWindow(s)
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return 0, 0, errors.InvalidTimeWindow(s)
	}
	if err := ValidateField(FieldHour, hour); err != nil {
		return 0, 0, err
	}
	if err := ValidateField(FieldMinute, minute); err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// FilesystemTriggers collects watch paths, queue directories and the
// start-on-mount flag. Paths are deduplicated and serialized sorted.
// The zero value is ready to use.
type FilesystemTriggers struct {
	watchPaths   sets.Set[string]
	queueDirs    sets.Set[string]
	startOnMount bool
}

// AddWatchPath records a path for the WatchPaths trigger.
func (f *FilesystemTriggers) AddWatchPath(path string) {
	if f.watchPaths == nil {
		f.watchPaths = sets.New[string]()
	}
	f.watchPaths.Add(path)
}

// AddQueueDirectory records a directory for the QueueDirectories trigger.
func (f *FilesystemTriggers) AddQueueDirectory(path string) {
	if f.queueDirs == nil {
		f.queueDirs = sets.New[string]()
	}
	f.queueDirs.Add(path)
}

// EnableStartOnMount sets the StartOnMount flag.
func (f *FilesystemTriggers) EnableStartOnMount() {
	f.startOnMount = true
}

// HasWatchPath reports whether path has been recorded.
func (f *FilesystemTriggers) HasWatchPath(path string) bool {
	return f.watchPaths.Has(path)
}

// HasQueueDirectory reports whether path has been recorded.
func (f *FilesystemTriggers) HasQueueDirectory(path string) bool {
	return f.queueDirs.Has(path)
}

// Fragment serializes the filesystem triggers, omitting empty collections and
// the unset flag.
func (f *FilesystemTriggers) Fragment() map[string]any {
	out := map[string]any{}
	if len(f.watchPaths) > 0 {
		out["WatchPaths"] = sets.Sorted(f.watchPaths)
	}
	if len(f.queueDirs) > 0 {
		out["QueueDirectories"] = sets.Sorted(f.queueDirs)
	}
	if f.startOnMount {
		out["StartOnMount"] = true
	}
	return out
}
