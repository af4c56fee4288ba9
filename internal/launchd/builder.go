package launchd

// ScheduleBuilder is a fluent front end over Schedule for the common trigger
// combinations. The first error stops the chain; Build reports it.
type ScheduleBuilder struct {
	sched *Schedule
	err   error
}

// NewScheduleBuilder starts a builder over an empty schedule.
func NewScheduleBuilder() *ScheduleBuilder {
	return &ScheduleBuilder{sched: NewSchedule()}
}

func (b *ScheduleBuilder) apply(fn func(*Schedule) error) *ScheduleBuilder {
	if b.err == nil {
		b.err = fn(b.sched)
	}
	return b
}

// Cron appends the expansion of a cron expression.
func (b *ScheduleBuilder) Cron(expr string) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { return s.AddCron(expr) })
}

// At appends a fixed (hour, minute) trigger.
func (b *ScheduleBuilder) At(hour, minute int) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { return s.AddFixedTime(hour, minute) })
}

// Suppress appends a suppression window ("HH:MM-HH:MM").
func (b *ScheduleBuilder) Suppress(window string) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { return s.AddSuppressionWindow(window) })
}

// Every sets the StartInterval in seconds.
func (b *ScheduleBuilder) Every(seconds int) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { return s.Time.SetStartInterval(seconds) })
}

// Watch adds a WatchPaths entry.
func (b *ScheduleBuilder) Watch(path string) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { s.AddWatchPath(path); return nil })
}

// Queue adds a QueueDirectories entry.
func (b *ScheduleBuilder) Queue(path string) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { s.AddQueueDirectory(path); return nil })
}

// OnMount enables StartOnMount.
func (b *ScheduleBuilder) OnMount() *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { s.FS.EnableStartOnMount(); return nil })
}

// KeepAlive sets the plain boolean keep-alive flag.
func (b *ScheduleBuilder) KeepAlive() *ScheduleBuilder {
	return b.apply(func(s *Schedule) error {
		s.Behavior.KeepAlive.Flag = Bool(true)
		return nil
	})
}

// RunAtLoad sets the RunAtLoad flag.
func (b *ScheduleBuilder) RunAtLoad() *ScheduleBuilder {
	return b.apply(func(s *Schedule) error {
		s.Behavior.RunAtLoad = Bool(true)
		return nil
	})
}

// Socket adds a validated socket descriptor.
func (b *ScheduleBuilder) Socket(name string, cfg SocketConfig) *ScheduleBuilder {
	return b.apply(func(s *Schedule) error { return s.AddSocket(name, cfg) })
}

// Build returns the accumulated schedule, or the first error hit while
// chaining.
func (b *ScheduleBuilder) Build() (*Schedule, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.sched, nil
}
