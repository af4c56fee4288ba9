package launchd

// Schedule aggregates the four trigger/behavior components of one service.
// Each component is owned exclusively by its schedule; the zero value is
// ready to use.
type Schedule struct {
	Time     TimeTriggers
	FS       FilesystemTriggers
	Events   EventTriggers
	Behavior LaunchBehavior
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// AddCron forwards to the time triggers.
func (s *Schedule) AddCron(expr string) error {
	return s.Time.AddCron(expr)
}

// AddFixedTime forwards to the time triggers.
func (s *Schedule) AddFixedTime(hour, minute int) error {
	return s.Time.AddFixedTime(hour, minute)
}

// AddSuppressionWindow forwards to the time triggers.
func (s *Schedule) AddSuppressionWindow(spec string) error {
	return s.Time.AddSuppressionWindow(spec)
}

// AddWatchPath forwards to the filesystem triggers.
func (s *Schedule) AddWatchPath(path string) {
	s.FS.AddWatchPath(path)
}

// AddQueueDirectory forwards to the filesystem triggers.
func (s *Schedule) AddQueueDirectory(path string) {
	s.FS.AddQueueDirectory(path)
}

// AddLaunchEvent forwards to the event triggers.
func (s *Schedule) AddLaunchEvent(subsystem, eventName string, descriptor any) error {
	return s.Events.AddLaunchEvent(subsystem, eventName, descriptor)
}

// AddSocket forwards to the event triggers.
func (s *Schedule) AddSocket(name string, cfg SocketConfig) error {
	return s.Events.AddSocket(name, cfg)
}

// AddMachService forwards to the event triggers.
func (s *Schedule) AddMachService(name string, resetAtClose, hideUntilCheckin bool) {
	s.Events.AddMachService(name, resetAtClose, hideUntilCheckin)
}

// SetExitTimeout forwards to the behavior settings.
func (s *Schedule) SetExitTimeout(seconds int) error {
	return s.Behavior.SetExitTimeout(seconds)
}

// SetThrottleInterval forwards to the behavior settings.
func (s *Schedule) SetThrottleInterval(seconds int) error {
	return s.Behavior.SetThrottleInterval(seconds)
}

// Fragment merges the four component fragments into one flat mapping.
// Merge order is time, filesystem, events, behavior; should a key ever appear
// in two components the last-merged one wins. No current component shares a
// key with another.
func (s *Schedule) Fragment() (map[string]any, error) {
	out := map[string]any{}
	for k, v := range s.Time.Fragment() {
		out[k] = v
	}
	for k, v := range s.FS.Fragment() {
		out[k] = v
	}
	events, err := s.Events.Fragment()
	if err != nil {
		return nil, err
	}
	for k, v := range events {
		out[k] = v
	}
	for k, v := range s.Behavior.Fragment() {
		out[k] = v
	}
	return out, nil
}
