// Package schedfile loads a declarative schedule document (YAML, or JSON via
// the YAML superset) and materializes it through the validated launchd API,
// so every range and conflict check applies to file input exactly as it does
// to programmatic input.
package schedfile

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/launchman/internal/errors"
	"git.home.luguber.info/inful/launchman/internal/launchd"
)

// File is the on-disk schedule document.
type File struct {
	Time       TimeSection       `yaml:"time"`
	Filesystem FilesystemSection `yaml:"filesystem"`
	Events     EventsSection     `yaml:"events"`
	Behavior   BehaviorSection   `yaml:"behavior"`
}

// TimeSection mirrors the TimeTriggers operations.
type TimeSection struct {
	Cron          []string         `yaml:"cron"`
	At            []string         `yaml:"at"`
	Suppress      []string         `yaml:"suppress"`
	StartInterval int              `yaml:"start_interval"`
	Calendar      []map[string]int `yaml:"calendar"`
}

// FilesystemSection mirrors the FilesystemTriggers operations.
type FilesystemSection struct {
	Watch        []string `yaml:"watch"`
	Queue        []string `yaml:"queue"`
	StartOnMount bool     `yaml:"start_on_mount"`
}

// EventsSection mirrors the EventTriggers operations.
type EventsSection struct {
	LaunchEvents map[string]map[string]map[string]any `yaml:"launch_events"`
	Sockets      map[string]SocketSpec                `yaml:"sockets"`
	MachServices map[string]MachServiceSpec           `yaml:"mach_services"`
}

// SocketSpec is the file form of one socket descriptor.
type SocketSpec struct {
	Type            string `yaml:"type"`
	Passive         *bool  `yaml:"passive"`
	NodeName        string `yaml:"node_name"`
	ServiceName     any    `yaml:"service_name"`
	Family          string `yaml:"family"`
	Protocol        string `yaml:"protocol"`
	PathName        string `yaml:"path_name"`
	SecureSocketKey string `yaml:"secure_socket_key"`
	PathOwner       *int   `yaml:"path_owner"`
	PathGroup       *int   `yaml:"path_group"`
	PathMode        *int   `yaml:"path_mode"`
	Bonjour         any    `yaml:"bonjour"`
	MulticastGroup  string `yaml:"multicast_group"`
}

// MachServiceSpec is the file form of one mach service.
type MachServiceSpec struct {
	ResetAtClose     bool `yaml:"reset_at_close"`
	HideUntilCheckin bool `yaml:"hide_until_checkin"`
}

// BehaviorSection mirrors the LaunchBehavior and KeepAliveConfig inputs.
type BehaviorSection struct {
	RunAtLoad           *bool           `yaml:"run_at_load"`
	EnablePressuredExit *bool           `yaml:"enable_pressured_exit"`
	EnableTransactions  *bool           `yaml:"enable_transactions"`
	LaunchOnlyOnce      *bool           `yaml:"launch_only_once"`
	ExitTimeout         *int            `yaml:"exit_timeout"`
	ThrottleInterval    *int            `yaml:"throttle_interval"`
	KeepAlive           *KeepAliveValue `yaml:"keep_alive"`
	PathState           map[string]bool `yaml:"path_state"`
	OtherJobs           map[string]bool `yaml:"other_jobs"`
	Crashed             *bool           `yaml:"crashed"`
	SuccessfulExit      *bool           `yaml:"successful_exit"`
}

// KeepAliveValue accepts either the boolean or the map form of keep_alive.
type KeepAliveValue struct {
	Flag   *bool
	Policy map[string]any
}

// UnmarshalYAML decodes a boolean or a mapping.
func (k *KeepAliveValue) UnmarshalYAML(node *yaml.Node) error {
	var flag bool
	if err := node.Decode(&flag); err == nil {
		k.Flag = &flag
		return nil
	}
	var policy map[string]any
	if err := node.Decode(&policy); err == nil {
		k.Policy = policy
		return nil
	}
	return fmt.Errorf("keep_alive must be a boolean or a mapping")
}

// Load reads and materializes the schedule document at path.
func Load(fsys afero.Fs, path string) (*launchd.Schedule, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.ScheduleFile(path, err)
	}
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ScheduleFile(path, err)
	}
	sched, err := doc.Schedule()
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// Schedule materializes the document through the validated trigger API.
func (f *File) Schedule() (*launchd.Schedule, error) {
	sched := launchd.NewSchedule()

	for _, expr := range f.Time.Cron {
		if err := sched.AddCron(expr); err != nil {
			return nil, err
		}
	}
	for _, clock := range f.Time.At {
		hour, minute, err := launchd.ParseClock(clock)
		if err != nil {
			return nil, err
		}
		if err := sched.AddFixedTime(hour, minute); err != nil {
			return nil, err
		}
	}
	for _, window := range f.Time.Suppress {
		if err := sched.AddSuppressionWindow(window); err != nil {
			return nil, err
		}
	}
	if f.Time.StartInterval != 0 {
		if err := sched.Time.SetStartInterval(f.Time.StartInterval); err != nil {
			return nil, err
		}
	}
	for _, raw := range f.Time.Calendar {
		entry := launchd.CalendarEntry{}
		for field, value := range raw {
			entry[launchd.CalendarField(field)] = value
		}
		if err := sched.Time.AddCalendarEntry(entry); err != nil {
			return nil, err
		}
	}

	for _, path := range f.Filesystem.Watch {
		sched.AddWatchPath(path)
	}
	for _, path := range f.Filesystem.Queue {
		sched.AddQueueDirectory(path)
	}
	if f.Filesystem.StartOnMount {
		sched.FS.EnableStartOnMount()
	}

	for subsystem, eventSet := range f.Events.LaunchEvents {
		for eventName, descriptor := range eventSet {
			if err := sched.AddLaunchEvent(subsystem, eventName, descriptor); err != nil {
				return nil, err
			}
		}
	}
	for name, spec := range f.Events.Sockets {
		if err := sched.AddSocket(name, spec.Config()); err != nil {
			return nil, err
		}
	}
	for name, spec := range f.Events.MachServices {
		sched.AddMachService(name, spec.ResetAtClose, spec.HideUntilCheckin)
	}

	b := &sched.Behavior
	b.RunAtLoad = f.Behavior.RunAtLoad
	b.EnablePressuredExit = f.Behavior.EnablePressuredExit
	b.EnableTransactions = f.Behavior.EnableTransactions
	b.LaunchOnlyOnce = f.Behavior.LaunchOnlyOnce
	if f.Behavior.ExitTimeout != nil {
		if err := b.SetExitTimeout(*f.Behavior.ExitTimeout); err != nil {
			return nil, err
		}
	}
	if f.Behavior.ThrottleInterval != nil {
		if err := b.SetThrottleInterval(*f.Behavior.ThrottleInterval); err != nil {
			return nil, err
		}
	}
	if f.Behavior.KeepAlive != nil {
		b.KeepAlive.Flag = f.Behavior.KeepAlive.Flag
		b.KeepAlive.Policy = f.Behavior.KeepAlive.Policy
	}
	b.KeepAlive.PathState = f.Behavior.PathState
	b.KeepAlive.OtherJobs = f.Behavior.OtherJobs
	b.KeepAlive.Crashed = f.Behavior.Crashed
	b.KeepAlive.SuccessfulExit = f.Behavior.SuccessfulExit

	return sched, nil
}

// Config converts the file form to a SocketConfig; validation happens when
// the socket is added to the schedule.
func (s SocketSpec) Config() launchd.SocketConfig {
	return launchd.SocketConfig{
		Type:            launchd.SockType(s.Type),
		Passive:         s.Passive,
		NodeName:        s.NodeName,
		ServiceName:     s.ServiceName,
		Family:          launchd.SockFamily(s.Family),
		Protocol:        launchd.SockProtocol(s.Protocol),
		PathName:        s.PathName,
		SecureSocketKey: s.SecureSocketKey,
		PathOwner:       s.PathOwner,
		PathGroup:       s.PathGroup,
		PathMode:        s.PathMode,
		Bonjour:         s.Bonjour,
		MulticastGroup:  s.MulticastGroup,
	}
}
