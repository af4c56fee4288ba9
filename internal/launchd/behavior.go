package launchd

import (
	"git.home.luguber.info/inful/launchman/internal/errors"
)

// Bool returns a pointer to v, for populating optional boolean fields.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for populating optional integer fields.
func Int(v int) *int { return &v }

// KeepAliveConfig collects the independent keep-alive inputs and derives the
// single KeepAlive value from them.
type KeepAliveConfig struct {
	// Flag is the plain boolean form of KeepAlive.
	Flag *bool
	// Policy is the map form of KeepAlive; it takes precedence over Flag as
	// the base of the derived value.
	Policy         map[string]any
	PathState      map[string]bool
	OtherJobs      map[string]bool
	Crashed        *bool
	SuccessfulExit *bool
}

// Value derives the KeepAlive representation. The second return is false when
// the key should be omitted entirely.
//
// A bare true flag with no other inputs stays boolean true. Any other input
// promotes the value to a map: the policy map (copied) or an empty base,
// merged with PathState, OtherJobEnabled, Crashed and SuccessfulExit.
func (k KeepAliveConfig) Value() (any, bool) {
	var base map[string]any
	switch {
	case k.Policy != nil:
		base = make(map[string]any, len(k.Policy))
		for key, v := range k.Policy {
			base[key] = v
		}
	case k.Flag != nil && *k.Flag:
		base = map[string]any{}
	}

	ensure := func() {
		if base == nil {
			base = map[string]any{}
		}
	}
	if len(k.PathState) > 0 {
		ensure()
		base["PathState"] = k.PathState
	}
	if len(k.OtherJobs) > 0 {
		ensure()
		base["OtherJobEnabled"] = k.OtherJobs
	}
	if k.Crashed != nil {
		ensure()
		base["Crashed"] = *k.Crashed
	}
	if k.SuccessfulExit != nil {
		ensure()
		base["SuccessfulExit"] = *k.SuccessfulExit
	}

	if base == nil {
		return nil, false
	}
	if k.Flag != nil && *k.Flag && len(base) == 0 {
		return true, true
	}
	return base, true
}

// LaunchBehavior carries run-at-load, exit and throttle settings plus the
// keep-alive inputs. Boolean flags serialize only when explicitly set.
// The zero value is ready to use.
type LaunchBehavior struct {
	RunAtLoad           *bool
	EnablePressuredExit *bool
	EnableTransactions  *bool
	LaunchOnlyOnce      *bool
	KeepAlive           KeepAliveConfig

	exitTimeout      *int
	throttleInterval *int
}

// SetExitTimeout sets ExitTimeout. Seconds must be zero or greater; the check
// happens here, at assignment, not at serialization.
func (b *LaunchBehavior) SetExitTimeout(seconds int) error {
	if seconds < 0 {
		return errors.NotNegative("ExitTimeout", seconds)
	}
	b.exitTimeout = &seconds
	return nil
}

// SetThrottleInterval sets ThrottleInterval. Seconds must be zero or greater.
func (b *LaunchBehavior) SetThrottleInterval(seconds int) error {
	if seconds < 0 {
		return errors.NotNegative("ThrottleInterval", seconds)
	}
	b.throttleInterval = &seconds
	return nil
}

// ExitTimeout returns the configured value, or nil when unset.
func (b *LaunchBehavior) ExitTimeout() *int { return b.exitTimeout }

// ThrottleInterval returns the configured value, or nil when unset.
func (b *LaunchBehavior) ThrottleInterval() *int { return b.throttleInterval }

// Fragment serializes the behavior settings, omitting every unset field.
func (b *LaunchBehavior) Fragment() map[string]any {
	out := map[string]any{}
	if b.RunAtLoad != nil {
		out["RunAtLoad"] = *b.RunAtLoad
	}
	if b.EnablePressuredExit != nil {
		out["EnablePressuredExit"] = *b.EnablePressuredExit
	}
	if b.EnableTransactions != nil {
		out["EnableTransactions"] = *b.EnableTransactions
	}
	if b.LaunchOnlyOnce != nil {
		out["LaunchOnlyOnce"] = *b.LaunchOnlyOnce
	}
	if b.exitTimeout != nil {
		out["ExitTimeout"] = *b.exitTimeout
	}
	if b.throttleInterval != nil {
		out["ThrottleInterval"] = *b.throttleInterval
	}
	if v, ok := b.KeepAlive.Value(); ok {
		out["KeepAlive"] = v
	}
	return out
}
