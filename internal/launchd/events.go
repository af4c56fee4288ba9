package launchd

import (
	"sort"

	"git.home.luguber.info/inful/launchman/internal/errors"
	"git.home.luguber.info/inful/launchman/internal/util/sets"
)

// allowedSocketKeys is the closed set of attribute keys launchd accepts inside
// a Sockets entry. Checked at serialization time, not insertion time, so
// descriptors populated through SetRawSocket are caught as well.
var allowedSocketKeys = sets.New(
	"SockType",
	"SockPassive",
	"SockNodeName",
	"SockServiceName",
	"SockFamily",
	"SockProtocol",
	"SockPathName",
	"SecureSocketWithKey",
	"SockPathOwner",
	"SockPathGroup",
	"SockPathMode",
	"Bonjour",
	"MulticastGroup",
)

// EventTriggers collects launch events, socket descriptors and mach services.
// The zero value is ready to use.
type EventTriggers struct {
	launchEvents map[string]map[string]map[string]any
	sockets      map[string]map[string]any
	machServices map[string]any
}

// AddLaunchEvent stores a descriptor under subsystem/eventName, overwriting
// any prior entry for the same pair. The descriptor must be a mapping; its
// contents are not validated further.
func (e *EventTriggers) AddLaunchEvent(subsystem, eventName string, descriptor any) error {
	m, ok := descriptor.(map[string]any)
	if !ok {
		return errors.DescriptorType(subsystem, eventName)
	}
	if e.launchEvents == nil {
		e.launchEvents = map[string]map[string]map[string]any{}
	}
	if e.launchEvents[subsystem] == nil {
		e.launchEvents[subsystem] = map[string]map[string]any{}
	}
	e.launchEvents[subsystem][eventName] = m
	return nil
}

// AddSocket validates cfg and stores its attribute map under name,
// overwriting any prior entry. Validation failures leave the container
// untouched.
func (e *EventTriggers) AddSocket(name string, cfg SocketConfig) error {
	attrs, err := cfg.Attrs()
	if err != nil {
		return err
	}
	e.SetRawSocket(name, attrs)
	return nil
}

// SetRawSocket stores an attribute map verbatim, bypassing SocketConfig
// validation. The allow-list check still applies at serialization time; this
// is the supported way to exercise that path.
func (e *EventTriggers) SetRawSocket(name string, attrs map[string]any) {
	if e.sockets == nil {
		e.sockets = map[string]map[string]any{}
	}
	e.sockets[name] = attrs
}

// AddMachService registers a mach service. With both flags false the value is
// plain true; otherwise a map holding only the enabled flags.
func (e *EventTriggers) AddMachService(name string, resetAtClose, hideUntilCheckin bool) {
	if e.machServices == nil {
		e.machServices = map[string]any{}
	}
	if !resetAtClose && !hideUntilCheckin {
		e.machServices[name] = true
		return
	}
	cfg := map[string]any{}
	if resetAtClose {
		cfg["ResetAtClose"] = true
	}
	if hideUntilCheckin {
		cfg["HideUntilCheckIn"] = true
	}
	e.machServices[name] = cfg
}

// Fragment serializes the event triggers, omitting empty collections. Every
// stored socket map is checked against the attribute allow-list; unrecognized
// keys fail the whole serialization.
func (e *EventTriggers) Fragment() (map[string]any, error) {
	out := map[string]any{}
	if len(e.launchEvents) > 0 {
		out["LaunchEvents"] = e.launchEvents
	}
	if len(e.sockets) > 0 {
		names := make([]string, 0, len(e.sockets))
		for name := range e.sockets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			var bad []string
			for key := range e.sockets[name] {
				if !allowedSocketKeys.Has(key) {
					bad = append(bad, key)
				}
			}
			if len(bad) > 0 {
				sort.Strings(bad)
				return nil, errors.InvalidSocketKeys(name, bad)
			}
		}
		out["Sockets"] = e.sockets
	}
	if len(e.machServices) > 0 {
		out["MachServices"] = e.machServices
	}
	return out, nil
}
