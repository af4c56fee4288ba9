package launchd

import (
	"git.home.luguber.info/inful/launchman/internal/errors"
)

// SockType selects the socket type launchd creates.
type SockType string

const (
	SockTypeStream    SockType = "stream"
	SockTypeDgram     SockType = "dgram"
	SockTypeSeqPacket SockType = "seqpacket"
)

// SockFamily selects the address family.
type SockFamily string

const (
	SockFamilyIPv4   SockFamily = "IPv4"
	SockFamilyIPv6   SockFamily = "IPv6"
	SockFamilyIPv4v6 SockFamily = "IPv4v6"
	SockFamilyUnix   SockFamily = "Unix"
)

// SockProtocol selects the transport protocol.
type SockProtocol string

const (
	SockProtocolTCP SockProtocol = "TCP"
	SockProtocolUDP SockProtocol = "UDP"
)

var (
	sockTypes     = []string{string(SockTypeStream), string(SockTypeDgram), string(SockTypeSeqPacket)}
	sockFamilies  = []string{string(SockFamilyIPv4), string(SockFamilyIPv6), string(SockFamilyIPv4v6), string(SockFamilyUnix)}
	sockProtocols = []string{string(SockProtocolTCP), string(SockProtocolUDP)}
)

const maxPathMode = 0o777

// SocketConfig describes one socket descriptor. Zero/nil fields are omitted
// from the serialized attribute map.
type SocketConfig struct {
	Type     SockType
	Passive  *bool
	NodeName string
	// ServiceName is a well-known service name (string) or a port number (int).
	ServiceName     any
	Family          SockFamily
	Protocol        SockProtocol
	PathName        string
	SecureSocketKey string
	PathOwner       *int
	PathGroup       *int
	PathMode        *int
	// Bonjour is a bool, a service-type string, or a list of service types.
	Bonjour        any
	MulticastGroup string
}

// Validate checks enum values, the path-name exclusivity rule and the
// path-mode bounds. It mutates nothing.
func (c SocketConfig) Validate() error {
	if c.Type != "" {
		switch c.Type {
		case SockTypeStream, SockTypeDgram, SockTypeSeqPacket:
		default:
			return errors.InvalidEnumValue("SockType", string(c.Type), sockTypes)
		}
	}
	if c.Family != "" {
		switch c.Family {
		case SockFamilyIPv4, SockFamilyIPv6, SockFamilyIPv4v6, SockFamilyUnix:
		default:
			return errors.InvalidEnumValue("SockFamily", string(c.Family), sockFamilies)
		}
	}
	if c.Protocol != "" {
		switch c.Protocol {
		case SockProtocolTCP, SockProtocolUDP:
		default:
			return errors.InvalidEnumValue("SockProtocol", string(c.Protocol), sockProtocols)
		}
	}
	if c.PathName != "" {
		if c.NodeName != "" {
			return errors.AttributeConflict("SockPathName", "SockNodeName")
		}
		if c.ServiceName != nil {
			return errors.AttributeConflict("SockPathName", "SockServiceName")
		}
	}
	if c.PathMode != nil && (*c.PathMode < 0 || *c.PathMode > maxPathMode) {
		return errors.OutOfRange("SockPathMode", *c.PathMode, 0, maxPathMode)
	}
	return nil
}

// Attrs validates the config and serializes it to the launchd attribute map,
// emitting only the attributes that were set.
func (c SocketConfig) Attrs() (map[string]any, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	attrs := map[string]any{}
	if c.Type != "" {
		attrs["SockType"] = string(c.Type)
	}
	if c.Passive != nil {
		attrs["SockPassive"] = *c.Passive
	}
	if c.NodeName != "" {
		attrs["SockNodeName"] = c.NodeName
	}
	if c.ServiceName != nil {
		attrs["SockServiceName"] = c.ServiceName
	}
	if c.Family != "" {
		attrs["SockFamily"] = string(c.Family)
	}
	if c.Protocol != "" {
		attrs["SockProtocol"] = string(c.Protocol)
	}
	if c.PathName != "" {
		attrs["SockPathName"] = c.PathName
	}
	if c.SecureSocketKey != "" {
		attrs["SecureSocketWithKey"] = c.SecureSocketKey
	}
	if c.PathOwner != nil {
		attrs["SockPathOwner"] = *c.PathOwner
	}
	if c.PathGroup != nil {
		attrs["SockPathGroup"] = *c.PathGroup
	}
	if c.PathMode != nil {
		attrs["SockPathMode"] = *c.PathMode
	}
	if c.Bonjour != nil {
		attrs["Bonjour"] = c.Bonjour
	}
	if c.MulticastGroup != "" {
		attrs["MulticastGroup"] = c.MulticastGroup
	}
	return attrs, nil
}

// SocketBuilder assembles a SocketConfig fluently.
type SocketBuilder struct {
	cfg SocketConfig
}

// NewSocket starts an empty socket builder.
func NewSocket() *SocketBuilder {
	return &SocketBuilder{}
}

func (b *SocketBuilder) Type(t SockType) *SocketBuilder {
	b.cfg.Type = t
	return b
}

func (b *SocketBuilder) Passive(v bool) *SocketBuilder {
	b.cfg.Passive = &v
	return b
}

func (b *SocketBuilder) NodeName(name string) *SocketBuilder {
	b.cfg.NodeName = name
	return b
}

// ServiceName accepts a service name string or a port number.
func (b *SocketBuilder) ServiceName(name any) *SocketBuilder {
	b.cfg.ServiceName = name
	return b
}

func (b *SocketBuilder) Family(f SockFamily) *SocketBuilder {
	b.cfg.Family = f
	return b
}

func (b *SocketBuilder) Protocol(p SockProtocol) *SocketBuilder {
	b.cfg.Protocol = p
	return b
}

func (b *SocketBuilder) PathName(path string) *SocketBuilder {
	b.cfg.PathName = path
	return b
}

func (b *SocketBuilder) SecureSocketKey(key string) *SocketBuilder {
	b.cfg.SecureSocketKey = key
	return b
}

func (b *SocketBuilder) PathOwner(uid int) *SocketBuilder {
	b.cfg.PathOwner = &uid
	return b
}

func (b *SocketBuilder) PathGroup(gid int) *SocketBuilder {
	b.cfg.PathGroup = &gid
	return b
}

func (b *SocketBuilder) PathMode(mode int) *SocketBuilder {
	b.cfg.PathMode = &mode
	return b
}

func (b *SocketBuilder) Bonjour(v any) *SocketBuilder {
	b.cfg.Bonjour = v
	return b
}

func (b *SocketBuilder) MulticastGroup(group string) *SocketBuilder {
	b.cfg.MulticastGroup = group
	return b
}

// Config returns the accumulated (unvalidated) configuration.
func (b *SocketBuilder) Config() SocketConfig {
	return b.cfg
}

// Build validates and serializes the accumulated configuration.
func (b *SocketBuilder) Build() (map[string]any, error) {
	return b.cfg.Attrs()
}
