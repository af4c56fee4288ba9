package launchd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

func TestSocketConfig_AttrsOmitsUnset(t *testing.T) {
	attrs, err := SocketConfig{}.Attrs()
	require.NoError(t, err)
	require.Empty(t, attrs)
}

func TestSocketConfig_AttrsFull(t *testing.T) {
	cfg := SocketConfig{
		Type:        SockTypeStream,
		Passive:     Bool(true),
		NodeName:    "localhost",
		ServiceName: 8080,
		Family:      SockFamilyIPv4v6,
		Protocol:    SockProtocolTCP,
	}
	attrs, err := cfg.Attrs()
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"SockType":        "stream",
		"SockPassive":     true,
		"SockNodeName":    "localhost",
		"SockServiceName": 8080,
		"SockFamily":      "IPv4v6",
		"SockProtocol":    "TCP",
	}, attrs)
}

func TestSocketConfig_UnixPath(t *testing.T) {
	mode := 0o600
	cfg := SocketConfig{
		Type:     SockTypeDgram,
		Family:   SockFamilyUnix,
		PathName: "/var/run/svc.sock",
		PathMode: &mode,
	}
	attrs, err := cfg.Attrs()
	require.NoError(t, err)
	require.Equal(t, "dgram", attrs["SockType"])
	require.Equal(t, "Unix", attrs["SockFamily"])
	require.Equal(t, "/var/run/svc.sock", attrs["SockPathName"])
	require.Equal(t, 0o600, attrs["SockPathMode"])
}

func TestSocketConfig_PathNameConflicts(t *testing.T) {
	err := SocketConfig{PathName: "/tmp/s.sock", NodeName: "localhost"}.Validate()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConflict))

	err = SocketConfig{PathName: "/tmp/s.sock", ServiceName: "http"}.Validate()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConflict))
}

func TestSocketConfig_InvalidEnums(t *testing.T) {
	require.Error(t, SocketConfig{Type: "datagram"}.Validate())
	require.Error(t, SocketConfig{Family: "ipv4"}.Validate())
	require.Error(t, SocketConfig{Protocol: "SCTP"}.Validate())
}

func TestSocketConfig_PathModeBounds(t *testing.T) {
	bad := 0o1000
	err := SocketConfig{PathMode: &bad}.Validate()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryRange))

	neg := -1
	require.Error(t, SocketConfig{PathMode: &neg}.Validate())

	ok := 0o777
	require.NoError(t, SocketConfig{PathMode: &ok}.Validate())
}

func TestSocketBuilder(t *testing.T) {
	attrs, err := NewSocket().
		Type(SockTypeStream).
		Passive(true).
		ServiceName("ssh").
		Family(SockFamilyIPv4).
		Protocol(SockProtocolTCP).
		Bonjour([]string{"_ssh._tcp"}).
		Build()
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"SockType":        "stream",
		"SockPassive":     true,
		"SockServiceName": "ssh",
		"SockFamily":      "IPv4",
		"SockProtocol":    "TCP",
		"Bonjour":         []string{"_ssh._tcp"},
	}, attrs)
}

func TestSocketBuilder_BuildValidates(t *testing.T) {
	_, err := NewSocket().
		PathName("/tmp/s.sock").
		NodeName("localhost").
		Build()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConflict))
}

func TestSocketConfig_SecureSocketKey(t *testing.T) {
	attrs, err := SocketConfig{SecureSocketKey: "SESSION_SOCKET"}.Attrs()
	require.NoError(t, err)
	require.Equal(t, map[string]any{"SecureSocketWithKey": "SESSION_SOCKET"}, attrs)
}
