package launchctl

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

func TestTool_LoadSuccess(t *testing.T) {
	var gotBin string
	var gotArgs []string
	tool := NewToolWith("/bin/launchctl", func(_ context.Context, bin string, args ...string) (int, []byte, error) {
		gotBin = bin
		gotArgs = args
		return 0, nil, nil
	})

	require.NoError(t, tool.Load(context.Background(), "/tmp/com.example.job.plist"))
	require.Equal(t, "/bin/launchctl", gotBin)
	require.Equal(t, []string{"load", "/tmp/com.example.job.plist"}, gotArgs)
}

func TestTool_UnloadSuccess(t *testing.T) {
	var gotArgs []string
	tool := NewToolWith("/bin/launchctl", func(_ context.Context, _ string, args ...string) (int, []byte, error) {
		gotArgs = args
		return 0, nil, nil
	})

	require.NoError(t, tool.Unload(context.Background(), "/tmp/x.plist"))
	require.Equal(t, []string{"unload", "/tmp/x.plist"}, gotArgs)
}

func TestTool_NonzeroExit(t *testing.T) {
	tool := NewToolWith("/bin/launchctl", func(_ context.Context, _ string, _ ...string) (int, []byte, error) {
		return 113, []byte("Could not find specified service\n"), nil
	})

	err := tool.Load(context.Background(), "/tmp/x.plist")
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryControlTool))

	le := &errors.LaunchmanError{}
	require.ErrorAs(t, err, &le)
	require.Equal(t, 113, le.Context["exit_code"])
	require.Equal(t, "load", le.Context["operation"])
	require.Contains(t, err.Error(), "Could not find specified service")
}

func TestTool_RunnerError(t *testing.T) {
	cause := goerrors.New("fork failed")
	tool := NewToolWith("/bin/launchctl", func(_ context.Context, _ string, _ ...string) (int, []byte, error) {
		return -1, nil, cause
	})

	err := tool.Unload(context.Background(), "/tmp/x.plist")
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryControlTool))
	require.ErrorIs(t, err, cause)
}

func TestNewToolWith_DefaultRunner(t *testing.T) {
	tool := NewToolWith("/bin/launchctl", nil)
	require.NotNil(t, tool.run)
}
