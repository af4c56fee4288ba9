package launchd

import (
	"context"
	goerrors "errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

// fakeControl records load/unload calls instead of spawning launchctl.
type fakeControl struct {
	loads     []string
	unloads   []string
	loadErr   error
	unloadErr error
}

func (f *fakeControl) Load(_ context.Context, path string) error {
	f.loads = append(f.loads, path)
	return f.loadErr
}

func (f *fakeControl) Unload(_ context.Context, path string) error {
	f.unloads = append(f.unloads, path)
	return f.unloadErr
}

func newTestService(t *testing.T, label string, sched *Schedule, opts ServiceOptions) (*Service, *fakeControl, afero.Fs) {
	t.Helper()
	ctl := &fakeControl{}
	fsys := afero.NewMemMapFs()
	opts.Fs = fsys
	opts.Control = ctl
	if opts.PlistPath == "" {
		opts.PlistPath = "/agents/" + label + ".plist"
	}
	svc, err := NewService(label, sched, opts)
	require.NoError(t, err)
	return svc, ctl, fsys
}

func TestNewService_RequiresEntryPoint(t *testing.T) {
	_, err := NewService("com.example.empty", NewSchedule(), ServiceOptions{})
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryEntryPoint))
}

func TestNewService_DefaultPlistPath(t *testing.T) {
	svc, err := NewService("com.example.job", NewSchedule(), ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, err)
	require.Equal(t, "com.example.job.plist", filepath.Base(svc.PlistPath))
	require.Contains(t, svc.PlistPath, "Library/LaunchAgents")
}

func TestService_LogPathDefaults(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.Equal(t, filepath.Join(DefaultLogDir, "com.example.job.out"), svc.StdoutLog)
	require.Equal(t, filepath.Join(DefaultLogDir, "com.example.job.err"), svc.StderrLog)
}

func TestService_LogDirAndName(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
		LogDir:    "/var/log/jobs",
		LogName:   "nightly",
	})
	require.Equal(t, "/var/log/jobs/nightly.out", svc.StdoutLog)
	require.Equal(t, "/var/log/jobs/nightly.err", svc.StderrLog)
}

func TestService_StderrFallsBackToStdout(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
		StdoutLog: "/tmp/combined.log",
	})
	require.Equal(t, "/tmp/combined.log", svc.StdoutLog)
	require.Equal(t, "/tmp/combined.log", svc.StderrLog)
}

func TestService_ExplicitLogPathsWin(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
		LogDir:    "/ignored",
		StdoutLog: "/tmp/out.log",
		StderrLog: "/tmp/err.log",
	})
	require.Equal(t, "/tmp/out.log", svc.StdoutLog)
	require.Equal(t, "/tmp/err.log", svc.StderrLog)
}

func TestService_DescriptorArgumentsOnly(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/local/bin/backup", "--fast"},
	})
	desc, err := svc.Descriptor()
	require.NoError(t, err)
	require.Equal(t, "com.example.job", desc["Label"])
	require.Equal(t, []string{"/usr/local/bin/backup", "--fast"}, desc["ProgramArguments"])
	require.NotContains(t, desc, "Program")
}

func TestService_DescriptorProgramOnly(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Program: "/usr/local/bin/backup",
	})
	desc, err := svc.Descriptor()
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/backup", desc["Program"])
	require.NotContains(t, desc, "ProgramArguments")
}

func TestService_DescriptorProgramAndArguments(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Program:   "/usr/local/bin/backup",
		Arguments: []string{"backup", "--fast"},
	})
	desc, err := svc.Descriptor()
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/backup", desc["Program"])
	require.Equal(t, []string{"backup", "--fast"}, desc["ProgramArguments"])
}

func TestService_DescriptorIncludesScheduleFragment(t *testing.T) {
	sched := NewSchedule()
	require.NoError(t, sched.AddCron("0 3 * * *"))
	sched.Behavior.RunAtLoad = Bool(true)

	svc, _, _ := newTestService(t, "com.example.job", sched, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	desc, err := svc.Descriptor()
	require.NoError(t, err)
	require.Equal(t, []CalendarEntry{{FieldMinute: 0, FieldHour: 3}}, desc["StartCalendarInterval"])
	require.Equal(t, true, desc["RunAtLoad"])
	require.Equal(t, svc.StdoutLog, desc["StandardOutPath"])
	require.Equal(t, svc.StderrLog, desc["StandardErrorPath"])
}

func TestService_DescriptorIdempotent(t *testing.T) {
	sched := NewSchedule()
	require.NoError(t, sched.AddFixedTime(4, 30))
	svc, _, _ := newTestService(t, "com.example.job", sched, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	first, err := svc.Descriptor()
	require.NoError(t, err)
	second, err := svc.Descriptor()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestService_InstallWritesAndLoads(t *testing.T) {
	svc, ctl, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, svc.Install(context.Background()))

	data, err := afero.ReadFile(fsys, svc.PlistPath)
	require.NoError(t, err)
	var decoded map[string]any
	_, err = plist.Unmarshal(data, &decoded)
	require.NoError(t, err)
	require.Equal(t, "com.example.job", decoded["Label"])
	require.Equal(t, []any{"/usr/bin/true"}, decoded["ProgramArguments"])

	require.Equal(t, []string{svc.PlistPath}, ctl.loads)
}

func TestService_InstallOverwritesExistingDescriptor(t *testing.T) {
	svc, _, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, afero.WriteFile(fsys, svc.PlistPath, []byte("stale content"), 0o644))
	require.NoError(t, svc.Install(context.Background()))

	data, err := afero.ReadFile(fsys, svc.PlistPath)
	require.NoError(t, err)
	require.NotContains(t, string(data), "stale content")
}

func TestService_InstallCreatesLogFiles(t *testing.T) {
	svc, _, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments:      []string{"/usr/bin/true"},
		LogDir:         "/var/log/jobs",
		CreateLogFiles: true,
	})
	require.NoError(t, svc.Install(context.Background()))

	for _, p := range []string{"/var/log/jobs/com.example.job.out", "/var/log/jobs/com.example.job.err"} {
		exists, err := afero.Exists(fsys, p)
		require.NoError(t, err)
		require.True(t, exists, "log file %s", p)
	}
}

func TestService_InstallSkipsLogFilesByDefault(t *testing.T) {
	svc, _, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
		LogDir:    "/var/log/jobs",
	})
	require.NoError(t, svc.Install(context.Background()))

	exists, err := afero.Exists(fsys, "/var/log/jobs/com.example.job.out")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestService_InstallLoadFailure(t *testing.T) {
	svc, ctl, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	ctl.loadErr = errors.ControlTool("load", svc.PlistPath, 113, goerrors.New("boom"))

	err := svc.Install(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryControlTool))

	// The descriptor is still on disk; only the load failed.
	exists, fsErr := afero.Exists(fsys, svc.PlistPath)
	require.NoError(t, fsErr)
	require.True(t, exists)
}

func TestService_InstallFailsOnBadSchedule(t *testing.T) {
	sched := NewSchedule()
	sched.Events.SetRawSocket("Raw", map[string]any{"Bogus": 1})
	svc, ctl, fsys := newTestService(t, "com.example.job", sched, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})

	err := svc.Install(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategorySocketKey))

	exists, fsErr := afero.Exists(fsys, svc.PlistPath)
	require.NoError(t, fsErr)
	require.False(t, exists)
	require.Empty(t, ctl.loads)
}

func TestService_Uninstall(t *testing.T) {
	svc, ctl, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, svc.Install(context.Background()))
	require.NoError(t, svc.Uninstall(context.Background()))

	require.Equal(t, []string{svc.PlistPath}, ctl.unloads)
	exists, err := afero.Exists(fsys, svc.PlistPath)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestService_UninstallMissingFile(t *testing.T) {
	svc, _, _ := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, svc.Uninstall(context.Background()))
}

func TestService_UninstallRemovesDespiteUnloadFailure(t *testing.T) {
	svc, ctl, fsys := newTestService(t, "com.example.job", nil, ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
	})
	require.NoError(t, svc.Install(context.Background()))
	ctl.unloadErr = errors.ControlTool("unload", svc.PlistPath, 113, goerrors.New("not loaded"))

	require.NoError(t, svc.Uninstall(context.Background()))
	exists, err := afero.Exists(fsys, svc.PlistPath)
	require.NoError(t, err)
	require.False(t, exists)
}
