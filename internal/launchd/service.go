package launchd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"howett.net/plist"

	"git.home.luguber.info/inful/launchman/internal/errors"
	"git.home.luguber.info/inful/launchman/internal/launchctl"
	"git.home.luguber.info/inful/launchman/internal/pathutil"
)

// DefaultLogDir is where log files land when neither explicit paths nor a log
// directory are given.
const DefaultLogDir = "/usr/local/var/log"

// agentsSubdir is the per-user service-descriptor directory, relative to the
// user's home.
const agentsSubdir = "Library/LaunchAgents"

// ServiceOptions carries the optional pieces of a service definition.
type ServiceOptions struct {
	// Program is the entry-point path. At least one of Program and Arguments
	// must be set.
	Program string
	// Arguments become ProgramArguments verbatim.
	Arguments []string
	// PlistPath overrides the default <agents dir>/<label>.plist location.
	PlistPath string
	// LogDir with LogName derives <dir>/<name>.out and <dir>/<name>.err when
	// no explicit log paths are given.
	LogDir string
	// LogName defaults to the label.
	LogName string
	// StdoutLog and StderrLog take precedence over LogDir. StderrLog falls
	// back to StdoutLog when only the latter is given.
	StdoutLog string
	StderrLog string
	// CreateLogFiles makes Install create missing log files.
	CreateLogFiles bool
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Control defaults to a launchctl client resolved on first use.
	Control launchctl.Client
}

// Service combines a schedule, an entry point, log paths and an identifier
// into a complete service descriptor, and installs or uninstalls it through
// the control tool.
type Service struct {
	Label     string
	Program   string
	Arguments []string
	Schedule  *Schedule
	PlistPath string
	StdoutLog string
	StderrLog string

	fs             afero.Fs
	control        launchctl.Client
	createLogFiles bool
}

// NewService builds a service around label and schedule. It fails when
// neither a program nor arguments are supplied.
func NewService(label string, schedule *Schedule, opts ServiceOptions) (*Service, error) {
	if opts.Program == "" && len(opts.Arguments) == 0 {
		return nil, errors.MissingEntryPoint(label)
	}
	if schedule == nil {
		schedule = NewSchedule()
	}

	plistPath := opts.PlistPath
	if plistPath == "" {
		dir, err := defaultAgentsDir()
		if err != nil {
			return nil, err
		}
		plistPath = filepath.Join(dir, label+".plist")
	}

	stdout, stderr := resolveLogPaths(label, opts)

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &Service{
		Label:          label,
		Program:        opts.Program,
		Arguments:      append([]string(nil), opts.Arguments...),
		Schedule:       schedule,
		PlistPath:      plistPath,
		StdoutLog:      stdout,
		StderrLog:      stderr,
		fs:             fsys,
		control:        opts.Control,
		createLogFiles: opts.CreateLogFiles,
	}, nil
}

// resolveLogPaths applies the precedence: explicit paths, then log dir + log
// name, then the default log dir with a label-derived name.
func resolveLogPaths(label string, opts ServiceOptions) (string, string) {
	name := opts.LogName
	if name == "" {
		name = label
	}

	switch {
	case opts.StdoutLog != "":
		stderr := opts.StderrLog
		if stderr == "" {
			stderr = opts.StdoutLog
		}
		return opts.StdoutLog, stderr
	case opts.LogDir != "":
		return filepath.Join(opts.LogDir, name+".out"),
			filepath.Join(opts.LogDir, name+".err")
	default:
		stdout := filepath.Join(DefaultLogDir, name+".out")
		stderr := opts.StderrLog
		if stderr == "" {
			stderr = filepath.Join(DefaultLogDir, name+".err")
		}
		return stdout, stderr
	}
}

func defaultAgentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Internal("cannot resolve user home directory", err)
	}
	return filepath.Join(home, agentsSubdir), nil
}

// Descriptor assembles the complete descriptor mapping. Calling it twice
// without mutation yields identical output.
func (s *Service) Descriptor() (map[string]any, error) {
	fragment, err := s.Schedule.Fragment()
	if err != nil {
		return nil, err
	}

	desc := map[string]any{
		"Label":             s.Label,
		"StandardOutPath":   s.StdoutLog,
		"StandardErrorPath": s.StderrLog,
	}
	for k, v := range fragment {
		desc[k] = v
	}

	// Program is the effective entry point when both are present; the daemon
	// applies that precedence itself, so ProgramArguments is kept verbatim.
	if s.Program != "" {
		desc["Program"] = s.Program
		if len(s.Arguments) > 0 {
			desc["ProgramArguments"] = s.Arguments
		}
	} else {
		desc["ProgramArguments"] = s.Arguments
	}
	return desc, nil
}

// Install serializes the descriptor to its plist file, fully overwriting any
// prior content, and loads it through the control tool.
func (s *Service) Install(ctx context.Context) error {
	if _, err := pathutil.Ensure(s.fs, filepath.Dir(s.PlistPath), pathutil.Options{
		Kind:          pathutil.KindDirectory,
		AllowExisting: true,
	}); err != nil {
		return err
	}
	if s.createLogFiles {
		for _, logPath := range []string{s.StdoutLog, s.StderrLog} {
			if _, err := pathutil.Ensure(s.fs, logPath, pathutil.Options{
				Kind:          pathutil.KindFile,
				AllowExisting: true,
			}); err != nil {
				return err
			}
		}
	}

	desc, err := s.Descriptor()
	if err != nil {
		return err
	}
	data, err := plist.MarshalIndent(desc, plist.XMLFormat, "\t")
	if err != nil {
		return errors.Internal("cannot encode descriptor", err)
	}
	slog.Info("writing descriptor", "label", s.Label, "path", s.PlistPath)
	if err := afero.WriteFile(s.fs, s.PlistPath, data, 0o644); err != nil {
		return err
	}

	ctl, err := s.controlClient()
	if err != nil {
		return err
	}
	return ctl.Load(ctx, s.PlistPath)
}

// Uninstall unloads the descriptor and removes its file. A missing file is
// not an error; an unload failure is logged but does not stop the removal
// (the descriptor may never have been loaded).
func (s *Service) Uninstall(ctx context.Context) error {
	ctl, err := s.controlClient()
	if err != nil {
		return err
	}
	if err := ctl.Unload(ctx, s.PlistPath); err != nil {
		slog.Warn("unload failed, removing descriptor anyway", "label", s.Label, "error", err)
	}
	slog.Info("removing descriptor", "label", s.Label, "path", s.PlistPath)
	if err := s.fs.Remove(s.PlistPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Service) controlClient() (launchctl.Client, error) {
	if s.control != nil {
		return s.control, nil
	}
	tool, err := launchctl.NewTool()
	if err != nil {
		return nil, err
	}
	s.control = tool
	return tool, nil
}
