package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the command-line surface.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if le, ok := err.(*LaunchmanError); ok {
		return a.exitCodeFromCategory(le)
	}

	return 1
}

// exitCodeFromCategory maps LaunchmanError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *LaunchmanError) int {
	switch err.Category {
	case CategoryRange, CategoryExpression, CategoryConflict,
		CategoryDescriptor, CategorySocketKey, CategoryEntryPoint:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryControlTool:
		return 8 // External system error
	case CategoryFileSystem:
		return 11 // File operation error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if le, ok := err.(*LaunchmanError); ok {
		if a.verbose {
			return le.Error()
		}
		switch le.Category {
		case CategoryConfig, CategoryRange, CategoryExpression,
			CategoryConflict, CategoryDescriptor, CategorySocketKey,
			CategoryEntryPoint:
			return le.Message + contextSuffix(le.Context)
		default:
			return le.Error()
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.verbose {
		a.logger.Error("command failed", "error", err)
	}

	fmt.Fprintln(os.Stderr, message)
	os.Exit(exitCode)
}
