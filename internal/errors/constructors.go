package errors

import "strings"

// Convenience functions for common error patterns

// Schedule validation errors

// OutOfRange reports a numeric or time field outside its allowed domain.
func OutOfRange(field string, value, low, high int) *LaunchmanError {
	return New(CategoryRange, "value out of range").
		WithContext("field", field).
		WithContext("value", value).
		WithContext("min", low).
		WithContext("max", high)
}

// InvalidExpression reports malformed cron syntax.
func InvalidExpression(expr, reason string) *LaunchmanError {
	return New(CategoryExpression, "invalid cron expression").
		WithContext("expr", expr).
		WithContext("reason", reason)
}

// AttributeConflict reports mutually exclusive socket attributes.
func AttributeConflict(attr, conflictsWith string) *LaunchmanError {
	return New(CategoryConflict, "mutually exclusive socket attributes").
		WithContext("attribute", attr).
		WithContext("conflicts_with", conflictsWith)
}

// InvalidEnumValue reports a typed socket attribute outside its enumerated set.
func InvalidEnumValue(attr string, value any, allowed []string) *LaunchmanError {
	return New(CategoryConflict, "value not in enumerated set").
		WithContext("attribute", attr).
		WithContext("value", value).
		WithContext("allowed", strings.Join(allowed, "|"))
}

// NotPositive reports a value that must be strictly positive.
func NotPositive(field string, value int) *LaunchmanError {
	return New(CategoryRange, "value must be positive").
		WithContext("field", field).
		WithContext("value", value)
}

// NotNegative reports a value that must be zero or greater.
func NotNegative(field string, value int) *LaunchmanError {
	return New(CategoryRange, "value must not be negative").
		WithContext("field", field).
		WithContext("value", value)
}

// InvalidTimeWindow reports a suppression window that does not parse as
// "HH:MM-HH:MM".
func InvalidTimeWindow(spec string) *LaunchmanError {
	return New(CategoryRange, "invalid time window").
		WithContext("window", spec)
}

// DescriptorType reports a launch-event descriptor that is not a mapping.
func DescriptorType(subsystem, event string) *LaunchmanError {
	return New(CategoryDescriptor, "event descriptor must be a mapping").
		WithContext("subsystem", subsystem).
		WithContext("event", event)
}

// InvalidSocketKeys reports unrecognized socket attribute keys found at
// serialization time.
func InvalidSocketKeys(socket string, keys []string) *LaunchmanError {
	return New(CategorySocketKey, "unrecognized socket attribute keys").
		WithContext("socket", socket).
		WithContext("keys", strings.Join(keys, ","))
}

// Service errors

// MissingEntryPoint reports a service with neither program nor arguments.
func MissingEntryPoint(label string) *LaunchmanError {
	return New(CategoryEntryPoint, "missing required program or program arguments").
		WithContext("label", label)
}

// ControlTool reports a nonzero exit from the external control tool.
func ControlTool(operation, path string, exitCode int, cause error) *LaunchmanError {
	return Wrap(cause, CategoryControlTool, "control tool reported failure").
		WithContext("operation", operation).
		WithContext("path", path).
		WithContext("exit_code", exitCode)
}

// ControlToolMissing reports that the control tool binary could not be resolved.
func ControlToolMissing(cause error) *LaunchmanError {
	return Wrap(cause, CategoryControlTool, "control tool binary cannot be found")
}

// Filesystem and configuration errors

// PathExists reports a target that already exists when existing targets are
// not allowed.
func PathExists(path string) *LaunchmanError {
	return New(CategoryFileSystem, "target already exists").
		WithContext("path", path)
}

// PathKindMismatch reports a target whose kind on disk does not match the
// requested kind.
func PathKindMismatch(path, want, got string) *LaunchmanError {
	return New(CategoryFileSystem, "target exists with wrong kind").
		WithContext("path", path).
		WithContext("want", want).
		WithContext("got", got)
}

// RelativePath reports a relative target path given without a default
// directory to anchor it.
func RelativePath(path string) *LaunchmanError {
	return New(CategoryFileSystem, "relative path provided without a default directory").
		WithContext("path", path)
}

// ScheduleFile reports an unreadable or malformed schedule file.
func ScheduleFile(path string, cause error) *LaunchmanError {
	return Wrap(cause, CategoryConfig, "cannot load schedule file").
		WithContext("path", path)
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *LaunchmanError {
	return Wrap(cause, CategoryInternal, message)
}
