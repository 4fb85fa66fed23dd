package types

import "fmt"

// InvalidRegionError means the requested region is unknown or has no usable
// geometry. Surfaced before any I/O happens.
type InvalidRegionError struct {
	Name   string
	Reason string
}

func (e *InvalidRegionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid region %q", e.Name)
	}
	return fmt.Sprintf("invalid region %q: %s", e.Name, e.Reason)
}

// FilesystemError means an output directory or file could not be created.
// Fatal for the current operation: aggregation needs persisted artifacts.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
