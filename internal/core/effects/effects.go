// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// File operations understood by the executor.
const (
	FileMkdir = "mkdir"
	FileWrite = "write"
)

// FileEffect represents a file system operation.
// Writes replace the target atomically.
type FileEffect struct {
	Operation string // FileMkdir or FileWrite
	Path      string
	Content   []byte // For write operations
	Mode      uint32 // File permissions
}

func (e FileEffect) EffectType() string { return "file" }

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string // "debug", "info", "warn"
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// Mkdir describes creating dir and its parents.
func Mkdir(dir string) FileEffect {
	return FileEffect{Operation: FileMkdir, Path: dir, Mode: 0755}
}

// Write describes writing content to path.
func Write(path string, content string) FileEffect {
	return FileEffect{Operation: FileWrite, Path: path, Content: []byte(content), Mode: 0644}
}

// Log describes a log entry at level.
func Log(level, message string, fields map[string]any) LogEffect {
	return LogEffect{Level: level, Message: message, Fields: fields}
}
