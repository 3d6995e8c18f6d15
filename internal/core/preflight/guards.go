// Package preflight contains the pure permission guard run before a kind writes.
// Guards are pure functions that evaluate preconditions without side effects;
// the caller probes the filesystem and passes the facts in.
package preflight

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	// Path is the directory that failed the check, if any.
	Path string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// DirectoryContext provides probed facts about an output directory.
type DirectoryContext struct {
	Dir         string
	Exists      bool
	IsDir       bool
	Writable    bool
	Ancestor    string // nearest existing ancestor, when Dir is missing
	AncestorDir bool
	// AncestorWritable is only meaningful when Dir is missing.
	AncestorWritable bool
}

// CanWriteDirectory evaluates whether files may be written into Dir.
// Rules:
// - An existing Dir must be a directory and writable
// - A missing Dir needs a writable nearest existing ancestor directory
func CanWriteDirectory(ctx DirectoryContext) GuardResult {
	if ctx.Exists {
		if !ctx.IsDir {
			return GuardResult{
				Reason: fmt.Sprintf("not a directory: %s", ctx.Dir),
				Path:   ctx.Dir,
			}
		}
		if !ctx.Writable {
			return GuardResult{
				Reason: fmt.Sprintf("not writable directory, check permissions: %s", ctx.Dir),
				Path:   ctx.Dir,
			}
		}
		return GuardResult{Allowed: true}
	}

	if ctx.Ancestor == "" {
		return GuardResult{
			Reason: fmt.Sprintf("no existing ancestor for directory: %s", ctx.Dir),
			Path:   ctx.Dir,
		}
	}
	if !ctx.AncestorDir || !ctx.AncestorWritable {
		return GuardResult{
			Reason: fmt.Sprintf("not writable directory, check permissions: %s", ctx.Ancestor),
			Path:   ctx.Ancestor,
		}
	}

	return GuardResult{Allowed: true}
}
