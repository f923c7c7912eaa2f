package config

// Version is the current spwn-core version.
// Set at build time by the release script via -ldflags or by writing to this file.
var Version = "0.3.0"

const SourceFileExt = ".spwn"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".spwn", ".spw"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode.
// Nothing in this module sets it; it stays false unless a caller sets it.
var IsTestMode = false

// Reserved member / dict keys used by the evaluator.
const (
	TypeKey = "TYPE"
)

// Reserved macro argument name. Must be argument position 0 when present.
const SelfArgName = "self"

// Built-in library pseudo-value name, resolved by the literal `$`.
const BuiltinsSymbol = "$"

