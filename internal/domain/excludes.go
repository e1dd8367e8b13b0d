package domain

import "runtime"

// DefaultExcludeList contains the textual markers excluded from coverage
// accounting on every platform. The markers are handed verbatim to the
// exclusion engine as regular expressions.
var DefaultExcludeList = []string{
	"all: no cover",
	"if TYPE_CHECKING:",
	"@abstractmethod",
	"# os-specific",
	"defensive code",
	"assert_never()",
}

// knownOS lists the operating system names recognized by the
// "<os>-only" exclusion markers.
var knownOS = []string{"darwin", "linux", "solaris", "windows", "bsd", "aix"}

// CurrentOS maps runtime.GOOS onto the marker naming scheme. The BSD
// flavors collapse into "bsd"; anything unrecognized is reported as-is.
func CurrentOS() string {
	switch runtime.GOOS {
	case "freebsd", "netbsd", "openbsd", "dragonfly":
		return "bsd"
	default:
		return runtime.GOOS
	}
}

// BuildExcludes assembles the exclusion marker list for the given
// operating system:
//
//   - every marker from DefaultExcludeList,
//   - "<os>-only" for every known OS except the current one, so lines
//     marked for competitor platforms never count against coverage,
//   - the win32 platform-conditional marker matching the branch that is
//     dead on this platform (plus "unix: no cover" off Windows),
//   - "<os>: no cover" for the current OS.
func BuildExcludes(osName string) []string {
	patterns := make([]string, 0, len(DefaultExcludeList)+len(knownOS)+2)
	patterns = append(patterns, DefaultExcludeList...)

	for _, o := range knownOS {
		if o != osName {
			patterns = append(patterns, o+"-only")
		}
	}

	if osName == "windows" {
		patterns = append(patterns, `if sys.platform != "win32":`)
	} else {
		patterns = append(patterns, `if sys.platform == "win32":`)
		patterns = append(patterns, "unix: no cover")
	}

	return append(patterns, osName+": no cover")
}
