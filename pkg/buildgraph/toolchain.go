package buildgraph

import (
	"strconv"
	"strings"
)

// FlavorGHC is the only compiler whose import summaries are understood.
const FlavorGHC = "ghc"

// isolatedSince is the first GHC release that writes each component's
// summaries into its own output directory.
var isolatedSince = []int{7, 8}

// Toolchain names the compiler used for the build.
type Toolchain struct {
	Flavor  string
	Version string
}

// IsGHC reports whether the compiler is GHC.
func (t Toolchain) IsGHC() bool {
	return t.Flavor == FlavorGHC
}

// IsolatesOutputDirs reports whether the toolchain keeps per-unit output
// directories apart. Unknown versions are assumed recent.
func (t Toolchain) IsolatesOutputDirs() bool {
	if !t.IsGHC() || t.Version == "" {
		return true
	}

	return compareVersions(parseVersion(t.Version), isolatedSince) >= 0
}

func (t Toolchain) String() string {
	if t.Version == "" {
		return t.Flavor
	}

	return t.Flavor + "-" + t.Version
}

func parseVersion(s string) []int {
	parts := strings.Split(s, ".")
	version := make([]int, 0, len(parts))

	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}

		version = append(version, n)
	}

	return version
}

func compareVersions(a, b []int) int {
	for i := range max(len(a), len(b)) {
		var x, y int
		if i < len(a) {
			x = a[i]
		}

		if i < len(b) {
			y = b[i]
		}

		if x != y {
			if x < y {
				return -1
			}

			return 1
		}
	}

	return 0
}
