// Package build holds the tsmerge version.
package build

import (
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// CurrentCommit is injected by the release build with
// -ldflags "-X github.com/tsmerge/tsmerge/build.CurrentCommit=+<sha>".
var CurrentCommit string

// BuildVersionArray is major, minor, patch.
var BuildVersionArray = [3]int{0, 3, 0}

// BuildVersionRC marks a release candidate when positive.
var BuildVersionRC = 0

// BuildVersion is the dotted release number, e.g. "0.3.0" or "0.3.0-rc1".
var BuildVersion = releaseNumber(BuildVersionArray, BuildVersionRC)

func releaseNumber(parts [3]int, rc int) string {
	v := strings.Join(lo.Map(parts[:], func(n int, _ int) string {
		return strconv.Itoa(n)
	}), ".")
	if rc > 0 {
		v += "-rc" + strconv.Itoa(rc)
	}
	return v
}

// UserVersion is printed by --version. The commit is left out when
// TSMERGE_VERSION_IGNORE_COMMIT=1, which keeps test output stable.
func UserVersion() string {
	if os.Getenv("TSMERGE_VERSION_IGNORE_COMMIT") == "1" {
		return BuildVersion
	}
	return BuildVersion + CurrentCommit
}
