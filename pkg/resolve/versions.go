package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

var nonVersionChars = regexp.MustCompile(`[^0-9.]`)

// CompareVersions compares two version strings by their dot separated
// numeric components, left to right. Everything but digits and dots is
// ignored first, so range prefixes such as "^" or "~" do not matter.
// Missing trailing components count as zero.
func CompareVersions(a, b string) int {
	ca, cb := cleanVersion(a), cleanVersion(b)

	va, errA := version.NewVersion(ca)
	vb, errB := version.NewVersion(cb)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	return compareComponents(ca, cb)
}

// HigherVersion returns the greater of two versions. Ties go to ours.
func HigherVersion(ours, theirs string) string {
	if CompareVersions(theirs, ours) > 0 {
		return theirs
	}
	return ours
}

func cleanVersion(v string) string {
	return nonVersionChars.ReplaceAllString(v, "")
}

// compareComponents handles strings go-version rejects, like "" or "1..2".
// Components that are not numbers count as zero.
func compareComponents(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")

	for i := 0; i < max(len(pa), len(pb)); i++ {
		na, nb := component(pa, i), component(pb, i)
		switch {
		case na > nb:
			return 1
		case na < nb:
			return -1
		}
	}
	return 0
}

func component(parts []string, i int) uint64 {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.ParseUint(parts[i], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
