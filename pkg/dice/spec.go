package dice

import (
	"regexp"
	"strconv"
)

var specPattern = regexp.MustCompile(`^(\d+)d(\d+)(?:\+(\d+))?$`)

// RollSpec rolls a dice expression of the form "NdS" or "NdS+M",
// e.g. "2d4+2". A malformed expression rolls nothing and returns 0.
func RollSpec(r Roller, spec string) int {
	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	modifier := 0
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}
	return Sum(r, n, sides, modifier)
}
