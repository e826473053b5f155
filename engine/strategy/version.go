package strategy

import (
	"strconv"
	"strings"
)

// CompareVersions compares dotted-integer versions component-wise.
// Missing or non-numeric components count as 0. Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	pa := versionParts(a)
	pb := versionParts(b)
	n := max(len(pa), len(pb))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			n = 0
		}
		parts[i] = n
	}
	return parts
}
