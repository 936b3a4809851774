package version

import (
	"fmt"
	"strings"
)

// Compare performs a semantic comparison of two "major.minor.patch" version
// strings. Returns 1 if a > b, -1 if a < b, and 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parts(a)
	if err != nil {
		return 0, err
	}

	bv, err := parts(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}

	return 0, nil
}

func parts(s string) ([3]int, error) {
	var p [3]int
	_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &p[0], &p[1], &p[2])
	return p, err
}
