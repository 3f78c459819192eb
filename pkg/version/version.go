// Package version parses the semantic version stamped into the binary at
// build time. The parsed form picks the default tag when publishing to a
// registry without an explicit one.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boattime/portfolio/pkg/errors"
)

// Version is a parsed semantic version. Pre holds anything after the
// first '-' or '+', such as "rc1" or a commit suffix.
type Version struct {
	Major int
	Minor int
	Patch int
	Pre   string
}

// Parse reads "1.2.3", "v1.2.3", or "1.2.3-rc1" forms. Missing minor or
// patch components default to zero.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(s, "v"))
	if raw == "" {
		return Version{}, errors.New(errors.ErrCodeConfig, "version string is empty")
	}

	var v Version
	if i := strings.IndexAny(raw, "-+"); i >= 0 {
		v.Pre = raw[i+1:]
		raw = raw[:i]
	}

	parts := strings.Split(raw, ".")
	if len(parts) > 3 {
		return Version{}, errors.Newf(errors.ErrCodeConfig, "version %q has more than 3 components", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, errors.Newf(errors.ErrCodeConfig, "version component %q is not a non-negative integer", p)
		}
		nums[i] = n
	}

	v.Major = nums[0]
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	if len(nums) > 2 {
		v.Patch = nums[2]
	}
	return v, nil
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Tag returns the version as a registry tag, "v" prefixed.
func (v Version) Tag() string {
	return "v" + v.String()
}

// Compare orders two versions numerically, ignoring Pre. It returns -1,
// 0, or 1.
func (v Version) Compare(o Version) int {
	pairs := [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}
