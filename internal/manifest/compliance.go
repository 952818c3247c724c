package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Compliance is a language compliance level such as "1.8", "9" or "1.8+".
// Levels written in the legacy "1.N" form compare equal to "N".
type Compliance struct {
	Feature int
	// AtLeast marks a "N+" level: the unit compiles at N or any later level.
	AtLeast bool
	raw     string
}

// ParseCompliance parses a compliance string.
func ParseCompliance(s string) (Compliance, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Compliance{}, fmt.Errorf("empty compliance level")
	}
	body, atLeast := strings.CutSuffix(raw, "+")

	parts := strings.Split(body, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Compliance{}, fmt.Errorf("invalid compliance level %q", s)
		}
		nums = append(nums, n)
	}

	var feature int
	switch {
	case len(nums) == 1:
		feature = nums[0]
	case nums[0] == 1 && len(nums) == 2:
		feature = nums[1]
	case nums[0] > 1:
		feature = nums[0]
	default:
		return Compliance{}, fmt.Errorf("invalid compliance level %q", s)
	}
	if feature == 0 {
		return Compliance{}, fmt.Errorf("invalid compliance level %q", s)
	}
	return Compliance{Feature: feature, AtLeast: atLeast, raw: raw}, nil
}

// MustParseCompliance is ParseCompliance for literals known to be valid.
func MustParseCompliance(s string) Compliance {
	c, err := ParseCompliance(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Compare orders two levels by feature number.
func (c Compliance) Compare(other Compliance) int {
	switch {
	case c.Feature < other.Feature:
		return -1
	case c.Feature > other.Feature:
		return 1
	}
	return 0
}

func (c Compliance) IsZero() bool { return c.Feature == 0 }

func (c Compliance) String() string {
	if c.raw != "" {
		return c.raw
	}
	if c.Feature == 0 {
		return ""
	}
	s := strconv.Itoa(c.Feature)
	if c.AtLeast {
		s += "+"
	}
	return s
}
