package upstream

import (
	"regexp"
	"strconv"
	"strings"
)

// Pre-release suffix priorities (lower = earlier in release cycle)
var suffixPriority = map[string]int{
	"alpha": -4,
	"beta":  -3,
	"pre":   -2,
	"rc":    -1,
	"":      0, // release version
}

// suffixRegex matches suffixes like -rc1, _beta2, .alpha3
var suffixRegex = regexp.MustCompile(`[-_.]([a-z]+)\.?(\d*)$`)

// parseVersion breaks a version string into components for comparison.
// Returns: numeric parts, suffix type, suffix number.
func parseVersion(v string) ([]int, string, int) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")

	suffixType := ""
	suffixNum := 0
	if matches := suffixRegex.FindStringSubmatch(v); matches != nil {
		if _, known := suffixPriority[matches[1]]; known {
			suffixType = matches[1]
			if matches[2] != "" {
				suffixNum, _ = strconv.Atoi(matches[2])
			}
			v = suffixRegex.ReplaceAllString(v, "")
		}
	}

	parts := strings.Split(v, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		// Handle trailing letters in version numbers (e.g., 1.0a -> 1, 0)
		numStr := strings.TrimRight(p, "abcdefghijklmnopqrstuvwxyz")
		if numStr == "" {
			nums[i] = 0
		} else {
			nums[i], _ = strconv.Atoi(numStr)
		}
	}

	return nums, suffixType, suffixNum
}

// compareIntSlices compares two slices of integers element-wise,
// treating missing elements as zero.
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// CompareVersions compares two version strings, ignoring a leading "v".
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2.
func CompareVersions(v1, v2 string) int {
	nums1, suffix1, suffixNum1 := parseVersion(v1)
	nums2, suffix2, suffixNum2 := parseVersion(v2)

	if cmp := compareIntSlices(nums1, nums2); cmp != 0 {
		return cmp
	}

	// Compare suffix types (alpha < beta < pre < rc < release)
	priority1 := suffixPriority[suffix1]
	priority2 := suffixPriority[suffix2]
	if priority1 < priority2 {
		return -1
	}
	if priority1 > priority2 {
		return 1
	}

	// Same suffix type, compare suffix numbers
	if suffixNum1 < suffixNum2 {
		return -1
	}
	if suffixNum1 > suffixNum2 {
		return 1
	}

	return 0
}
