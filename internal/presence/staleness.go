package presence

import (
	"strconv"
	"time"
)

// CompareResourceVersion orders two Kubernetes resourceVersion strings.
// resourceVersions are opaque per the API contract, but in every supported
// backend they are monotonically increasing decimal integers; this parses
// them numerically and falls back to a lexicographic comparison if either
// value is not a plain integer (e.g. in fake-client tests that use
// non-numeric placeholders).
//
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func CompareResourceVersion(a, b string) int {
	an, aerr := strconv.ParseUint(a, 10, 64)
	bn, berr := strconv.ParseUint(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsStaleEvent reports whether an incoming watch event carrying
// newResourceVersion (and, for objects without a usable resourceVersion
// ordering, newCreationTime) should be ignored because the cache already
// reflects an equal or newer observation.
func IsStaleEvent(cachedResourceVersion, newResourceVersion string, cachedCreationTime, newCreationTime time.Time) bool {
	if cachedResourceVersion != "" && newResourceVersion != "" {
		return CompareResourceVersion(newResourceVersion, cachedResourceVersion) <= 0
	}
	return !newCreationTime.After(cachedCreationTime)
}
