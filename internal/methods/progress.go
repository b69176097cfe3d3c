package methods

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeProgress coerces a request-body progress value to an integer.
// Numbers pass through when they carry no fractional part; strings are
// trimmed and parsed. Everything else is rejected, so numeric-looking
// strings never silently truncate.
func NormalizeProgress(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case float32:
		return intFromFloat(float64(val))
	case float64:
		// JSON numbers arrive as float64.
		return intFromFloat(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, fmt.Errorf("progress is empty")
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("progress %q is not numeric", val)
		}
		return intFromFloat(f)
	default:
		return 0, fmt.Errorf("progress has unsupported type %T", v)
	}
}

func intFromFloat(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("progress %v is not an integer", f)
	}
	return int(f), nil
}

// IsValidForCreation reports whether progress is accepted when starting a
// method. A value that fails normalization is invalid, not an error.
func IsValidForCreation(mt MethodType, progress any) bool {
	return inSet(mt, progress, func(cfg MethodConfig) []int { return cfg.ValidCreationProgress })
}

// IsValidForUpdate reports whether progress is an accepted update target.
func IsValidForUpdate(mt MethodType, progress any) bool {
	return inSet(mt, progress, func(cfg MethodConfig) []int { return cfg.ValidUpdateProgress })
}

// IsValidForResume reports whether progress is a resumable point.
func IsValidForResume(mt MethodType, progress any) bool {
	return inSet(mt, progress, func(cfg MethodConfig) []int { return cfg.ValidResumeProgress })
}

func inSet(mt MethodType, progress any, pick func(MethodConfig) []int) bool {
	cfg, ok := registry[mt]
	if !ok {
		return false
	}
	p, err := NormalizeProgress(progress)
	if err != nil {
		return false
	}
	return containsInt(pick(cfg), p)
}

// ExpectedStatus looks up the status label mapped to a progress value,
// falling back to DefaultStatus when the progress has no mapping.
func ExpectedStatus(mt MethodType, progress int) string {
	cfg, ok := registry[mt]
	if !ok {
		return DefaultStatus
	}
	if status, ok := cfg.StatusMap[progress]; ok {
		return status
	}
	return DefaultStatus
}

// StatusMatches reports whether a caller-supplied status string is consistent
// with the status the registry maps to progress. Clients have historically
// sent the label with inconsistent casing and separators, so a fixed list of
// variants of the expected label is accepted. Do not tighten this list
// without auditing client integrations.
func StatusMatches(mt MethodType, progress int, supplied string) bool {
	if strings.TrimSpace(supplied) == "" {
		return false
	}
	expected := ExpectedStatus(mt, progress)
	normalizedExpected := Normalize(expected)

	accepted := []string{
		normalizedExpected,
		strings.ReplaceAll(normalizedExpected, "_", " "),
		strings.ReplaceAll(normalizedExpected, "_", ""),
		strings.ToUpper(normalizedExpected),
		expected,
		strings.ReplaceAll(expected, "_", " "),
		strings.ToUpper(expected),
		strings.ToLower(expected),
	}

	normalizedSupplied := Normalize(supplied)
	for _, candidate := range accepted {
		if supplied == candidate || normalizedSupplied == Normalize(candidate) {
			return true
		}
	}
	return false
}
