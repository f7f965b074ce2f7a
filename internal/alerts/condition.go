package alerts

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trendpulse/trendpulse/internal/trending"
)

// evalCondition evaluates a rule condition string against one source's
// health record.
//
// Supported expressions (field operator value):
//
//	status == error
//	status == unknown
//	stale_seconds > 3600
//	error_age_seconds < 60
//
// stale_seconds is the time since the source last succeeded; it is infinite
// for a source that has never succeeded, so "stale_seconds > N" fires for
// sources that are failing from the start. error_age_seconds is the time
// since the last recorded error (infinite when no error has been recorded).
//
// Returns (fires bool, triggering value float64). Returns (false, 0) if the
// expression cannot be parsed or the field is unknown.
func evalCondition(cond string, h trending.SourceHealth, now time.Time) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "status" {
		if op == "==" {
			return h.Status == rhs, 0
		}
		return false, 0
	}

	v := numericField(field, h, now)
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the health record.
func numericField(field string, h trending.SourceHealth, now time.Time) float64 {
	switch field {
	case "stale_seconds":
		if h.LastSuccessAt == nil {
			return math.Inf(1)
		}
		return now.Sub(*h.LastSuccessAt).Seconds()
	case "error_age_seconds":
		if h.LastErrorAt == nil {
			return math.Inf(1)
		}
		return now.Sub(*h.LastErrorAt).Seconds()
	default:
		return 0
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
