package feedback

import (
	"encoding/json"
	"math"

	"github.com/farellandr/civic-events/internal/models"
)

// ParseRating accepts a decoded JSON value and returns it as a rating.
// Only whole numbers in [MinRating, MaxRating] are valid; strings, null and
// fractional numbers are rejected.
func ParseRating(v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, ErrInvalidRating
		}
		f = parsed
	default:
		return 0, ErrInvalidRating
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrInvalidRating
	}
	if f < models.MinRating || f > models.MaxRating {
		return 0, ErrInvalidRating
	}

	return int(f), nil
}
