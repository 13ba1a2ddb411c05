package feedback

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/civic-events/internal/models"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{name: "lower bound", value: float64(1), want: 1},
		{name: "upper bound", value: float64(5), want: 5},
		{name: "json number", value: json.Number("4"), want: 4},
		{name: "int", value: 3, want: 3},
		{name: "zero", value: float64(0), wantErr: true},
		{name: "six", value: float64(6), wantErr: true},
		{name: "negative", value: float64(-2), wantErr: true},
		{name: "fraction", value: 3.5, wantErr: true},
		{name: "fractional json number", value: json.Number("3.5"), wantErr: true},
		{name: "word", value: "abc", wantErr: true},
		{name: "numeric string", value: "4", wantErr: true},
		{name: "null", value: nil, wantErr: true},
		{name: "bool", value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRating(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRating)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		sum   int64
		want  models.Aggregate
	}{
		{name: "empty", want: models.Aggregate{}},
		{name: "four five three", count: 3, sum: 12, want: models.Aggregate{Average: 4.0, Count: 3}},
		{name: "rounds up", count: 3, sum: 14, want: models.Aggregate{Average: 4.7, Count: 3}},
		{name: "rounds down", count: 3, sum: 13, want: models.Aggregate{Average: 4.3, Count: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(tt.count, tt.sum))
		})
	}
}
