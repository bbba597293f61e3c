package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"P1DT2H", 93600},
		{"PT45S", 45},
		{"PT4M", 240},
		{"PT10.9S", 10},
		{"pt2m", 120},
		{"P0D", 0},
		{"", 0},
		{"garbage", 0},
		{"1H2M", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseISODuration(tt.in))
		})
	}
}
