package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"one degree of longitude at equator", 0, 0, 0, 1, 111.19, 0.01},
		{"same point", 52.52, 13.405, 52.52, 13.405, 0, 0.0001},
		{"berlin to hamburg", 52.52, 13.405, 53.5511, 9.9937, 255, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}
