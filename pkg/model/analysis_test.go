package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableFloat_NaNSerializesAsNull(t *testing.T) {
	s := CompetitorSummary{
		CompetitorID:            "car-1",
		TrafficResilience:       NullableFloat(0.25),
		MajorIncidentResilience: NullableFloat(math.NaN()),
		OperationalResilience:   NullableFloat(math.NaN()),
	}
	data, err := json.Marshal(s)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"majorIncidentResilience":null`)
	assert.Contains(t, string(data), `"trafficResilience":0.25`)

	var decoded CompetitorSummary
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.MajorIncidentResilience.IsNaN())
	assert.InDelta(t, 0.25, float64(decoded.TrafficResilience), 1e-9)
}

func TestTrackStatus_IsCaution(t *testing.T) {
	tests := []struct {
		status TrackStatus
		want   bool
	}{
		{StatusGreen, false},
		{StatusYellow, true},
		{StatusSafetyCar, true},
		{StatusVirtualSafetyCar, true},
		{StatusRed, true},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.IsCaution(), string(tt.status))
	}
}
