// Package wire defines the text encodings handed to external consumers.
package wire

import (
	"encoding/json"
	"fmt"
)

// Attitude is one orientation report: the fused angles in radians plus the
// pass-through die temperature.
type Attitude struct {
	YawRad       float64 `json:"yaw_rad"`
	PitchRad     float64 `json:"pitch_rad"`
	RollRad      float64 `json:"roll_rad"`
	TemperatureC float64 `json:"temperature_c"`
}

// Encode renders the flat ordered list [yaw, pitch, roll, temperature] used
// on the UDP feed.
func Encode(a Attitude) ([]byte, error) {
	b, err := json.Marshal([4]float64{a.YawRad, a.PitchRad, a.RollRad, a.TemperatureC})
	if err != nil {
		return nil, fmt.Errorf("wire: encode attitude: %w", err)
	}
	return b, nil
}

// Decode parses the flat-list form produced by Encode.
func Decode(b []byte) (Attitude, error) {
	var v [4]float64
	if err := json.Unmarshal(b, &v); err != nil {
		return Attitude{}, fmt.Errorf("wire: decode attitude: %w", err)
	}
	return Attitude{
		YawRad:       v[0],
		PitchRad:     v[1],
		RollRad:      v[2],
		TemperatureC: v[3],
	}, nil
}
