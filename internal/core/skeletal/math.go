package skeletal

import "math"

const (
	pi     = float32(math.Pi)
	pi2    = pi * 2
	radDeg = 180 / pi
	degRad = pi / 180
)

func cos(radians float32) float32 { return float32(math.Cos(float64(radians))) }

func sin(radians float32) float32 { return float32(math.Sin(float64(radians))) }

func cosDeg(degrees float32) float32 { return cos(degrees * degRad) }

func sinDeg(degrees float32) float32 { return sin(degrees * degRad) }

func atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func atan2Deg(y, x float32) float32 { return atan2(y, x) * radDeg }

func acos(v float32) float32 { return float32(math.Acos(float64(v))) }

func sqrt(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func abs(v float32) float32 { return float32(math.Abs(float64(v))) }

func signum(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(v, m float32) float32 { return float32(math.Mod(float64(v), float64(m))) }

// WrapDegrees maps an angle to the range [-180, 180].
func WrapDegrees(degrees float32) float32 {
	return degrees - 360*float32(math.Ceil(float64(degrees/360-0.5)))
}

func isNaN(v float32) bool { return v != v }
