package playback

import "github.com/zeusync/skeletal/pkg/encoding"

// TrackState is the timing of a TrackEntry. Restoring it on an entry
// playing the same animation and applying reproduces the same pose.
type TrackState struct {
	Animation         string
	Loop              bool
	Reverse           bool
	Delay             float32
	TrackTime         float32
	TrackLast         float32
	NextTrackLast     float32
	TrackEnd          float32
	AnimationStart    float32
	AnimationEnd      float32
	AnimationLast     float32
	NextAnimationLast float32
	TimeScale         float32
	Alpha             float32
	MixTime           float32
	MixDuration       float32
	InterruptAlpha    float32
}

var _ encoding.Serializable[TrackState] = (*TrackState)(nil)

func (s *TrackState) Serialize() ([]byte, error) { return encoding.GobMarshal(s) }

func (s *TrackState) Deserialize(data []byte) error { return encoding.GobUnmarshal(data, s) }
