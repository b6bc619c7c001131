package skeletal

import "sort"

// Curve types stored per frame in the curves table. Values from
// curveBezier up are curveBezier plus the offset of the frame's samples.
const (
	curveLinear  = 0
	curveStepped = 1
	curveBezier  = 2

	bezierSamples = 9
	bezierSize    = bezierSamples * 2
)

// curveTimeline is a timeline whose frames are interpolated. Each frame
// has a curve type for the segment up to the next frame. A Bezier segment
// is stored as 9 (time, value) samples per keyed value.
type curveTimeline struct {
	timeline
	curves []float32
}

func newCurveTimeline(frameCount, entries, bezierCount int, ids ...PropertyID) curveTimeline {
	t := curveTimeline{
		timeline: newTimeline(frameCount, entries, ids...),
		curves:   make([]float32, frameCount+bezierCount*bezierSize),
	}
	t.curves[frameCount-1] = curveStepped
	return t
}

func (t *curveTimeline) SetLinear(frame int)  { t.curves[frame] = curveLinear }
func (t *curveTimeline) SetStepped(frame int) { t.curves[frame] = curveStepped }

// SetBezier stores the samples of a cubic Bezier segment between two
// keyed values. bezier is the index of the segment in the curves table,
// value is the index of the keyed value within the frame. The first value
// of a frame also records the curve type.
func (t *curveTimeline) SetBezier(bezier, frame, value int, time1, value1, cx1, cy1, cx2, cy2, time2, value2 float32) {
	curves := t.curves
	i := t.FrameCount() + bezier*bezierSize
	if value == 0 {
		curves[frame] = float32(curveBezier + i)
	}
	tmpx := (time1 - cx1*2 + cx2) * 0.03
	tmpy := (value1 - cy1*2 + cy2) * 0.03
	dddx := ((cx1-cx2)*3 - time1 + time2) * 0.006
	dddy := ((cy1-cy2)*3 - value1 + value2) * 0.006
	ddx := tmpx*2 + dddx
	ddy := tmpy*2 + dddy
	dx := (cx1-time1)*0.3 + tmpx + dddx*0.16666667
	dy := (cy1-value1)*0.3 + tmpy + dddy*0.16666667
	x, y := time1+dx, value1+dy
	for n := i + bezierSize; i < n; i += 2 {
		curves[i] = x
		curves[i+1] = y
		dx += ddx
		dy += ddy
		ddx += dddx
		ddy += dddy
		x += dx
		y += dy
	}
}

// CurveType returns the curve type of the segment starting at frame.
func (t *curveTimeline) CurveType(frame int) int {
	c := int(t.curves[frame])
	if c >= curveBezier {
		return curveBezier
	}
	return c
}

// curveValue returns keyed value k (1 based within the frame stride) at
// time, given i, the index of the frame at or before time.
func (t *curveTimeline) curveValue(time float32, i, k int) float32 {
	frames, entries := t.frames, t.entries
	if time <= frames[i] {
		return frames[i+k]
	}
	next := i + entries
	switch c := int(t.curves[i/entries]); c {
	case curveStepped:
		return frames[i+k]
	case curveLinear:
		if next >= len(frames) {
			return frames[i+k]
		}
		before, value := frames[i], frames[i+k]
		return value + (time-before)/(frames[next]-before)*(frames[next+k]-value)
	default:
		return t.bezierValue(time, c-curveBezier+(k-1)*bezierSize,
			frames[i], frames[i+k], frames[next], frames[next+k])
	}
}

// value1 evaluates a timeline with a single keyed value per frame.
func (t *curveTimeline) value1(time float32) float32 {
	return t.curveValue(time, Search(t.frames, time, t.entries), 1)
}

// bezierValue interpolates within the 9 samples starting at s. The
// samples are bracketed by the frame start and the next frame.
func (t *curveTimeline) bezierValue(time float32, s int, time1, value1, time2, value2 float32) float32 {
	curves := t.curves
	k := sort.Search(bezierSamples, func(k int) bool { return curves[s+k*2] >= time })
	var x0, y0, x1, y1 float32
	switch k {
	case 0:
		x0, y0 = time1, value1
		x1, y1 = curves[s], curves[s+1]
	case bezierSamples:
		x0, y0 = curves[s+bezierSize-2], curves[s+bezierSize-1]
		x1, y1 = time2, value2
	default:
		x0, y0 = curves[s+k*2-2], curves[s+k*2-1]
		x1, y1 = curves[s+k*2], curves[s+k*2+1]
	}
	if x1 == x0 {
		return y1
	}
	return y0 + (time-x0)/(x1-x0)*(y1-y0)
}

// curvePercent returns how far time is between frame and the next frame,
// shaped by the frame's curve. Bezier samples for percent curves are keyed
// from 0 to 1.
func (t *curveTimeline) curvePercent(time float32, frame int) float32 {
	frames := t.frames
	next := frame + t.entries
	switch c := int(t.curves[frame/t.entries]); c {
	case curveStepped:
		return 0
	case curveLinear:
		if next >= len(frames) {
			return 0
		}
		x := frames[frame]
		return (time - x) / (frames[next] - x)
	default:
		return t.bezierValue(time, c-curveBezier, frames[frame], 0, frames[next], 1)
	}
}

// curveTimeline1 keys a single value per frame.
type curveTimeline1 struct {
	curveTimeline
}

func newCurveTimeline1(frameCount, bezierCount int, ids ...PropertyID) curveTimeline1 {
	return curveTimeline1{newCurveTimeline(frameCount, 2, bezierCount, ids...)}
}

// SetFrame sets the time in seconds and the value for frame.
func (t *curveTimeline1) SetFrame(frame int, time, value float32) {
	frame <<= 1
	t.frames[frame] = time
	t.frames[frame+1] = value
}

// CurveValue returns the interpolated value at time.
func (t *curveTimeline1) CurveValue(time float32) float32 { return t.value1(time) }

func (t *curveTimeline1) relativeValue(time, alpha float32, blend MixBlend, current, setup float32) float32 {
	if time < t.frames[0] {
		return beforeFirst(alpha, blend, current, setup)
	}
	return mixRelative(t.value1(time), alpha, blend, current, setup)
}

func (t *curveTimeline1) absoluteValue(time, alpha float32, blend MixBlend, current, setup float32) float32 {
	if time < t.frames[0] {
		return beforeFirst(alpha, blend, current, setup)
	}
	return mixAbsolute(t.value1(time), alpha, blend, current, setup)
}

func (t *curveTimeline1) scaleValue(time, alpha float32, blend MixBlend, direction MixDirection, current, setup float32) float32 {
	if time < t.frames[0] {
		return beforeFirst(alpha, blend, current, setup)
	}
	return mixScale(t.value1(time), alpha, blend, direction, current, setup)
}

// curveTimeline2 keys two values per frame.
type curveTimeline2 struct {
	curveTimeline
}

func newCurveTimeline2(frameCount, bezierCount int, ids ...PropertyID) curveTimeline2 {
	return curveTimeline2{newCurveTimeline(frameCount, 3, bezierCount, ids...)}
}

// SetFrame sets the time in seconds and the two values for frame.
func (t *curveTimeline2) SetFrame(frame int, time, value1, value2 float32) {
	frame *= 3
	t.frames[frame] = time
	t.frames[frame+1] = value1
	t.frames[frame+2] = value2
}

func (t *curveTimeline2) values(time float32) (float32, float32) {
	i := Search(t.frames, time, 3)
	return t.curveValue(time, i, 1), t.curveValue(time, i, 2)
}
