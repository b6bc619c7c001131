package skeletal

// PathConstraintData positions and rotates bones along the path
// attachment of the target slot.
type PathConstraintData struct {
	ConstraintData
	Bones        []int
	Target       int // slot index
	PositionMode PositionMode
	SpacingMode  SpacingMode
	RotateMode   RotateMode

	OffsetRotation float32
	Position       float32
	Spacing        float32

	MixRotate, MixX, MixY float32
}

func NewPathConstraintData(name string) *PathConstraintData {
	return &PathConstraintData{ConstraintData: ConstraintData{Name: name}}
}

const (
	pathNone   = -1
	pathBefore = -2
	pathAfter  = -3
	epsilon    = float32(0.00001)
)

type PathConstraint struct {
	data     *PathConstraintData
	skeleton *Skeleton
	bones    []int
	target   int

	Position, Spacing     float32
	MixRotate, MixX, MixY float32

	active bool

	spaces, positions, world, curves, lengths []float32
	segments                                  [10]float32
}

func newPathConstraint(data *PathConstraintData, skeleton *Skeleton) *PathConstraint {
	c := &PathConstraint{data: data, skeleton: skeleton, bones: data.Bones, target: data.Target}
	c.SetToSetupPose()
	return c
}

func (c *PathConstraint) Data() *PathConstraintData { return c.data }
func (c *PathConstraint) Bones() []int              { return c.bones }
func (c *PathConstraint) Target() *Slot             { return c.skeleton.slots[c.target] }
func (c *PathConstraint) IsActive() bool            { return c.active }
func (c *PathConstraint) String() string            { return c.data.Name }

func (c *PathConstraint) SetToSetupPose() {
	d := c.data
	c.Position, c.Spacing = d.Position, d.Spacing
	c.MixRotate, c.MixX, c.MixY = d.MixRotate, d.MixX, d.MixY
}

func resize(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func (c *PathConstraint) Update(Physics) {
	path, ok := c.Target().attachment.(*PathAttachment)
	if !ok {
		return
	}
	if c.MixRotate == 0 && c.MixX == 0 && c.MixY == 0 {
		return
	}

	d := c.data
	bones := c.skeleton.bones
	tangents := d.RotateMode == RotateTangent
	scale := d.RotateMode == RotateChainScale
	boneCount := len(c.bones)
	spacesCount := boneCount + 1
	if tangents {
		spacesCount = boneCount
	}
	c.spaces = resize(c.spaces, spacesCount)
	spaces := c.spaces
	spaces[0] = 0
	var lengths []float32
	if scale {
		c.lengths = resize(c.lengths, boneCount)
		lengths = c.lengths
	}
	spacing := c.Spacing

	switch d.SpacingMode {
	case SpacingPercent:
		if scale {
			for i := 0; i < spacesCount-1; i++ {
				bone := bones[c.bones[i]]
				setupLength := bone.data.Length
				x, y := setupLength*bone.A, setupLength*bone.C
				lengths[i] = sqrt(x*x + y*y)
			}
		}
		for i := 1; i < spacesCount; i++ {
			spaces[i] = spacing
		}
	case SpacingProportional:
		var sum float32
		for i := 0; i < spacesCount-1; {
			bone := bones[c.bones[i]]
			setupLength := bone.data.Length
			if setupLength < epsilon {
				if scale {
					lengths[i] = 0
				}
				i++
				spaces[i] = spacing
				continue
			}
			x, y := setupLength*bone.A, setupLength*bone.C
			length := sqrt(x*x + y*y)
			if scale {
				lengths[i] = length
			}
			i++
			spaces[i] = length
			sum += length
		}
		if sum > 0 {
			sum = float32(spacesCount) / sum * spacing
			for i := 1; i < spacesCount; i++ {
				spaces[i] *= sum
			}
		}
	default:
		lengthSpacing := d.SpacingMode == SpacingLength
		for i := 0; i < spacesCount-1; {
			bone := bones[c.bones[i]]
			setupLength := bone.data.Length
			if setupLength < epsilon {
				if scale {
					lengths[i] = 0
				}
				i++
				spaces[i] = spacing
				continue
			}
			x, y := setupLength*bone.A, setupLength*bone.C
			length := sqrt(x*x + y*y)
			if scale {
				lengths[i] = length
			}
			i++
			if lengthSpacing {
				spaces[i] = (setupLength + spacing) * length / setupLength
			} else {
				spaces[i] = spacing * length / setupLength
			}
		}
	}

	positions := c.computeWorldPositions(path, spacesCount, tangents)
	boneX, boneY := positions[0], positions[1]
	offsetRotation := d.OffsetRotation
	var tip bool
	if offsetRotation == 0 {
		tip = d.RotateMode == RotateChain
	} else {
		p := c.Target().Bone()
		if p.A*p.D-p.B*p.C > 0 {
			offsetRotation *= degRad
		} else {
			offsetRotation *= -degRad
		}
	}

	for i, p := 0, 3; i < boneCount; i, p = i+1, p+3 {
		bone := bones[c.bones[i]]
		bone.WorldX += (boneX - bone.WorldX) * c.MixX
		bone.WorldY += (boneY - bone.WorldY) * c.MixY
		x, y := positions[p], positions[p+1]
		dx, dy := x-boneX, y-boneY
		if scale {
			if length := lengths[i]; length >= epsilon {
				s := (sqrt(dx*dx+dy*dy)/length-1)*c.MixRotate + 1
				bone.A *= s
				bone.C *= s
			}
		}
		boneX, boneY = x, y
		if c.MixRotate > 0 {
			a, b, cc, dd := bone.A, bone.B, bone.C, bone.D
			var r float32
			switch {
			case tangents:
				r = positions[p-1]
			case spaces[i+1] < epsilon:
				r = positions[p+2]
			default:
				r = atan2(dy, dx)
			}
			r -= atan2(cc, a)
			if tip {
				cs, sn := cos(r), sin(r)
				length := bone.data.Length
				boneX += (length*(cs*a-sn*cc) - dx) * c.MixRotate
				boneY += (length*(sn*a+cs*cc) - dy) * c.MixRotate
			} else {
				r += offsetRotation
			}
			r = wrapRadians(r) * c.MixRotate
			cs, sn := cos(r), sin(r)
			bone.A = cs*a - sn*cc
			bone.B = cs*b - sn*dd
			bone.C = sn*a + cs*cc
			bone.D = sn*b + cs*dd
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *PathConstraint) computeWorldPositions(path *PathAttachment, spacesCount int, tangents bool) []float32 {
	d := c.data
	target := c.Target()
	position := c.Position
	spaces := c.spaces
	c.positions = resize(c.positions, spacesCount*3+2)
	out := c.positions
	closed := path.Closed
	verticesLength := path.WorldVerticesLength
	curveCount := verticesLength / 6
	prevCurve := pathNone

	if !path.ConstantSpeed {
		lengths := path.Lengths
		if closed {
			curveCount--
		} else {
			curveCount -= 2
		}
		pathLength := lengths[curveCount]
		if d.PositionMode == PositionPercent {
			position *= pathLength
		}
		multiplier := spacingMultiplier(d.SpacingMode, pathLength, spacesCount)
		c.world = resize(c.world, 8)
		world := c.world
		curve := 0
		for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
			space := spaces[i] * multiplier
			position += space
			p := position

			if closed {
				p = mod(p, pathLength)
				if p < 0 {
					p += pathLength
				}
				curve = 0
			} else if p < 0 {
				if prevCurve != pathBefore {
					prevCurve = pathBefore
					path.ComputeWorldVertices(target, 2, 4, world, 0, 2)
				}
				addBeforePosition(p, world, 0, out, o)
				continue
			} else if p > pathLength {
				if prevCurve != pathAfter {
					prevCurve = pathAfter
					path.ComputeWorldVertices(target, verticesLength-6, 4, world, 0, 2)
				}
				addAfterPosition(p-pathLength, world, 0, out, o)
				continue
			}

			for ; ; curve++ {
				length := lengths[curve]
				if p > length {
					continue
				}
				if curve == 0 {
					p /= length
				} else {
					prev := lengths[curve-1]
					p = (p - prev) / (length - prev)
				}
				break
			}
			if curve != prevCurve {
				prevCurve = curve
				if closed && curve == curveCount {
					path.ComputeWorldVertices(target, verticesLength-4, 4, world, 0, 2)
					path.ComputeWorldVertices(target, 0, 4, world, 4, 2)
				} else {
					path.ComputeWorldVertices(target, curve*6+2, 8, world, 0, 2)
				}
			}
			addCurvePosition(p, world[0], world[1], world[2], world[3], world[4], world[5], world[6], world[7], out, o,
				tangents || (i > 0 && space < epsilon))
		}
		return out
	}

	var world []float32
	if closed {
		verticesLength += 2
		c.world = resize(c.world, verticesLength)
		world = c.world
		path.ComputeWorldVertices(target, 2, verticesLength-4, world, 0, 2)
		path.ComputeWorldVertices(target, 0, 2, world, verticesLength-4, 2)
		world[verticesLength-2] = world[0]
		world[verticesLength-1] = world[1]
	} else {
		curveCount--
		verticesLength -= 4
		c.world = resize(c.world, verticesLength)
		world = c.world
		path.ComputeWorldVertices(target, 2, verticesLength, world, 0, 2)
	}

	c.curves = resize(c.curves, curveCount)
	curves := c.curves
	var pathLength float32
	x1, y1 := world[0], world[1]
	var cx1, cy1, cx2, cy2, x2, y2 float32
	for i, w := 0, 2; i < curveCount; i, w = i+1, w+6 {
		cx1, cy1 = world[w], world[w+1]
		cx2, cy2 = world[w+2], world[w+3]
		x2, y2 = world[w+4], world[w+5]
		tmpx := (x1 - cx1*2 + cx2) * 0.1875
		tmpy := (y1 - cy1*2 + cy2) * 0.1875
		dddfx := ((cx1-cx2)*3 - x1 + x2) * 0.09375
		dddfy := ((cy1-cy2)*3 - y1 + y2) * 0.09375
		ddfx := tmpx*2 + dddfx
		ddfy := tmpy*2 + dddfy
		dfx := (cx1-x1)*0.75 + tmpx + dddfx*0.16666667
		dfy := (cy1-y1)*0.75 + tmpy + dddfy*0.16666667
		pathLength += sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		pathLength += sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		pathLength += sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx + dddfx
		dfy += ddfy + dddfy
		pathLength += sqrt(dfx*dfx + dfy*dfy)
		curves[i] = pathLength
		x1, y1 = x2, y2
	}

	if d.PositionMode == PositionPercent {
		position *= pathLength
	}
	multiplier := spacingMultiplier(d.SpacingMode, pathLength, spacesCount)

	segments := &c.segments
	var curveLength float32
	curve, segment := 0, 0
	for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
		space := spaces[i] * multiplier
		position += space
		p := position

		if closed {
			p = mod(p, pathLength)
			if p < 0 {
				p += pathLength
			}
			curve, segment = 0, 0
		} else if p < 0 {
			addBeforePosition(p, world, 0, out, o)
			continue
		} else if p > pathLength {
			addAfterPosition(p-pathLength, world, verticesLength-4, out, o)
			continue
		}

		for ; ; curve++ {
			length := curves[curve]
			if p > length {
				continue
			}
			if curve == 0 {
				p /= length
			} else {
				prev := curves[curve-1]
				p = (p - prev) / (length - prev)
			}
			break
		}

		if curve != prevCurve {
			prevCurve = curve
			ii := curve * 6
			x1, y1 = world[ii], world[ii+1]
			cx1, cy1 = world[ii+2], world[ii+3]
			cx2, cy2 = world[ii+4], world[ii+5]
			x2, y2 = world[ii+6], world[ii+7]
			tmpx := (x1 - cx1*2 + cx2) * 0.03
			tmpy := (y1 - cy1*2 + cy2) * 0.03
			dddfx := ((cx1-cx2)*3 - x1 + x2) * 0.006
			dddfy := ((cy1-cy2)*3 - y1 + y2) * 0.006
			ddfx := tmpx*2 + dddfx
			ddfy := tmpy*2 + dddfy
			dfx := (cx1-x1)*0.3 + tmpx + dddfx*0.16666667
			dfy := (cy1-y1)*0.3 + tmpy + dddfy*0.16666667
			curveLength = sqrt(dfx*dfx + dfy*dfy)
			segments[0] = curveLength
			for ii = 1; ii < 8; ii++ {
				dfx += ddfx
				dfy += ddfy
				ddfx += dddfx
				ddfy += dddfy
				curveLength += sqrt(dfx*dfx + dfy*dfy)
				segments[ii] = curveLength
			}
			dfx += ddfx
			dfy += ddfy
			curveLength += sqrt(dfx*dfx + dfy*dfy)
			segments[8] = curveLength
			dfx += ddfx + dddfx
			dfy += ddfy + dddfy
			curveLength += sqrt(dfx*dfx + dfy*dfy)
			segments[9] = curveLength
			segment = 0
		}

		p *= curveLength
		for ; ; segment++ {
			length := segments[segment]
			if p > length {
				continue
			}
			if segment == 0 {
				p /= length
			} else {
				prev := segments[segment-1]
				p = float32(segment) + (p-prev)/(length-prev)
			}
			break
		}
		addCurvePosition(p*0.1, x1, y1, cx1, cy1, cx2, cy2, x2, y2, out, o, tangents || (i > 0 && space < epsilon))
	}
	return out
}

func spacingMultiplier(mode SpacingMode, pathLength float32, spacesCount int) float32 {
	switch mode {
	case SpacingPercent:
		return pathLength
	case SpacingProportional:
		return pathLength / float32(spacesCount)
	default:
		return 1
	}
}

func addBeforePosition(p float32, temp []float32, i int, out []float32, o int) {
	x1, y1 := temp[i], temp[i+1]
	r := atan2(temp[i+3]-y1, temp[i+2]-x1)
	out[o] = x1 + p*cos(r)
	out[o+1] = y1 + p*sin(r)
	out[o+2] = r
}

func addAfterPosition(p float32, temp []float32, i int, out []float32, o int) {
	x1, y1 := temp[i+2], temp[i+3]
	r := atan2(y1-temp[i+1], x1-temp[i])
	out[o] = x1 + p*cos(r)
	out[o+1] = y1 + p*sin(r)
	out[o+2] = r
}

func addCurvePosition(p, x1, y1, cx1, cy1, cx2, cy2, x2, y2 float32, out []float32, o int, tangents bool) {
	if p < epsilon || isNaN(p) {
		out[o] = x1
		out[o+1] = y1
		out[o+2] = atan2(cy1-y1, cx1-x1)
		return
	}
	tt, u := p*p, 1-p
	ttt, uu := tt*p, u*u
	uuu := uu * u
	ut := u * p
	ut3 := ut * 3
	uut3, utt3 := u*ut3, ut3*p
	x := x1*uuu + cx1*uut3 + cx2*utt3 + x2*ttt
	y := y1*uuu + cy1*uut3 + cy2*utt3 + y2*ttt
	out[o] = x
	out[o+1] = y
	if tangents {
		if p < 0.001 {
			out[o+2] = atan2(cy1-y1, cx1-x1)
		} else {
			out[o+2] = atan2(y-(y1*uu+cy1*ut*2+cy2*tt), x-(x1*uu+cx1*ut*2+cx2*tt))
		}
	}
}
