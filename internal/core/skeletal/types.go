package skeletal

// Inherit controls which parent transform components a bone inherits.
// Translation is always inherited.
type Inherit uint8

const (
	InheritNormal Inherit = iota
	InheritOnlyTranslation
	InheritNoRotationOrReflection
	InheritNoScale
	InheritNoScaleOrReflection
)

func (i Inherit) String() string {
	switch i {
	case InheritNormal:
		return "normal"
	case InheritOnlyTranslation:
		return "onlyTranslation"
	case InheritNoRotationOrReflection:
		return "noRotationOrReflection"
	case InheritNoScale:
		return "noScale"
	case InheritNoScaleOrReflection:
		return "noScaleOrReflection"
	default:
		return "unknown"
	}
}

// Physics is threaded through world transform updates untouched.
// Secondary motion simulation is not implemented.
type Physics uint8

const (
	PhysicsNone Physics = iota
	PhysicsReset
	PhysicsUpdate
	PhysicsPose
)

// MixBlend selects how a timeline combines its value with the current pose.
type MixBlend uint8

const (
	// MixSetup overwrites the pose with the setup value before mixing.
	MixSetup MixBlend = iota
	// MixFirst mixes from the current pose toward setup + value. Used by the
	// first track, which must establish the baseline.
	MixFirst
	// MixReplace mixes from the current pose toward setup + value.
	MixReplace
	// MixAdd accumulates the keyed value onto the current pose.
	MixAdd
)

func (b MixBlend) String() string {
	switch b {
	case MixSetup:
		return "setup"
	case MixFirst:
		return "first"
	case MixReplace:
		return "replace"
	case MixAdd:
		return "add"
	default:
		return "unknown"
	}
}

// MixDirection tells a timeline whether its animation is mixing in or out.
type MixDirection uint8

const (
	MixIn MixDirection = iota
	MixOut
)

type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

type PositionMode uint8

const (
	PositionFixed PositionMode = iota
	PositionPercent
)

type SpacingMode uint8

const (
	SpacingLength SpacingMode = iota
	SpacingFixed
	SpacingPercent
	SpacingProportional
)

type RotateMode uint8

const (
	RotateTangent RotateMode = iota
	RotateChain
	RotateChainScale
)

// Transform holds the seven local transform components of a bone.
type Transform struct {
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	ShearX   float32
	ShearY   float32
}

// Identity is a transform with unit scale at the origin.
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// Updatable is an entry of the skeleton update cache.
type Updatable interface {
	Update(physics Physics)
	IsActive() bool
}

// Translation returns a transform with unit scale at x, y.
func Translation(x, y float32) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}
