package skeletal

// Color is an RGBA tint with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the default slot and attachment tint.
var White = Color{R: 1, G: 1, B: 1, A: 1}

func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c *Color) Set(r, g, b, a float32) {
	c.R, c.G, c.B, c.A = r, g, b, a
	c.Clamp()
}

func (c *Color) SetColor(o Color) {
	*c = o
}

func (c *Color) Add(r, g, b, a float32) {
	c.R += r
	c.G += g
	c.B += b
	c.A += a
	c.Clamp()
}

func (c *Color) Clamp() {
	c.R = clamp(c.R, 0, 1)
	c.G = clamp(c.G, 0, 1)
	c.B = clamp(c.B, 0, 1)
	c.A = clamp(c.A, 0, 1)
}
