package sim

// ColorMode selects how body hues are assigned.
type ColorMode uint8

const (
	// ColorStatic paints every body with the static hue.
	ColorStatic ColorMode = iota
	// ColorRainbow spreads hues evenly over the color circle by body index.
	ColorRainbow
	// ColorBounce assigns a fresh random hue on every wall or pair impact.
	ColorBounce
)

// String returns the config-file name of the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorRainbow:
		return "rainbow"
	case ColorBounce:
		return "bounce"
	default:
		return "static"
	}
}

// ParseColorMode maps a config-file name to a mode, defaulting to static.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "rainbow":
		return ColorRainbow
	case "bounce":
		return ColorBounce
	default:
		return ColorStatic
	}
}

// Delta describes the derived effect of a parameter change, so the
// collaborator knows what to refresh without observing scene internals.
type Delta uint8

const (
	// DeltaNone means the value was stored with no derived effect.
	DeltaNone Delta = 0
	// DeltaClamped marks an input that was out of range and clamped.
	DeltaClamped Delta = 1 << iota
	// DeltaRecolored marks a change that repainted existing bodies.
	DeltaRecolored
	// DeltaReseeded marks a change that replaced the body collection.
	DeltaReseeded
)

// Has reports whether the delta includes the given effect.
func (d Delta) Has(effect Delta) bool {
	return d&effect != 0
}

// Params holds the user-settable scene parameters. All values are kept
// inside their clamp ranges by the scene setters.
type Params struct {
	BallCount       int
	BallSize        float32 // display diameter
	SpeedMultiplier float32
	GravityEnabled  bool
	Mode            ColorMode
	StaticHue       float32

	// Texture selection. When present, bodies are axis-aligned boxes of
	// height DisplayScale*BallSize and width height*aspect.
	HasTexture    bool
	TextureAspect float32
}

// Viewport is the drawable area handed to the scene by the collaborator.
// Margin reserves space at the bottom for an overlapping control panel.
type Viewport struct {
	Width  float32
	Height float32
	Margin float32
}

func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func clamp32(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
