package parameter

// Camera
const (
	// CameraFOV is the horizontal and vertical field of view in degrees
	CameraFOV = 90.0

	// CellAspect compensates for terminal cells being roughly three times taller than wide
	CellAspect = 3.0
)

// Shading
const (
	// GlyphRamp orders glyphs from darkest (far) to brightest (near)
	GlyphRamp = " ':\"l1X%#&0W@"

	// Brightness is the distance falloff constant: one ramp step per Brightness units
	Brightness = 1.35

	// FogStrength is the maximum blend of far hits toward the background color
	FogStrength = 0.6
)

// Color modes
const (
	ColorModeTrueColor = "truecolor"
	ColorModePalette   = "palette"
)
