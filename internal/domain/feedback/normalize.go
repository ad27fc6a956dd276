package feedback

// DefaultBox is used when the capability reports no usable coordinates.
var DefaultBox = Coordinates{X: 0, Y: 0, Width: 100, Height: 50}

// minBoxSide keeps boxes clickable in the overlay; anything thinner than
// 10px is stretched to it.
const minBoxSide = 10

// NormalizeCoordinates clamps a raw bounding box against the image bounds.
// The capability may report coordinates that exceed the image or omit them
// entirely; the overlay and export must never see an out-of-bounds or
// zero-area box, so this always returns a valid one and never errors.
func NormalizeCoordinates(raw any, dims Dimensions) Coordinates {
	m, ok := raw.(map[string]any)
	if !ok {
		return DefaultBox
	}
	return Coordinates{
		X:      clamp(rawInt(m, "x", 0), 0, dims.Width-1),
		Y:      clamp(rawInt(m, "y", 0), 0, dims.Height-1),
		Width:  clamp(rawInt(m, "width", 100), minBoxSide, dims.Width),
		Height: clamp(rawInt(m, "height", 50), minBoxSide, dims.Height),
	}
}
