package winrender

import (
	"fmt"
	"math"
)

// MaxDimension is the largest width or height accepted anywhere in
// winrender. Both GL (GLsizei) and the render target description use
// signed 32-bit sizes.
const MaxDimension = math.MaxInt32

// LogicalSize is a DPI-independent window size.
type LogicalSize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  int
	Height int
}

// ToPhysical converts to device pixels using the given scale factor,
// rounding to the nearest pixel.
func (s LogicalSize) ToPhysical(scale float64) PhysicalSize {
	return PhysicalSize{
		Width:  scaleDim(s.Width, scale),
		Height: scaleDim(s.Height, scale),
	}
}

// Validate reports ErrInvalidSize if either dimension is not positive
// or does not fit in a signed 32-bit integer.
func (s LogicalSize) Validate() error {
	return validateDims(s.Width, s.Height)
}

// ToLogical converts to DPI-independent units using the given scale factor.
func (s PhysicalSize) ToLogical(scale float64) LogicalSize {
	if scale <= 0 {
		scale = 1
	}
	return LogicalSize{
		Width:  scaleDim(s.Width, 1/scale),
		Height: scaleDim(s.Height, 1/scale),
	}
}

// Validate reports ErrInvalidSize if either dimension is not positive
// or does not fit in a signed 32-bit integer.
func (s PhysicalSize) Validate() error {
	return validateDims(s.Width, s.Height)
}

// Empty reports whether the size has no drawable area, which is what
// a minimized window reports.
func (s PhysicalSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Int32 returns both dimensions as int32 after validation.
func (s PhysicalSize) Int32() (w, h int32, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	return int32(s.Width), int32(s.Height), nil //nolint:gosec // validated above
}

func (s PhysicalSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func validateDims(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, w, h)
	}
	return nil
}

func scaleDim(v int, scale float64) int {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	f := math.Round(float64(v) * scale)
	if f > MaxDimension {
		return MaxDimension
	}
	if f < 0 {
		return 0
	}
	return int(f)
}
