package region

import "image"

// DecodeOptions controls a single region decode.
type DecodeOptions struct {
	// SampleSize is the downscale factor applied by the engine. The
	// decoded buffer is floor(rect.Dx()/SampleSize) by
	// floor(rect.Dy()/SampleSize) pixels. Values below 1 are treated
	// as 1.
	SampleSize int

	// Format is the preferred output format. Loader overwrites it with
	// FormatNRGBA on every call regardless of what the caller set.
	Format Format

	// Reuse optionally supplies a caller-owned buffer for the engine to
	// decode into. Engines may ignore it, and on some platforms an
	// engine handed a reuse buffer returns more pixels than the request
	// covered; Loader crops such results back down. The loader never
	// releases this bitmap.
	Reuse *Bitmap
}

// Engine is the opaque region-decoding capability a Loader drives. The
// engine owns interpretation of the encoded bytes; Loader only ever asks
// it for physical rectangles.
//
// Implementations must tolerate DecodeRegion rectangles that were already
// clamped to the image bounds, and must report post-release use as an
// error rather than panicking.
type Engine interface {
	// Dimensions returns the width and height of the stored image in
	// physical (pre-rotation) coordinates.
	Dimensions() (width, height int)

	// DecodeRegion decodes the given physical rectangle. A nil bitmap
	// with a nil error is treated by Loader the same as an error.
	DecodeRegion(rect image.Rectangle, opts DecodeOptions) (*Bitmap, error)

	// Release frees the engine's resources. Decoding after Release
	// fails.
	Release()
}

// FormatSubstituter is implemented by engines that may silently return a
// pixel format other than the one requested, typically preserving a
// high-depth source instead of converting down. Loaders probe such
// engines at construction and re-validate the format of every decode.
// Engines without this quirk can skip both checks by not implementing
// the interface.
type FormatSubstituter interface {
	MaySubstituteFormat() bool
}
