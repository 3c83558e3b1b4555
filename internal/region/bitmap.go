package region

import "image"

// Format identifies the pixel format of a Bitmap.
type Format int

const (
	// FormatUnknown is any pixel layout this package does not track.
	FormatUnknown Format = iota

	// FormatNRGBA is non-premultiplied RGBA with 8 bits per channel,
	// 32 bits per pixel. This is the only format downstream consumers
	// accept, and the format every decode forces.
	FormatNRGBA

	// FormatNRGBA64 is non-premultiplied RGBA with 16 bits per channel.
	// Some engines substitute it for high-depth sources even when
	// FormatNRGBA was requested.
	FormatNRGBA64
)

// String returns a short human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatNRGBA:
		return "nrgba"
	case FormatNRGBA64:
		return "nrgba64"
	default:
		return "unknown"
	}
}

// FormatOf classifies the concrete pixel layout of an image.
func FormatOf(img image.Image) Format {
	switch img.(type) {
	case *image.NRGBA:
		return FormatNRGBA
	case *image.NRGBA64, *image.RGBA64:
		return FormatNRGBA64
	default:
		return FormatUnknown
	}
}

// Bitmap is a decoded pixel buffer together with its pixel format and an
// ownership tag.
//
// Bitmaps come in two flavors:
//   - Owned: allocated by an Engine or by the decode pipeline. The
//     pipeline releases owned bitmaps as soon as they are superseded by a
//     cropped or rotated successor.
//   - Borrowed: wraps a buffer the caller owns (a reuse buffer passed via
//     DecodeOptions.Reuse). Release is a no-op; the caller keeps full
//     ownership at all times.
type Bitmap struct {
	img      image.Image
	format   Format
	owned    bool
	released bool
}

// NewBitmap wraps img in an owned Bitmap. Engines use this for every
// buffer they allocate.
func NewBitmap(img image.Image) *Bitmap {
	return &Bitmap{img: img, format: FormatOf(img), owned: true}
}

// BorrowBitmap wraps a caller-owned buffer. The decode pipeline will
// never release it.
func BorrowBitmap(img image.Image) *Bitmap {
	return &Bitmap{img: img, format: FormatOf(img)}
}

// Image returns the underlying pixels, or nil if the bitmap has been
// released.
func (b *Bitmap) Image() image.Image {
	return b.img
}

// Format returns the pixel format the bitmap was created with.
func (b *Bitmap) Format() Format {
	return b.format
}

// Width returns the pixel width, or 0 after release.
func (b *Bitmap) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dx()
}

// Height returns the pixel height, or 0 after release.
func (b *Bitmap) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dy()
}

// Owned reports whether the pipeline owns this bitmap.
func (b *Bitmap) Owned() bool {
	return b.owned
}

// Released reports whether Release has dropped the pixels.
func (b *Bitmap) Released() bool {
	return b.released
}

// Release drops the pixel data of an owned bitmap so the garbage
// collector can reclaim it. Releasing a borrowed bitmap is a no-op;
// releasing twice is safe.
func (b *Bitmap) Release() {
	if !b.owned || b.released {
		return
	}
	b.released = true
	b.img = nil
}
