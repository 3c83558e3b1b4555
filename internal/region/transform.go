package region

import (
	"image"
	"strconv"

	"github.com/disintegration/imaging"
)

// Rotation is a clockwise quadrant rotation applied to the logical view.
// Only the four canonical values are valid.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// String returns the rotation angle in degrees.
func (r Rotation) String() string {
	return strconv.Itoa(int(r))
}

func (r Rotation) valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// transposed reports whether the rotation swaps width and height.
func (r Rotation) transposed() bool {
	return r == Rotate90 || r == Rotate270
}

// physicalRect maps a rectangle in logical (post-rotation) coordinates to
// the stored image's coordinate space. The logical image is the stored
// image rotated clockwise by rot, so this is the inverse rotation applied
// to the rectangle's corners. ow and oh are the stored image's physical
// dimensions.
func physicalRect(logical image.Rectangle, rot Rotation, ow, oh int) image.Rectangle {
	switch rot {
	case Rotate90:
		return image.Rect(
			logical.Min.Y, oh-logical.Max.X,
			logical.Max.Y, oh-logical.Min.X)
	case Rotate180:
		return image.Rect(
			ow-logical.Max.X, oh-logical.Max.Y,
			ow-logical.Min.X, oh-logical.Min.Y)
	case Rotate270:
		return image.Rect(
			ow-logical.Max.Y, logical.Min.X,
			ow-logical.Min.Y, logical.Max.X)
	default:
		return logical
	}
}

// rotateCW rotates decoded pixels clockwise by rot so they land in
// logical orientation. imaging's rotate functions are counter-clockwise,
// hence the mirrored mapping. Quadrant rotations are exact pixel
// permutations; no resampling occurs.
func rotateCW(img image.Image, rot Rotation) *image.NRGBA {
	switch rot {
	case Rotate90:
		return imaging.Rotate270(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case Rotate270:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}
