// Package region implements rotation-aware region decoding of large images.
//
// A Loader presents a rotated logical view of a stored image and decodes
// only the sub-rectangle a caller asks for. Callers request rectangles in
// logical (post-rotation) coordinates; the loader maps each request to the
// corresponding rectangle of the stored (pre-rotation) image, drives an
// Engine to decode it, and rotates the decoded pixels into final
// orientation. Full-image decoding of wallpaper-sized sources is too
// expensive, which is the whole reason this package exists.
//
// # Coordinate Spaces
//
// Two coordinate spaces are in play:
//   - Physical: the stored image as the decoder sees it, (0,0) top-left.
//   - Logical: the physical image rotated clockwise by the configured
//     rotation (0, 90, 180 or 270 degrees).
//
// All rectangles passed to Loader.DecodeRegion are logical. Width() and
// Height() report logical dimensions, so the physical width and height are
// swapped for 90 and 270 degree rotations.
//
// # Pixel Format
//
// Decoded output is always requested in 32-bit NRGBA; downstream consumers
// accept nothing else. Engines that may silently substitute a
// higher-precision format (see FormatSubstituter) are probed once at
// construction and re-checked on every decode, since substitution can be
// region- or size-dependent.
//
// # Buffer Ownership
//
// Bitmaps are tagged as pipeline-owned or caller-borrowed. Intermediate
// buffers produced while cropping and rotating are released as soon as
// they are superseded; a caller-supplied reuse buffer is never released by
// the loader.
//
// # Thread Safety
//
// All Loader methods are mutually exclusive on a per-loader mutex.
// Independent loaders may run concurrently.
package region
