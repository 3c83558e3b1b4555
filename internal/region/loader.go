package region

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	// ErrDestroyed is returned by DecodeRegion after Destroy.
	ErrDestroyed = errors.New("region: loader destroyed")

	// ErrEmptyRegion is returned when the requested logical rectangle
	// maps to an empty physical rectangle. This is a legitimately empty
	// request, not a failure; no decode is attempted.
	ErrEmptyRegion = errors.New("region: empty region")

	// ErrFormat is returned when the engine produced a pixel format
	// other than FormatNRGBA for a source it claimed to support.
	ErrFormat = errors.New("region: unsupported pixel format")

	// ErrNoPixels is returned when the engine reported success but
	// handed back a nil or zero-sized buffer.
	ErrNoPixels = errors.New("region: decoder returned no pixels")
)

// Loader decodes regions of a stored image through an Engine, presenting
// a logical view rotated clockwise by a fixed quadrant rotation.
//
// A Loader owns its engine and its byte source: both are released by
// Destroy, exactly once. All methods are safe for concurrent use and
// mutually exclusive per loader.
type Loader struct {
	mu             sync.Mutex
	engine         Engine
	src            io.Closer
	rotation       Rotation
	originalWidth  int
	originalHeight int
	checkFormat    bool
	destroyed      bool
}

// NewLoader wraps engine in a rotation-aware region loader. src is the
// byte source backing the engine; it may be nil, and is closed by
// Destroy. NewLoader never returns a half-valid loader: it fails if the
// rotation is not a quadrant rotation, if the engine reports non-positive
// dimensions, or if the construction-time format probe rejects the
// source.
//
// On error the engine and source are left open and the caller keeps
// ownership of both.
func NewLoader(engine Engine, src io.Closer, rotation Rotation) (*Loader, error) {
	if engine == nil {
		return nil, errors.New("region: nil engine")
	}
	if !rotation.valid() {
		return nil, fmt.Errorf("region: invalid rotation %d", int(rotation))
	}
	w, h := engine.Dimensions()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("region: invalid source dimensions %dx%d", w, h)
	}

	l := &Loader{
		engine:         engine,
		src:            src,
		rotation:       rotation,
		originalWidth:  w,
		originalHeight: h,
	}

	// Engines without the substitution quirk skip the probe entirely.
	if fs, ok := engine.(FormatSubstituter); ok && fs.MaySubstituteFormat() {
		l.checkFormat = true
		if err := l.probeFormat(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// probeFormat decodes a single pixel requesting the forced output format.
// Sources for which the engine substitutes a higher-precision format are
// rejected up front instead of failing deep inside a later decode.
func (l *Loader) probeFormat() error {
	bm, err := l.engine.DecodeRegion(image.Rect(0, 0, 1, 1), DecodeOptions{
		SampleSize: 1,
		Format:     FormatNRGBA,
	})
	if err != nil {
		return fmt.Errorf("region: format probe: %w", err)
	}
	if bm == nil {
		return fmt.Errorf("region: format probe: %w", ErrNoPixels)
	}
	f := bm.Format()
	bm.Release()
	if f != FormatNRGBA {
		return fmt.Errorf("%w: probe returned %v", ErrFormat, f)
	}
	return nil
}

// Width returns the logical width: the physical height when the rotation
// is 90 or 270 degrees, the physical width otherwise.
func (l *Loader) Width() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rotation.transposed() {
		return l.originalHeight
	}
	return l.originalWidth
}

// Height returns the logical height. See Width.
func (l *Loader) Height() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rotation.transposed() {
		return l.originalWidth
	}
	return l.originalHeight
}

// Rotation returns the clockwise rotation of the logical view.
func (l *Loader) Rotation() Rotation {
	return l.rotation
}

// DecodeRegion decodes the given logical rectangle and returns it in
// logical orientation, always as FormatNRGBA.
//
// The returned bitmap is newly allocated for the caller unless it is
// literally the supplied opts.Reuse bitmap, in which case the caller
// retains its existing ownership. Failures are terminal for the call and
// never retried: ErrEmptyRegion for requests that map to nothing,
// ErrDestroyed after Destroy, ErrFormat and ErrNoPixels for degenerate
// engine output, and wrapped engine errors otherwise.
func (l *Loader) DecodeRegion(rect image.Rectangle, opts DecodeOptions) (*Bitmap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return nil, ErrDestroyed
	}

	sample := opts.SampleSize
	if sample < 1 {
		sample = 1
	}
	opts.SampleSize = sample
	opts.Format = FormatNRGBA

	// Reuse buffer dimensions in unsampled (physical) pixels.
	unsampledW, unsampledH := -1, -1
	if opts.Reuse != nil {
		unsampledW = opts.Reuse.Width() * sample
		unsampledH = opts.Reuse.Height() * sample
	}

	phys := physicalRect(rect, l.rotation, l.originalWidth, l.originalHeight)
	phys = phys.Intersect(image.Rect(0, 0, l.originalWidth, l.originalHeight))
	if phys.Empty() {
		return nil, ErrEmptyRegion
	}

	bm, err := l.engine.DecodeRegion(phys, opts)
	if err != nil {
		return nil, fmt.Errorf("region: decode %v: %w", phys, err)
	}
	if bm == nil || bm.Width() == 0 || bm.Height() == 0 {
		return nil, ErrNoPixels
	}

	// Format substitution can be region- and size-dependent, so the
	// construction-time probe is not enough on affected engines.
	if l.checkFormat && bm.Format() != FormatNRGBA {
		bm.Release()
		return nil, fmt.Errorf("%w: got %v", ErrFormat, bm.Format())
	}

	if opts.Reuse != nil && (phys.Dx() != unsampledW || phys.Dy() != unsampledH) {
		// An engine handed a reuse buffer may return more pixels than
		// the request covered; keep only the top-left sub-rectangle the
		// request actually asked for.
		b := bm.Image().Bounds()
		sub := NewBitmap(imaging.Crop(bm.Image(), image.Rect(
			b.Min.X, b.Min.Y,
			b.Min.X+phys.Dx()/sample, b.Min.Y+phys.Dy()/sample)))
		if bm != opts.Reuse && bm != sub {
			bm.Release()
		}
		bm = sub
	}

	if l.rotation != Rotate0 {
		rotated := NewBitmap(rotateCW(bm.Image(), l.rotation))
		if bm != opts.Reuse && bm != rotated {
			bm.Release()
		}
		bm = rotated
	}

	return bm, nil
}

// Destroy releases the decode engine and closes the byte source. A close
// failure is swallowed: teardown is best-effort and the source is being
// discarded regardless. Destroy is idempotent; DecodeRegion calls after
// the first Destroy return ErrDestroyed.
func (l *Loader) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return
	}
	l.destroyed = true
	l.engine.Release()
	l.engine = nil
	if l.src != nil {
		_ = l.src.Close()
	}
}
