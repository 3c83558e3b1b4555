package imagedec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/nailbrother/muzei/internal/region"
)

// Option configures an Engine at Open time.
type Option func(*Engine)

// WithKeepHighDepth makes the engine return 16-bit sources at full depth
// instead of converting them down to NRGBA. Callers that can only consume
// NRGBA should not set this; region.Loader treats such engines as
// format-substituting and refuses high-depth sources up front.
func WithKeepHighDepth() Option {
	return func(e *Engine) {
		e.keepDepth = true
	}
}

// Engine is a region.Engine over a stream of encoded image bytes.
//
// Engine is safe for concurrent use, though region.Loader already
// serializes all calls to it.
type Engine struct {
	mu        sync.Mutex
	data      []byte
	width     int
	height    int
	keepDepth bool
	full      image.Image
	released  bool
}

// Open reads all encoded bytes from r and validates that they carry a
// decodable image with positive dimensions. The pixel data itself is not
// decoded until the first region request. Open does not close r.
func Open(r io.Reader, opts ...Option) (*Engine, error) {
	if r == nil {
		return nil, errors.New("imagedec: nil source")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imagedec: read source: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imagedec: decode header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("imagedec: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	e := &Engine{data: data, width: cfg.Width, height: cfg.Height}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// OpenLoader opens rc as a rotated region loader backed by this package's
// engine. The loader takes ownership of rc and closes it on Destroy. On
// error rc is left open and the caller must close it.
func OpenLoader(rc io.ReadCloser, rotation region.Rotation, opts ...Option) (*region.Loader, error) {
	if rc == nil {
		return nil, errors.New("imagedec: nil source")
	}
	eng, err := Open(rc, opts...)
	if err != nil {
		return nil, err
	}
	l, err := region.NewLoader(eng, rc, rotation)
	if err != nil {
		eng.Release()
		return nil, err
	}
	return l, nil
}

// Dimensions returns the stored image's width and height.
func (e *Engine) Dimensions() (int, int) {
	return e.width, e.height
}

// MaySubstituteFormat reports whether decodes can come back in a format
// other than the requested one. Only true when WithKeepHighDepth is set.
func (e *Engine) MaySubstituteFormat() bool {
	return e.keepDepth
}

// Release drops the encoded bytes and any cached decode. Further
// DecodeRegion calls fail.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
	e.data = nil
	e.full = nil
}

// DecodeRegion decodes the given physical rectangle, downscaled by
// opts.SampleSize. A reuse buffer is honored only when it is NRGBA and
// matches the output dimensions exactly; this engine never over-fetches.
func (e *Engine) DecodeRegion(rect image.Rectangle, opts region.DecodeOptions) (*region.Bitmap, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return nil, errors.New("imagedec: engine released")
	}
	sample := opts.SampleSize
	if sample < 1 {
		sample = 1
	}

	full, err := e.image()
	if err != nil {
		return nil, err
	}

	r := rect.Intersect(image.Rect(0, 0, e.width, e.height))
	if r.Empty() {
		return nil, fmt.Errorf("imagedec: region %v outside image bounds", rect)
	}
	outW, outH := r.Dx()/sample, r.Dy()/sample
	if outW == 0 || outH == 0 {
		return nil, fmt.Errorf("imagedec: region %v collapses at sample size %d", r, sample)
	}

	if e.keepDepth && highDepth(full) {
		return region.NewBitmap(extractDeep(full, r, sample)), nil
	}

	var out *image.NRGBA
	if sample == 1 {
		out = imaging.Crop(full, r)
	} else {
		resized := transform.Resize(imaging.Crop(full, r), outW, outH, transform.NearestNeighbor)
		out = imaging.Clone(resized)
	}

	if reuse := opts.Reuse; reuse != nil {
		if dst, ok := reuse.Image().(*image.NRGBA); ok && reuse.Width() == outW && reuse.Height() == outH {
			draw.Draw(dst, dst.Bounds(), out, out.Bounds().Min, draw.Src)
			return reuse, nil
		}
	}
	return region.NewBitmap(out), nil
}

// image decodes the full source on first use and caches it; the encoded
// bytes are dropped once the decode exists.
func (e *Engine) image() (image.Image, error) {
	if e.full != nil {
		return e.full, nil
	}
	img, _, err := image.Decode(bytes.NewReader(e.data))
	if err != nil {
		return nil, fmt.Errorf("imagedec: decode: %w", err)
	}
	e.full = img
	e.data = nil
	return img, nil
}

func highDepth(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA64, *image.RGBA64, *image.Gray16:
		return true
	}
	return false
}

// extractDeep copies a region at full 16-bit depth. imaging and bild both
// work in 8-bit buffers, so this path samples the source directly.
func extractDeep(src image.Image, r image.Rectangle, sample int) *image.NRGBA64 {
	outW, outH := r.Dx()/sample, r.Dy()/sample
	dst := image.NewNRGBA64(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			dst.Set(x, y, src.At(r.Min.X+x*sample, r.Min.Y+y*sample))
		}
	}
	return dst
}
