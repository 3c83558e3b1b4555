package imagedec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/nailbrother/muzei/internal/region"
)

// patternImage gives every pixel a position-dependent color so region
// extraction errors show up as content mismatches.
func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func deepImage(w, h int) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(x * 257), G: uint16(y * 257), B: 0x8000, A: 0xFFFF,
			})
		}
	}
	return img
}

func TestOpen_Dimensions(t *testing.T) {
	data := encodePNG(t, patternImage(64, 48))

	eng, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer eng.Release()

	w, h := eng.Dimensions()
	if w != 64 || h != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", w, h)
	}
	if eng.MaySubstituteFormat() {
		t.Error("default engine should not report format substitution")
	}
}

func TestOpen_InvalidInput(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("nil reader should fail")
	}
	if _, err := Open(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("undecodable bytes should fail")
	}
}

func TestDecodeRegion_Content(t *testing.T) {
	src := patternImage(64, 48)
	eng, err := Open(bytes.NewReader(encodePNG(t, src)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer eng.Release()

	rect := image.Rect(10, 5, 40, 30)
	bm, err := eng.DecodeRegion(rect, region.DecodeOptions{SampleSize: 1, Format: region.FormatNRGBA})
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}

	if bm.Format() != region.FormatNRGBA {
		t.Fatalf("format: got %v, want nrgba", bm.Format())
	}
	got, ok := bm.Image().(*image.NRGBA)
	if !ok {
		t.Fatalf("image type: got %T, want *image.NRGBA", bm.Image())
	}
	want := imaging.Crop(src, rect)
	if got.Bounds().Dx() != 30 || got.Bounds().Dy() != 25 {
		t.Fatalf("dimensions: got %v, want 30x25", got.Bounds())
	}
	for y := 0; y < 25; y++ {
		for x := 0; x < 30; x++ {
			if got.NRGBAAt(x, y) != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got.NRGBAAt(x, y), want.NRGBAAt(x, y))
			}
		}
	}
}

func TestDecodeRegion_SampleSize(t *testing.T) {
	eng, err := Open(bytes.NewReader(encodePNG(t, patternImage(64, 48))))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer eng.Release()

	bm, err := eng.DecodeRegion(image.Rect(0, 0, 50, 30), region.DecodeOptions{SampleSize: 4})
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}
	if bm.Width() != 12 || bm.Height() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7 (floor 50/4 x floor 30/4)", bm.Width(), bm.Height())
	}
}

func TestDecodeRegion_CollapsedBySampleSize(t *testing.T) {
	eng, err := Open(bytes.NewReader(encodePNG(t, patternImage(64, 48))))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer eng.Release()

	if _, err := eng.DecodeRegion(image.Rect(0, 0, 3, 3), region.DecodeOptions{SampleSize: 4}); err == nil {
		t.Error("region smaller than the sample size should fail")
	}
}

func TestDecodeRegion_Reuse(t *testing.T) {
	eng, err := Open(bytes.NewReader(encodePNG(t, patternImage(64, 48))))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer eng.Release()

	reuse := region.BorrowBitmap(image.NewNRGBA(image.Rect(0, 0, 20, 20)))
	bm, err := eng.DecodeRegion(image.Rect(4, 4, 24, 24), region.DecodeOptions{SampleSize: 1, Reuse: reuse})
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}
	if bm != reuse {
		t.Error("matching reuse buffer should be decoded into and returned")
	}

	// Mismatched reuse dimensions: a fresh buffer comes back instead.
	small := region.BorrowBitmap(image.NewNRGBA(image.Rect(0, 0, 5, 5)))
	bm, err = eng.DecodeRegion(image.Rect(4, 4, 24, 24), region.DecodeOptions{SampleSize: 1, Reuse: small})
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}
	if bm == small {
		t.Error("mismatched reuse buffer must not be returned")
	}
	if bm.Width() != 20 || bm.Height() != 20 {
		t.Errorf("dimensions: got %dx%d, want 20x20", bm.Width(), bm.Height())
	}
}

func TestDecodeRegion_AfterRelease(t *testing.T) {
	eng, err := Open(bytes.NewReader(encodePNG(t, patternImage(16, 16))))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	eng.Release()
	if _, err := eng.DecodeRegion(image.Rect(0, 0, 4, 4), region.DecodeOptions{}); err == nil {
		t.Error("decode after release should fail")
	}
}

func TestKeepHighDepth(t *testing.T) {
	data := encodePNG(t, deepImage(16, 16))

	t.Run("preserves 16-bit output", func(t *testing.T) {
		eng, err := Open(bytes.NewReader(data), WithKeepHighDepth())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer eng.Release()

		if !eng.MaySubstituteFormat() {
			t.Fatal("keep-high-depth engine must report format substitution")
		}
		bm, err := eng.DecodeRegion(image.Rect(0, 0, 8, 8), region.DecodeOptions{Format: region.FormatNRGBA})
		if err != nil {
			t.Fatalf("DecodeRegion failed: %v", err)
		}
		if bm.Format() != region.FormatNRGBA64 {
			t.Errorf("format: got %v, want nrgba64", bm.Format())
		}
	})

	t.Run("8-bit sources unaffected", func(t *testing.T) {
		eng, err := Open(bytes.NewReader(encodePNG(t, patternImage(16, 16))), WithKeepHighDepth())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer eng.Release()

		bm, err := eng.DecodeRegion(image.Rect(0, 0, 8, 8), region.DecodeOptions{Format: region.FormatNRGBA})
		if err != nil {
			t.Fatalf("DecodeRegion failed: %v", err)
		}
		if bm.Format() != region.FormatNRGBA {
			t.Errorf("format: got %v, want nrgba", bm.Format())
		}
	})
}

func TestOpenLoader_RejectsHighDepthSource(t *testing.T) {
	rc := io.NopCloser(bytes.NewReader(encodePNG(t, deepImage(16, 16))))

	_, err := OpenLoader(rc, region.Rotate0, WithKeepHighDepth())
	if !errors.Is(err, region.ErrFormat) {
		t.Fatalf("err = %v, want region.ErrFormat", err)
	}
}

func TestOpenLoader_RotatedDecode(t *testing.T) {
	src := patternImage(24, 16)
	rc := io.NopCloser(bytes.NewReader(encodePNG(t, src)))

	l, err := OpenLoader(rc, region.Rotate90)
	if err != nil {
		t.Fatalf("OpenLoader failed: %v", err)
	}
	defer l.Destroy()

	if l.Width() != 16 || l.Height() != 24 {
		t.Fatalf("logical dimensions: got %dx%d, want 16x24", l.Width(), l.Height())
	}

	bm, err := l.DecodeRegion(image.Rect(0, 0, 16, 24), region.DecodeOptions{})
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}

	// The full logical view is the source rotated 90 degrees clockwise,
	// which is imaging's counter-clockwise 270.
	want := imaging.Rotate270(src)
	got := bm.Image().(*image.NRGBA)
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds: got %v, want %v", got.Bounds(), want.Bounds())
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 16; x++ {
			if got.NRGBAAt(x, y) != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got.NRGBAAt(x, y), want.NRGBAAt(x, y))
			}
		}
	}
}
