package analysis

import (
	"fmt"
	"image"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains one color in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// Average returns the mean color of img, averaged per channel in RGB.
func Average(img image.Image) ColorResult {
	bounds := img.Bounds()
	var rSum, gSum, bSum float64
	n := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += float64(r) / 0xFFFF
			gSum += float64(g) / 0xFFFF
			bSum += float64(b) / 0xFFFF
			n++
		}
	}
	if n == 0 {
		return toResult(colorful.Color{})
	}
	return toResult(colorful.Color{
		R: rSum / float64(n),
		G: gSum / float64(n),
		B: bSum / float64(n),
	})
}

// ColorFrequency is a quantized color and how often it occurs.
type ColorFrequency struct {
	Color      ColorResult `json:"color"`
	Percentage float64     `json:"percentage"` // Share of pixels (0-100)
}

// Dominant returns the count most frequent colors of img, most common
// first. Colors are quantized to 16-unit buckets per channel so near
// neighbors collapse into one entry; the image may therefore yield fewer
// than count results.
func Dominant(img image.Image, count int) []ColorFrequency {
	bounds := img.Bounds()
	counts := make(map[RGBColor]int)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			q := RGBColor{
				R: uint8((r >> 8) / 16 * 16),
				G: uint8((g >> 8) / 16 * 16),
				B: uint8((b >> 8) / 16 * 16),
			}
			counts[q]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	type entry struct {
		c RGBColor
		n int
	}
	entries := make([]entry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, entry{c, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		// Stable order for equal counts.
		return hexOf(entries[i].c) < hexOf(entries[j].c)
	})

	if count > len(entries) {
		count = len(entries)
	}
	result := make([]ColorFrequency, 0, count)
	for _, e := range entries[:count] {
		result = append(result, ColorFrequency{
			Color:      toResult(colorful.Color{R: float64(e.c.R) / 255, G: float64(e.c.G) / 255, B: float64(e.c.B) / 255}),
			Percentage: float64(e.n) * 100 / float64(total),
		})
	}
	return result
}

func toResult(c colorful.Color) ColorResult {
	c = c.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: int(h + 0.5), S: int(s*100 + 0.5), L: int(l*100 + 0.5)},
	}
}

func hexOf(c RGBColor) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
