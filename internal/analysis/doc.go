// Package analysis summarizes the colors of decoded image regions.
//
// Wallpaper pipelines pick accent and scrim colors from the region they
// are about to display; this package provides the two summaries they
// need: the mean color of a region and its dominant quantized colors.
// Results carry hex, RGB and HSL representations so callers can feed
// whichever color space their theming layer wants.
package analysis
