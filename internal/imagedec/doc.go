// Package imagedec provides the default pure-Go region.Engine.
//
// The engine decodes any format registered with the standard image
// package: PNG, JPEG and GIF from the standard library plus BMP, TIFF and
// WebP from golang.org/x/image. Dimensions are read from the stream
// header at Open; the full pixel decode is deferred until the first
// region request and cached for the engine's lifetime. Region decoding
// straight out of compressed formats would need per-format support, so
// the engine trades one full decode's worth of memory for format
// agnosticism.
//
// By default every decode is converted to 8-bit NRGBA. With
// WithKeepHighDepth, 16-bit sources are returned at full depth even when
// NRGBA was requested; the engine then reports that it may substitute
// formats, and region.Loader's construction probe rejects such sources
// before any real decode happens.
package imagedec
