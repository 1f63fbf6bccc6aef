package resource

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

type sourceKind uint8

const (
	sourceEmbedded sourceKind = iota + 1
	sourceFile
	sourceRaw
)

// ImageSource describes where an image's bytes come from. Build one with
// ImageBytes, ImageFile or ImageRaw.
type ImageSource struct {
	kind sourceKind
	data []byte
	path string
	raw  RawImage
}

// ImageBytes wraps encoded image bytes (png, jpeg, gif, bmp, tiff, webp)
// that are already in memory. data is copied; the caller may reuse it.
func ImageBytes(data []byte) ImageSource {
	return ImageSource{kind: sourceEmbedded, data: bytes.Clone(data)}
}

// ImageFile refers to an encoded image on disk. Relative paths resolve
// against the cache's base directory.
func ImageFile(path string) ImageSource {
	return ImageSource{kind: sourceFile, path: path}
}

// ImageRaw wraps an already decoded pixel buffer. Pixels are copied.
func ImageRaw(raw RawImage) ImageSource {
	raw.Pixels = bytes.Clone(raw.Pixels)
	return ImageSource{kind: sourceRaw, raw: raw}
}

// String describes the source for logs and errors.
func (s ImageSource) String() string {
	switch s.kind {
	case sourceEmbedded:
		return fmt.Sprintf("embedded(%d bytes)", len(s.data))
	case sourceFile:
		return "file(" + s.path + ")"
	case sourceRaw:
		return fmt.Sprintf("raw(%dx%d %s)", s.raw.Width, s.raw.Height, s.raw.Format)
	}
	return "invalid"
}

// FontSource describes a font container and which face in it to use.
type FontSource struct {
	kind  sourceKind
	data  []byte
	path  string
	index int
}

// FontBytes wraps TTF/OTF/TTC data already in memory. index selects the
// face inside a collection; use 0 for single-face files. data is copied.
func FontBytes(data []byte, index int) FontSource {
	return FontSource{kind: sourceEmbedded, data: bytes.Clone(data), index: index}
}

// FontFile refers to a font file on disk.
func FontFile(path string, index int) FontSource {
	return FontSource{kind: sourceFile, path: path, index: index}
}

// String describes the source for logs and errors.
func (s FontSource) String() string {
	switch s.kind {
	case sourceEmbedded:
		return fmt.Sprintf("embedded(%d bytes)[%d]", len(s.data), s.index)
	case sourceFile:
		return fmt.Sprintf("file(%s)[%d]", s.path, s.index)
	}
	return "invalid"
}

// PixelFormat is the channel layout of a RawImage.
type PixelFormat uint8

const (
	Gray8 PixelFormat = iota + 1
	GrayAlpha8
	RGB8
	RGBA8
	BGRA8
)

// BytesPerPixel returns the pixel stride, or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Gray8:
		return 1
	case GrayAlpha8:
		return 2
	case RGB8:
		return 3
	case RGBA8, BGRA8:
		return 4
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case Gray8:
		return "gray8"
	case GrayAlpha8:
		return "grayalpha8"
	case RGB8:
		return "rgb8"
	case RGBA8:
		return "rgba8"
	case BGRA8:
		return "bgra8"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// RawImage is a tightly packed, already decoded pixel buffer.
type RawImage struct {
	Pixels []byte
	Width  int
	Height int
	Format PixelFormat
}

// rawView exposes a RawImage as an image.Image so it can be normalized by
// the imaging package without a per-format conversion routine.
type rawView struct {
	RawImage
	bpp int
}

func (v rawView) ColorModel() color.Model { return color.NRGBAModel }

func (v rawView) Bounds() image.Rectangle { return image.Rect(0, 0, v.Width, v.Height) }

func (v rawView) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return color.NRGBA{}
	}
	p := v.Pixels[(y*v.Width+x)*v.bpp:]
	switch v.Format {
	case Gray8:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: 0xff}
	case GrayAlpha8:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
	case RGB8:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
	case RGBA8:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	case BGRA8:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.NRGBA{}
}
