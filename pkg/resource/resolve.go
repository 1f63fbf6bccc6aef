package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/sfnt"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo is the metadata captured when an image source resolves.
type ImageInfo struct {
	Format string // "png", "jpeg", ... or "nrgba" for raw buffers
	Width  int
	Height int
	Raw    bool // bytes are tightly packed NRGBA pixels, not an encoded file
}

// FontInfo is the metadata captured when a font source resolves.
type FontInfo struct {
	Index  int    // face index inside the container
	Faces  int    // number of faces in the container
	Family string // family name of the selected face, if present
}

// resolver turns sources into bytes. It only reads; it never mutates the
// cache.
type resolver struct {
	baseDir     string
	maxFileSize int64
}

func (r resolver) image(src ImageSource) ([]byte, ImageInfo, error) {
	switch src.kind {
	case sourceEmbedded:
		return sniffImage(src.data, src.String())
	case sourceFile:
		data, err := r.readFile(KindImage, src.path)
		if err != nil {
			return nil, ImageInfo{}, err
		}
		return sniffImage(data, src.String())
	case sourceRaw:
		return normalizeRaw(src.raw, src.String())
	}
	return nil, ImageInfo{}, reloadErr(KindImage, ReasonUnsupported, src.String(), errors.New("empty image source"))
}

func (r resolver) font(src FontSource) ([]byte, FontInfo, error) {
	var data []byte
	switch src.kind {
	case sourceEmbedded:
		data = src.data
	case sourceFile:
		var err error
		if data, err = r.readFile(KindFont, src.path); err != nil {
			return nil, FontInfo{}, err
		}
	default:
		return nil, FontInfo{}, reloadErr(KindFont, ReasonUnsupported, src.String(), errors.New("empty font source"))
	}
	if len(data) == 0 {
		return nil, FontInfo{}, reloadErr(KindFont, ReasonCorrupt, src.String(), errors.New("no font data"))
	}

	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, FontInfo{}, reloadErr(KindFont, ReasonCorrupt, src.String(), err)
	}
	n := coll.NumFonts()
	if src.index < 0 || src.index >= n {
		return nil, FontInfo{}, reloadErr(KindFont, ReasonUnsupported, src.String(),
			fmt.Errorf("face index %d out of range [0,%d)", src.index, n))
	}
	f, err := coll.Font(src.index)
	if err != nil {
		return nil, FontInfo{}, reloadErr(KindFont, ReasonCorrupt, src.String(), err)
	}

	info := FontInfo{Index: src.index, Faces: n}
	var buf sfnt.Buffer
	if family, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		info.Family = family
	}
	return data, info, nil
}

// readFile loads a file source, mapping filesystem failures onto reasons.
func (r resolver) readFile(kind AssetKind, path string) ([]byte, error) {
	full := path
	if !filepath.IsAbs(full) && r.baseDir != "" {
		full = filepath.Join(r.baseDir, full)
	}
	desc := "file(" + path + ")"

	st, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, reloadErr(kind, ReasonNotFound, desc, err)
		}
		return nil, reloadErr(kind, ReasonUnreadable, desc, err)
	}
	if st.IsDir() {
		return nil, reloadErr(kind, ReasonUnreadable, desc, errors.New("is a directory"))
	}
	if r.maxFileSize > 0 && st.Size() > r.maxFileSize {
		return nil, reloadErr(kind, ReasonUnreadable, desc,
			fmt.Errorf("size %d exceeds limit %d", st.Size(), r.maxFileSize))
	}

	// #nosec G304 -- asset paths are supplied by the application
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, reloadErr(kind, ReasonNotFound, desc, err)
		}
		return nil, reloadErr(kind, ReasonUnreadable, desc, err)
	}
	return data, nil
}

// sniffImage reads only the header to learn format and dimensions; the
// pixel data stays encoded.
func sniffImage(data []byte, desc string) ([]byte, ImageInfo, error) {
	if len(data) == 0 {
		return nil, ImageInfo{}, reloadErr(KindImage, ReasonCorrupt, desc, errors.New("no image data"))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ImageInfo{}, reloadErr(KindImage, ReasonUnsupported, desc, err)
		}
		return nil, ImageInfo{}, reloadErr(KindImage, ReasonCorrupt, desc, err)
	}
	return data, ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// normalizeRaw validates a decoded buffer and converts it to NRGBA.
func normalizeRaw(raw RawImage, desc string) ([]byte, ImageInfo, error) {
	bpp := raw.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, ImageInfo{}, reloadErr(KindImage, ReasonUnsupported, desc,
			fmt.Errorf("pixel format %s", raw.Format))
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, ImageInfo{}, reloadErr(KindImage, ReasonCorrupt, desc,
			fmt.Errorf("invalid dimensions %dx%d", raw.Width, raw.Height))
	}
	if want := raw.Width * raw.Height * bpp; len(raw.Pixels) != want {
		return nil, ImageInfo{}, reloadErr(KindImage, ReasonCorrupt, desc,
			fmt.Errorf("pixel buffer is %d bytes, want %d", len(raw.Pixels), want))
	}

	dst := imaging.Clone(rawView{RawImage: raw, bpp: bpp})
	return dst.Pix, ImageInfo{Format: "nrgba", Width: raw.Width, Height: raw.Height, Raw: true}, nil
}
