// Package resource caches the images, fonts and texts an application
// refers to by handle. Sources are stored as given and only resolved into
// bytes the first time those bytes are requested; the outcome, success or
// failure, is cached until the handle is re-added or deleted.
//
// A Cache belongs to the UI goroutine. It holds no locks and must not be
// touched from background tasks.
package resource

import (
	"log/slog"

	"gitlab.com/tinyland/lab/framekit/pkg/handle"
)

// ImageAPI is the image half of the cache surface. Wrappers that expose
// the cache do so by embedding a *Cache rather than forwarding methods.
type ImageAPI interface {
	AddImage(id handle.ImageID, src ImageSource)
	AddImageRaw(id handle.ImageID, raw RawImage)
	HasImage(id handle.ImageID) bool
	ImageBytes(id handle.ImageID) ([]byte, ImageInfo, bool, error)
	DeleteImage(id handle.ImageID)
	AddCSSImageID(name string) handle.ImageID
	HasCSSImageID(name string) bool
	CSSImageID(name string) (handle.ImageID, bool)
	DeleteCSSImageID(name string) (handle.ImageID, bool)
	LoadedImageIDs() []handle.ImageID
	LoadedCSSImageIDs() []string
}

// FontAPI is the font half of the cache surface.
type FontAPI interface {
	AddFont(id handle.FontID, src FontSource)
	HasFont(id handle.FontID) bool
	FontBytes(id handle.FontID) ([]byte, FontInfo, bool, error)
	DeleteFont(id handle.FontID)
	AddCSSFontID(name string) handle.FontID
	HasCSSFontID(name string) bool
	CSSFontID(name string) (handle.FontID, bool)
	DeleteCSSFontID(name string) (handle.FontID, bool)
	LoadedFontIDs() []handle.FontID
	LoadedCSSFontIDs() []string
}

// TextAPI is the text cache surface.
type TextAPI interface {
	AddText(s string) handle.TextID
	HasText(id handle.TextID) bool
	Text(id handle.TextID) (string, bool)
	DeleteText(id handle.TextID)
	ClearAllTexts()
	LoadedTextIDs() []handle.TextID
}

var (
	_ ImageAPI = (*Cache)(nil)
	_ FontAPI  = (*Cache)(nil)
	_ TextAPI  = (*Cache)(nil)
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Images      int
	Fonts       int
	Texts       int
	CSSImages   int
	CSSFonts    int
	Resolved    uint64 // pending entries that loaded
	Failed      uint64 // pending entries that failed
	PooledBlobs int
	PooledBytes int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseDir sets the directory relative file sources resolve against.
func WithBaseDir(dir string) Option {
	return func(c *Cache) { c.res.baseDir = dir }
}

// WithMaxFileSize rejects file sources larger than n bytes as unreadable.
// Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(c *Cache) { c.res.maxFileSize = n }
}

// Cache owns every loaded or pending asset, keyed by handle.
type Cache struct {
	logger *slog.Logger
	res    resolver
	pool   *blobPool

	images   *table[handle.ImageID, ImageSource, ImageInfo]
	fonts    *table[handle.FontID, FontSource, FontInfo]
	cssImage *NamedIDMap[handle.ImageID]
	cssFont  *NamedIDMap[handle.FontID]
	texts    map[handle.TextID]string
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		logger:   slog.New(slog.DiscardHandler),
		pool:     newBlobPool(),
		cssImage: NewNamedIDMap(handle.NewImageID),
		cssFont:  NewNamedIDMap(handle.NewFontID),
		texts:    make(map[handle.TextID]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.images = newTable[handle.ImageID](c.pool, c.resolveImage)
	c.fonts = newTable[handle.FontID](c.pool, c.resolveFont)
	return c
}

func (c *Cache) resolveImage(src ImageSource) ([]byte, ImageInfo, error) {
	data, info, err := c.res.image(src)
	if err != nil {
		c.logger.Warn("image resolution failed", "source", src.String(), "error", err)
		return nil, info, err
	}
	c.logger.Debug("image resolved", "source", src.String(), "format", info.Format,
		"width", info.Width, "height", info.Height, "bytes", len(data))
	return data, info, nil
}

func (c *Cache) resolveFont(src FontSource) ([]byte, FontInfo, error) {
	data, info, err := c.res.font(src)
	if err != nil {
		c.logger.Warn("font resolution failed", "source", src.String(), "error", err)
		return nil, info, err
	}
	c.logger.Debug("font resolved", "source", src.String(), "family", info.Family,
		"faces", info.Faces, "bytes", len(data))
	return data, info, nil
}

// --- images ---

// AddImage inserts or replaces the source for id. Invalid sources are
// only detected when the bytes are first requested.
func (c *Cache) AddImage(id handle.ImageID, src ImageSource) {
	c.images.add(id, src)
}

// AddImageRaw inserts or replaces id with an already decoded buffer.
func (c *Cache) AddImageRaw(id handle.ImageID, raw RawImage) {
	c.images.add(id, ImageRaw(raw))
}

// HasImage reports whether id has an entry, pending or loaded.
func (c *Cache) HasImage(id handle.ImageID) bool {
	return c.images.has(id)
}

// ImageBytes returns the bytes for id, resolving a pending source now.
// ok is false if id is unknown; err is a *ReloadError if resolution
// failed. Both outcomes are cached.
func (c *Cache) ImageBytes(id handle.ImageID) ([]byte, ImageInfo, bool, error) {
	return c.images.get(id)
}

// DeleteImage removes id. Any CSS id bound to it stays bound.
func (c *Cache) DeleteImage(id handle.ImageID) {
	c.images.remove(id)
}

// AddCSSImageID returns the handle bound to name, allocating one if the
// name is new. No entry exists for the handle until AddImage is called.
func (c *Cache) AddCSSImageID(name string) handle.ImageID {
	return c.cssImage.Add(name)
}

// HasCSSImageID reports whether name is bound.
func (c *Cache) HasCSSImageID(name string) bool {
	return c.cssImage.Has(name)
}

// CSSImageID returns the handle bound to name.
func (c *Cache) CSSImageID(name string) (handle.ImageID, bool) {
	return c.cssImage.Get(name)
}

// DeleteCSSImageID unbinds name. The image entry is left untouched.
func (c *Cache) DeleteCSSImageID(name string) (handle.ImageID, bool) {
	return c.cssImage.Delete(name)
}

// LoadedImageIDs returns a snapshot of every image handle with an entry.
func (c *Cache) LoadedImageIDs() []handle.ImageID {
	return c.images.ids()
}

// LoadedCSSImageIDs returns every bound image CSS id.
func (c *Cache) LoadedCSSImageIDs() []string {
	return c.cssImage.Names()
}

// --- fonts ---

// AddFont inserts or replaces the source for id.
func (c *Cache) AddFont(id handle.FontID, src FontSource) {
	c.fonts.add(id, src)
}

// HasFont reports whether id has an entry.
func (c *Cache) HasFont(id handle.FontID) bool {
	return c.fonts.has(id)
}

// FontBytes returns the font container bytes and the selected face index
// (in FontInfo.Index), resolving a pending source now.
func (c *Cache) FontBytes(id handle.FontID) ([]byte, FontInfo, bool, error) {
	return c.fonts.get(id)
}

// DeleteFont removes id. Any CSS id bound to it stays bound.
func (c *Cache) DeleteFont(id handle.FontID) {
	c.fonts.remove(id)
}

// AddCSSFontID returns the handle bound to name, allocating one if new.
func (c *Cache) AddCSSFontID(name string) handle.FontID {
	return c.cssFont.Add(name)
}

// HasCSSFontID reports whether name is bound.
func (c *Cache) HasCSSFontID(name string) bool {
	return c.cssFont.Has(name)
}

// CSSFontID returns the handle bound to name.
func (c *Cache) CSSFontID(name string) (handle.FontID, bool) {
	return c.cssFont.Get(name)
}

// DeleteCSSFontID unbinds name. The font entry is left untouched.
func (c *Cache) DeleteCSSFontID(name string) (handle.FontID, bool) {
	return c.cssFont.Delete(name)
}

// LoadedFontIDs returns a snapshot of every font handle with an entry.
func (c *Cache) LoadedFontIDs() []handle.FontID {
	return c.fonts.ids()
}

// LoadedCSSFontIDs returns every bound font CSS id.
func (c *Cache) LoadedCSSFontIDs() []string {
	return c.cssFont.Names()
}

// --- texts ---

// AddText stores s under a new TextID. Only the string is kept; layout
// belongs to the renderer.
func (c *Cache) AddText(s string) handle.TextID {
	id := handle.NewTextID()
	c.texts[id] = s
	return id
}

// HasText reports whether id is still in the text cache.
func (c *Cache) HasText(id handle.TextID) bool {
	_, ok := c.texts[id]
	return ok
}

// Text returns the string for id. After ClearAllTexts every earlier id
// reports ok=false; callers render nothing for it.
func (c *Cache) Text(id handle.TextID) (string, bool) {
	s, ok := c.texts[id]
	return s, ok
}

// DeleteText removes one string.
func (c *Cache) DeleteText(id handle.TextID) {
	delete(c.texts, id)
}

// ClearAllTexts empties the text cache, invalidating every TextID.
func (c *Cache) ClearAllTexts() {
	n := len(c.texts)
	c.texts = make(map[handle.TextID]string)
	c.logger.Debug("text cache cleared", "removed", n)
}

// LoadedTextIDs returns a sorted snapshot of every TextID.
func (c *Cache) LoadedTextIDs() []handle.TextID {
	out := make([]handle.TextID, 0, len(c.texts))
	for id := range c.texts {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

// Stats returns current cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Images:      c.images.len(),
		Fonts:       c.fonts.len(),
		Texts:       len(c.texts),
		CSSImages:   c.cssImage.Len(),
		CSSFonts:    c.cssFont.Len(),
		Resolved:    c.images.resolved + c.fonts.resolved,
		Failed:      c.images.failed + c.fonts.failed,
		PooledBlobs: c.pool.len(),
		PooledBytes: c.pool.size(),
	}
}

// Close drops every entry and pooled buffer. CSS bindings are kept so
// handles captured by style sheets stay stable across a reload.
func (c *Cache) Close() {
	c.images.clear()
	c.fonts.clear()
	c.texts = make(map[handle.TextID]string)
}
