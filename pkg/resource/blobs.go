package resource

import (
	"crypto/sha256"

	"go4.org/mem"
)

// blob is one pooled, immutable byte buffer.
type blob struct {
	hash [32]byte
	data mem.RO
	refs int
}

// blobPool deduplicates resolved bytes by content hash. Entries that
// resolve to identical bytes share one buffer; the buffer is dropped when
// its last reference is released.
type blobPool struct {
	items map[[32]byte]*blob
	bytes int64
}

func newBlobPool() *blobPool {
	return &blobPool{items: make(map[[32]byte]*blob)}
}

// acquire returns the pooled blob for data, taking a reference. data is
// copied on first insert so the caller may reuse its slice.
func (p *blobPool) acquire(data []byte) *blob {
	h := sha256.Sum256(data)
	if b, ok := p.items[h]; ok {
		b.refs++
		return b
	}
	own := make([]byte, len(data))
	copy(own, data)
	b := &blob{hash: h, data: mem.B(own), refs: 1}
	p.items[h] = b
	p.bytes += int64(len(own))
	return b
}

// release drops one reference; nil is ignored.
func (p *blobPool) release(b *blob) {
	if b == nil {
		return
	}
	b.refs--
	if b.refs > 0 {
		return
	}
	if cur, ok := p.items[b.hash]; ok && cur == b {
		delete(p.items, b.hash)
		p.bytes -= int64(b.data.Len())
	}
}

// copyOut returns a private copy of the blob's bytes.
func (b *blob) copyOut() []byte {
	return mem.Append(make([]byte, 0, b.data.Len()), b.data)
}

func (p *blobPool) len() int { return len(p.items) }

func (p *blobPool) size() int64 { return p.bytes }
