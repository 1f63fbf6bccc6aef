package resource

import (
	"slices"

	"gitlab.com/tinyland/lab/framekit/pkg/handle"
)

type entryState uint8

const (
	statePending entryState = iota
	stateLoaded
	stateFailed
)

// entry is one cached asset: a pending source, or the cached outcome of
// resolving it.
type entry[S, I any] struct {
	source S
	state  entryState
	blob   *blob
	info   I
	err    error
}

// table holds the entries of one asset kind. The same code serves images
// and fonts; only the source, metadata and resolve function differ.
type table[H handle.Kind, S, I any] struct {
	entries map[H]*entry[S, I]
	pool    *blobPool
	resolve func(S) ([]byte, I, error)

	// resolved and failed count state transitions out of pending.
	resolved uint64
	failed   uint64
}

func newTable[H handle.Kind, S, I any](pool *blobPool, resolve func(S) ([]byte, I, error)) *table[H, S, I] {
	return &table[H, S, I]{
		entries: make(map[H]*entry[S, I]),
		pool:    pool,
		resolve: resolve,
	}
}

// add inserts or replaces a pending entry, dropping any cached outcome.
func (t *table[H, S, I]) add(id H, src S) {
	if old, ok := t.entries[id]; ok {
		t.pool.release(old.blob)
	}
	t.entries[id] = &entry[S, I]{source: src}
}

func (t *table[H, S, I]) has(id H) bool {
	_, ok := t.entries[id]
	return ok
}

// get resolves the entry on first use and returns the cached outcome on
// every later call. ok is false only for unknown handles.
func (t *table[H, S, I]) get(id H) (data []byte, info I, ok bool, err error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, info, false, nil
	}
	if e.state == statePending {
		raw, meta, rerr := t.resolve(e.source)
		if rerr != nil {
			e.state = stateFailed
			e.err = rerr
			t.failed++
		} else {
			e.state = stateLoaded
			e.blob = t.pool.acquire(raw)
			e.info = meta
			t.resolved++
		}
	}
	if e.state == stateFailed {
		return nil, info, true, e.err
	}
	return e.blob.copyOut(), e.info, true, nil
}

// remove deletes the entry unconditionally.
func (t *table[H, S, I]) remove(id H) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	t.pool.release(e.blob)
	delete(t.entries, id)
	return true
}

// ids returns a sorted snapshot of every known handle.
func (t *table[H, S, I]) ids() []H {
	out := make([]H, 0, len(t.entries))
	for id := range t.entries {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (t *table[H, S, I]) clear() {
	for _, e := range t.entries {
		t.pool.release(e.blob)
	}
	t.entries = make(map[H]*entry[S, I])
}

func (t *table[H, S, I]) len() int { return len(t.entries) }

func sortIDs[H handle.Kind](ids []H) {
	slices.Sort(ids)
}
