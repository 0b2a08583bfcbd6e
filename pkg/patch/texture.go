package patch

import "sync"

// TextureTable hands out opaque texture ids to graphics units. Id 0 means
// "no texture". The renderer maps ids to GPU resources; the runtime only
// tracks ownership.
type TextureTable struct {
	mu    sync.Mutex
	next  int
	owner map[int]Handle
}

// NewTextureTable returns an empty table.
func NewTextureTable() *TextureTable {
	return &TextureTable{next: 1, owner: make(map[int]Handle)}
}

// Allocate returns a fresh id owned by h.
func (t *TextureTable) Allocate(h Handle) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	t.owner[id] = h
	return id
}

// Release frees id. Releasing 0 or an unknown id is a no-op.
func (t *TextureTable) Release(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.owner, id)
}

// Owner returns the unit that allocated id.
func (t *TextureTable) Owner(id int) (Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.owner[id]
	return h, ok
}

// Len returns the number of live textures.
func (t *TextureTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.owner)
}
