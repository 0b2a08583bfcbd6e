package units

import (
	"sync"

	"github.com/matzehuels/raytone/pkg/patch"
)

// KeyInput outputs 1 while its key is held. In non-continuous mode it
// outputs 1 for one tick after each key press instead.
type KeyInput struct {
	mu         sync.Mutex
	key        string
	continuous bool
	held       bool
	queued     bool
	status     bool
}

// NewKeyInput returns a continuous watcher of the "a" key.
func NewKeyInput() *KeyInput { return &KeyInput{key: "a", continuous: true} }

// Key returns the watched key.
func (k *KeyInput) Key() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key
}

func (k *KeyInput) KeyDown(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if key != k.key {
		return
	}
	if !k.held {
		k.queued = true
	}
	k.held = true
}

func (k *KeyInput) KeyUp(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if key == k.key {
		k.held = false
	}
}

func (k *KeyInput) Step(*patch.Unit) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.continuous {
		return
	}
	k.status = k.queued
	k.queued = false
}

func (k *KeyInput) Output(*patch.Unit) float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	on := k.status
	if k.continuous {
		on = k.held
	}
	if on {
		return 1
	}
	return 0
}

func (k *KeyInput) Trigger(u *patch.Unit) int { return int(u.StoredValue()) }

func (k *KeyInput) Properties() patch.Meta {
	k.mu.Lock()
	defer k.mu.Unlock()
	m := patch.Meta{"key": k.key}
	m.SetBool("continuous", k.continuous)
	return m
}

func (k *KeyInput) Apply(m patch.Meta) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = m.String("key", k.key)
	k.continuous = m.Bool("continuous", k.continuous)
}
