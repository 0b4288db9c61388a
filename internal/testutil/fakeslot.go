package testutil

import (
	"sync"

	"taskpad/internal/storage"
)

// FakeSlot is an in-memory storage.Slot that records writes and can be made
// to fail.
type FakeSlot struct {
	mu   sync.Mutex
	data map[string][]byte

	// Saves counts successful and failed Save calls.
	Saves int

	// Error injection for testing
	LoadErr  error
	SaveErr  error
	CloseErr error
	Closed   bool
}

// NewFakeSlot creates an empty FakeSlot.
func NewFakeSlot() *FakeSlot {
	return &FakeSlot{data: make(map[string][]byte)}
}

// Put seeds a value without counting it as a save.
func (f *FakeSlot) Put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), data...)
}

// Get returns the stored value and whether it exists.
func (f *FakeSlot) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Load implements storage.Slot.
func (f *FakeSlot) Load(key string) ([]byte, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save implements storage.Slot.
func (f *FakeSlot) Save(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.data[key] = append([]byte(nil), data...)
	return nil
}

// Close implements storage.Slot.
func (f *FakeSlot) Close() error {
	f.Closed = true
	return f.CloseErr
}
