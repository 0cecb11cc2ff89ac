package msg

import "sync/atomic"

// String is a reference-counted byte buffer backing string and bytes fields.
// Multiple owners may share one String; mutation is only legal while the
// caller is its sole logical owner (typically a decoder populating a freshly
// obtained or recycled instance).
type String struct {
	buf  []byte
	refs atomic.Int32
}

// NewString returns an empty string buffer with a reference count of 1.
func NewString() *String {
	s := &String{}
	s.refs.Store(1)
	return s
}

// NewStringCopy returns a string buffer holding a copy of b, refcount 1.
func NewStringCopy(b []byte) *String {
	s := NewString()
	s.buf = append(s.buf, b...)
	return s
}

// Len returns the byte length.
func (s *String) Len() int { return len(s.buf) }

// Bytes returns the backing bytes. Shared owners must treat the result as
// read-only.
func (s *String) Bytes() []byte { return s.buf }

// String returns the contents as a Go string.
func (s *String) String() string { return string(s.buf) }

// SetBytes replaces the contents with a copy of b, reusing the existing
// allocation when capacity allows. Valid only while the caller is the sole
// owner.
func (s *String) SetBytes(b []byte) {
	s.buf = append(s.buf[:0], b...)
}

// Ref acquires one reference and returns s.
func (s *String) Ref() *String {
	s.refs.Add(1)
	return s
}

// Unref releases one reference. The last release drops the buffer.
func (s *String) Unref() {
	if s == nil {
		return
	}
	if s.refs.Add(-1) == 0 {
		s.buf = nil
	}
}
