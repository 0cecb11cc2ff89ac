// Package layout computes message storage layouts.
//
// A message's data region is a presence bitmap (one bit per field) followed
// by inline scalar storage at naturally aligned byte offsets. Fields whose
// values are shared by reference (strings, arrays, submessages) occupy
// reference slots instead of inline bytes; the calculator assigns slot
// indexes sequentially.
package layout
