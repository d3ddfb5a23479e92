// Package memory provides the buffer pool backing scanio load cycles.
//
// # Ownership Model
//
// A Buffer is refcounted. The pool hands out buffers with one reference,
// Slice creates non-owning views that keep their parent alive, and Release
// returns the backing slab to the pool once the last reference is gone.
// This lets a merged group buffer be sliced into per-request views without
// copying, while the pool still gets the slab back for reuse after every
// view has been released.
//
// # Concurrency
//
// Acquire/Release are safe for concurrent use. The pool is safe for
// concurrent Allocate calls and may be shared by any number of
// BufferedInput instances.
package memory
