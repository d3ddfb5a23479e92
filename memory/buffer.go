package memory

import "sync/atomic"

// Buffer is a refcounted byte buffer.
//
// Buffers are created by a Pool with one reference. Views created by Slice
// hold a reference on their parent, so the backing slab is recycled only
// when the allocator's reference and every view have been released.
type Buffer struct {
	refs    atomic.Int32
	data    []byte
	parent  *Buffer
	recycle func([]byte)
}

// NewBuffer wraps data in an unpooled buffer with one reference.
// Releasing it only drops the reference; the slice is left to the GC.
func NewBuffer(data []byte) *Buffer {
	b := &Buffer{data: data}
	b.refs.Store(1)
	return b
}

func newPooledBuffer(data []byte, recycle func([]byte)) *Buffer {
	b := &Buffer{data: data, recycle: recycle}
	b.refs.Store(1)
	return b
}

// Bytes returns the buffer's contents. The slice must not be used after the
// last reference is released.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the buffer's length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Slice returns a view over b.data[off : off+n]. The view holds a reference
// on b and shares its memory; releasing the view releases that reference.
func (b *Buffer) Slice(off, n int) *Buffer {
	b.Acquire()
	v := &Buffer{data: b.data[off : off+n], parent: b}
	v.refs.Store(1)
	return v
}

// Acquire increments the refcount.
func (b *Buffer) Acquire() {
	b.refs.Add(1)
}

// Release decrements the refcount. When it reaches zero the backing slab is
// returned to its pool (if pooled) and the parent's reference is dropped.
func (b *Buffer) Release() {
	if b.refs.Add(-1) != 0 {
		return
	}
	if b.recycle != nil {
		b.recycle(b.data)
		b.recycle = nil
	}
	if b.parent != nil {
		b.parent.Release()
		b.parent = nil
	}
	b.data = nil
}
