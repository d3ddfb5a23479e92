// Package scanio provides a read-coalescing buffered input layer for
// columnar file scans.
//
// Columnar readers issue many small, logically independent byte-range
// requests (column chunks, footers, index pages). Issuing each of them as a
// physical read is ruinous against high-latency storage such as S3. scanio
// sits between the reader and a byte-range-capable file and turns the request
// stream into a minimal number of physical I/O operations, handing every
// original request back as an independently consumable lazy stream.
//
// # Quick Start
//
//	f := file.NewInMemory("col.bin", data)
//	in := scanio.New(f, memory.Default())
//
//	footer, _ := in.Enqueue(scanio.Region{Offset: 900, Length: 100})
//	column, _ := in.Enqueue(scanio.Region{Offset: 0, Length: 512})
//
//	if err := in.Load(ctx, scanio.LogTypeStripe); err != nil {
//	    // no stream from this cycle is readable
//	}
//
//	window, err := column.Next() // err == io.EOF once drained
//
// # Load Strategies
//
// Two mutually exclusive physical strategies are selected at construction:
//
//   - Scalar (default): pending regions are sorted by offset and chain-merged
//     under a configurable merge distance; one ranged read is issued per merge
//     group and the group buffer is sliced back into per-request views.
//   - Vectorized (WithVectorizedLoad): a single batched read call carries one
//     target buffer per request, regardless of gaps.
//
// # Lifetime Model
//
// Load is synchronous and a BufferedInput is not safe for concurrent use
// without external synchronization. Buffers live in a per-cycle arena
// binding; streams hold refcounted views into it and must not be read past
// the owning BufferedInput's Close. The file and the memory pool are shared,
// externally owned collaborators.
package scanio
