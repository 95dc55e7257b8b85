// Package arena provides an append-only, chunked store of line
// references addressed by absolute slot index.
//
// The design is a generalization of the block-allocator used by the
// teacher's rune and byte buffers (see edit/runes.go, edit/buffer/buffer.go):
// instead of fixed-size disk-backed blocks of runes, an Arena keeps
// fixed-but-growing in-memory chunks of Line references. Chunk
// capacities double as the Arena grows, amortizing the cost of
// extending storage, and no chunk is ever moved once allocated, so a
// slot index remains valid across any number of further Appends.
package arena

// A Line is an immutable byte sequence, including its trailing
// newline. Lines are shared by reference across versions; nothing in
// this package ever copies or mutates the bytes of a Line.
type Line []byte

// SentinelLine is the distinguished line referenced by a version that
// represents the empty document after a full delete. Its content has
// no significance to callers; see version.Range.Empty.
var SentinelLine = Line(".\n")

// firstChunkCap is the capacity of the first chunk allocated.
// Each subsequent chunk doubles the previous chunk's capacity.
const firstChunkCap = 64

// An Arena is an append-only sequence of slots, each holding a Line
// reference. It grows geometrically and never reallocates an existing
// chunk, so slot indices returned by AppendRef remain valid for the
// life of the Arena.
//
// An Arena has no notion of versions; it is driven entirely by the
// version index, which decides which slots belong to which version
// and when to call TruncateTo.
type Arena struct {
	chunks []chunk
	// size is the logical length: the number of slots in use.
	// It may be smaller than the total physical capacity of chunks,
	// in which case the next AppendRef reuses a stale slot in place.
	size int64
}

type chunk struct {
	lines []Line
	start int64
}

// New returns a new, empty Arena.
func New() *Arena { return &Arena{} }

// Len returns the Arena's logical length.
func (a *Arena) Len() int64 { return a.size }

// cap returns the total physical capacity across all chunks.
func (a *Arena) cap() int64 {
	if len(a.chunks) == 0 {
		return 0
	}
	last := a.chunks[len(a.chunks)-1]
	return last.start + int64(cap(last.lines))
}

// chunkAt returns the chunk containing slot i and its start offset.
// It panics if i is negative or no chunk is allocated; for i at or
// beyond a.cap() it returns the last chunk, so callers must only call
// it with i < a.cap().
func (a *Arena) chunkAt(i int64) (*chunk, int64) {
	for n := len(a.chunks) - 1; n >= 0; n-- {
		c := &a.chunks[n]
		if i >= c.start {
			return c, c.start
		}
	}
	panic("arena: index out of range")
}

// grow appends a new chunk, doubling the previous chunk's capacity.
func (a *Arena) grow() {
	n := firstChunkCap
	if len(a.chunks) > 0 {
		n = cap(a.chunks[len(a.chunks)-1].lines) * 2
	}
	a.chunks = append(a.chunks, chunk{
		lines: make([]Line, 0, n),
		start: a.cap(),
	})
}

// Get returns the line referenced by slot i.
// It panics if i is outside the Arena's physical capacity; callers
// address slots only within ranges recorded by the version index,
// which are always within capacity.
func (a *Arena) Get(i int64) Line {
	c, start := a.chunkAt(i)
	return c.lines[i-start]
}

// AppendRef appends a slot referencing line at the Arena's current
// logical length, growing physical storage only if no stale slot is
// available to reuse, and returns the new slot's index.
func (a *Arena) AppendRef(line Line) int64 {
	i := a.size
	if i == a.cap() {
		a.grow()
	}
	c, start := a.chunkAt(i)
	off := i - start
	if off == int64(len(c.lines)) {
		c.lines = append(c.lines, line)
	} else {
		c.lines[off] = line
	}
	a.size++
	return i
}

// TruncateTo sets the Arena's logical length to n.
// It does not release any physical storage; slots at or beyond n
// remain addressable and are simply stale until an AppendRef
// overwrites them in place.
func (a *Arena) TruncateTo(n int64) {
	a.size = n
}
