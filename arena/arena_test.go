package arena

import (
	"bytes"
	"testing"
)

func TestAppendRefAndGet(t *testing.T) {
	a := New()
	var want []Line
	for i := 0; i < firstChunkCap*3+7; i++ {
		l := Line([]byte{byte(i), byte(i >> 8)})
		idx := a.AppendRef(l)
		if idx != int64(i) {
			t.Fatalf("AppendRef #%d: got index %d, want %d", i, idx, i)
		}
		want = append(want, l)
	}
	if got := a.Len(); got != int64(len(want)) {
		t.Fatalf("Len()=%d, want %d", got, len(want))
	}
	for i, l := range want {
		if got := a.Get(int64(i)); !bytes.Equal(got, l) {
			t.Errorf("Get(%d)=%v, want %v", i, got, l)
		}
	}
}

func TestSlotIndicesStableAcrossGrowth(t *testing.T) {
	a := New()
	first := a.AppendRef(Line("first\n"))
	for i := 0; i < firstChunkCap*8; i++ {
		a.AppendRef(Line("filler\n"))
	}
	if got := string(a.Get(first)); got != "first\n" {
		t.Fatalf("Get(%d) after growth = %q, want %q", first, got, "first\n")
	}
}

func TestTruncateThenAppendReusesSlot(t *testing.T) {
	a := New()
	a.AppendRef(Line("a\n"))
	a.AppendRef(Line("b\n"))
	a.AppendRef(Line("c\n"))
	capBefore := a.cap()

	a.TruncateTo(1)
	if got := a.Len(); got != 1 {
		t.Fatalf("Len() after TruncateTo(1) = %d, want 1", got)
	}

	idx := a.AppendRef(Line("B\n"))
	if idx != 1 {
		t.Fatalf("AppendRef after truncate returned index %d, want 1", idx)
	}
	if got := a.cap(); got != capBefore {
		t.Fatalf("cap() grew from %d to %d; truncate-then-append should reuse the stale slot", capBefore, got)
	}
	if got := string(a.Get(1)); got != "B\n" {
		t.Fatalf("Get(1) = %q, want %q", got, "B\n")
	}
}

func TestGrowDoublesChunkCapacity(t *testing.T) {
	a := New()
	for i := 0; i < firstChunkCap; i++ {
		a.AppendRef(Line("x"))
	}
	if len(a.chunks) != 1 {
		t.Fatalf("after filling the first chunk, len(chunks)=%d, want 1", len(a.chunks))
	}
	a.AppendRef(Line("y"))
	if len(a.chunks) != 2 {
		t.Fatalf("after overflowing the first chunk, len(chunks)=%d, want 2", len(a.chunks))
	}
	if got, want := cap(a.chunks[1].lines), firstChunkCap*2; got != want {
		t.Errorf("second chunk capacity=%d, want %d", got, want)
	}
}
