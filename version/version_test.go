package version

import "testing"

func TestNewIsSentinel(t *testing.T) {
	x := New()
	if got := x.Cursor(); got != 0 {
		t.Fatalf("Cursor()=%d, want 0", got)
	}
	if got := x.High(); got != 0 {
		t.Fatalf("High()=%d, want 0", got)
	}
	if got := x.Current().Length(); got != 0 {
		t.Fatalf("Current().Length()=%d, want 0", got)
	}
}

func TestPushAdvancesCursorAndHigh(t *testing.T) {
	x := New()
	v1 := x.Push(Range{Begin: 0, End: 1})
	if v1 != 1 || x.Cursor() != 1 || x.High() != 1 {
		t.Fatalf("after first push: cursor=%d high=%d, want 1,1", x.Cursor(), x.High())
	}
	v2 := x.Push(Range{Begin: 2, End: 2})
	if v2 != 2 || x.Cursor() != 2 || x.High() != 2 {
		t.Fatalf("after second push: cursor=%d high=%d, want 2,2", x.Cursor(), x.High())
	}
}

func TestDropFutureThenPushReusesStaleEntry(t *testing.T) {
	x := New()
	x.Push(Range{Begin: 0, End: 0})
	x.Push(Range{Begin: 1, End: 1})
	x.Push(Range{Begin: 2, End: 2})
	x.SetCursor(1)
	x.DropFuture()
	if x.High() != 1 {
		t.Fatalf("High() after DropFuture=%d, want 1", x.High())
	}

	x.Push(Range{Begin: 9, End: 9})
	if x.Cursor() != 2 || x.High() != 2 {
		t.Fatalf("after push past dropped future: cursor=%d high=%d, want 2,2", x.Cursor(), x.High())
	}
	if got := x.Current(); got.Begin != 9 || got.End != 9 {
		t.Fatalf("Current()=%+v, want {9 9 false}", got)
	}
}

func TestSetCursorClamps(t *testing.T) {
	x := New()
	x.Push(Range{Begin: 0, End: 0})
	x.Push(Range{Begin: 1, End: 1})

	x.SetCursor(-5)
	if x.Cursor() != 0 {
		t.Fatalf("SetCursor(-5): cursor=%d, want 0", x.Cursor())
	}
	x.SetCursor(100)
	if x.Cursor() != x.High() {
		t.Fatalf("SetCursor(100): cursor=%d, want High()=%d", x.Cursor(), x.High())
	}
}

func TestRangeLengthEmptyEncodings(t *testing.T) {
	sentinel := Range{Begin: -1, End: -1}
	if sentinel.Length() != 0 {
		t.Errorf("sentinel Length()=%d, want 0", sentinel.Length())
	}
	flagged := Range{Begin: 4, End: 4, Empty: true}
	if flagged.Length() != 0 {
		t.Errorf("flagged-empty Length()=%d, want 0", flagged.Length())
	}
	nonEmpty := Range{Begin: 4, End: 4}
	if nonEmpty.Length() != 1 {
		t.Errorf("single-slot Length()=%d, want 1", nonEmpty.Length())
	}
}
