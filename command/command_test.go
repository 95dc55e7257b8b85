package command

import (
	"io"
	"strings"
	"testing"
)

func TestReadCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"1,2c", Command{1, 2, Change}},
		{"1,2d", Command{1, 2, Delete}},
		{"1,2p", Command{1, 2, Print}},
		{"5,5u", Command{5, 5, Undo}},
		{"3,3r", Command{3, 3, Redo}},
		{"0,0q", Command{0, 0, Quit}},
		{"q", Command{0, 0, Quit}},
		{"-3,0p", Command{-3, 0, Print}},
		{" 1 , 2 c ", Command{1, 2, Change}},
	}
	for _, test := range tests {
		sc := NewScanner(strings.NewReader(test.line + "\n"))
		got, err := sc.ReadCommand()
		if err != nil {
			t.Errorf("ReadCommand(%q): unexpected error %v", test.line, err)
			continue
		}
		if got != test.want {
			t.Errorf("ReadCommand(%q)=%+v, want %+v", test.line, got, test.want)
		}
	}
}

func TestReadCommandSyntaxError(t *testing.T) {
	tests := []string{"1,2x", "abc", "1,c", ",2c", "1,2"}
	for _, line := range tests {
		sc := NewScanner(strings.NewReader(line + "\n"))
		if _, err := sc.ReadCommand(); err == nil {
			t.Errorf("ReadCommand(%q): got nil error, want *SyntaxError", line)
		} else if _, ok := err.(*SyntaxError); !ok {
			t.Errorf("ReadCommand(%q): got error %v of type %T, want *SyntaxError", line, err, err)
		}
	}
}

func TestReadCommandEOF(t *testing.T) {
	sc := NewScanner(strings.NewReader(""))
	if _, err := sc.ReadCommand(); err != io.EOF {
		t.Fatalf("ReadCommand on empty input: err=%v, want io.EOF", err)
	}
}

func TestReadLines(t *testing.T) {
	sc := NewScanner(strings.NewReader("alpha\nbeta\n1,1p\n"))
	lines, err := sc.ReadLines(2)
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{"alpha\n", "beta\n"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines returned %d lines, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if string(l) != want[i] {
			t.Errorf("line %d = %q, want %q", i, l, want[i])
		}
	}

	cmd, err := sc.ReadCommand()
	if err != nil || cmd.Kind != Print {
		t.Errorf("command after payload: %+v, %v", cmd, err)
	}
}

func TestReadLinesMissingTrailingNewline(t *testing.T) {
	sc := NewScanner(strings.NewReader("alpha\nbeta"))
	lines, err := sc.ReadLines(2)
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if string(lines[1]) != "beta\n" {
		t.Errorf("last line = %q, want %q (newline appended)", lines[1], "beta\n")
	}
}

func TestReadLinesUnexpectedEOF(t *testing.T) {
	sc := NewScanner(strings.NewReader("alpha\n"))
	if _, err := sc.ReadLines(2); err != io.ErrUnexpectedEOF {
		t.Fatalf("ReadLines: err=%v, want io.ErrUnexpectedEOF", err)
	}
}
