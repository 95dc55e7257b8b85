// Package command tokenizes the editor's line-oriented command
// language: a line of the form "START,END CMD" (usually written with
// no spaces, e.g. "1,2c", though whitespace around the numbers, the
// comma and the letter is accepted) followed, for a
// change command, by exactly END-START+1 payload lines.
//
// This is a much smaller grammar than the teacher's edit.Ed address
// and edit language, so rather than building a recursive-descent
// parser like edit/addr.go, command uses a single regular expression
// in the style of the address/command split found in the ed/sam
// family of editors (see other_examples' go-red cmd.go for the same
// "address, command letter, rest" shape), plus a bufio.Reader for
// reading payload lines the way ted.go reads lines from stdin.
package command

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// A Kind identifies which of the five commands (plus quit) a Command
// names.
type Kind byte

const (
	Change Kind = 'c'
	Delete Kind = 'd'
	Print  Kind = 'p'
	Undo   Kind = 'u'
	Redo   Kind = 'r'
	Quit   Kind = 'q'
)

// A Command is one parsed line of input: an address pair and a
// command letter. For Undo and Redo, the requested count n is written
// as an address pair ("n,nu" / "n,nr"); the engine reads the count
// from Start and ignores End. For the other commands Start and End
// are the address range.
type Command struct {
	Start, End int64
	Kind       Kind
}

// A SyntaxError reports a malformed command line.
type SyntaxError struct {
	Line string
}

func (e *SyntaxError) Error() string { return "malformed command: " + strconv.Quote(e.Line) }

var commandRE = regexp.MustCompile(`^\s*(-?[0-9]+)\s*,\s*(-?[0-9]+)\s*([cdpurq])\s*$`)

// bareQuit matches a command line with no address pair, accepted only
// for q per spec.md's open question about whether q takes one.
var bareQuit = regexp.MustCompile(`^\s*q\s*$`)

// A Scanner reads Commands and change payloads from an input stream.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner returns a Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// ReadCommand reads and parses the next command line.
// It returns io.EOF when the input is exhausted before a command line
// is read.
func (s *Scanner) ReadCommand() (Command, error) {
	line, err := s.readLine()
	if err != nil {
		return Command{}, err
	}
	if bareQuit.MatchString(line) {
		return Command{Kind: Quit}, nil
	}
	m := commandRE.FindStringSubmatch(line)
	if m == nil {
		return Command{}, &SyntaxError{Line: line}
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Command{}, &SyntaxError{Line: line}
	}
	end, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Command{}, &SyntaxError{Line: line}
	}
	return Command{Start: start, End: end, Kind: Kind(m[3][0])}, nil
}

// ReadLines reads exactly n raw payload lines, each including its
// trailing newline, for a Change command.
func (s *Scanner) ReadLines(n int64) ([][]byte, error) {
	lines := make([][]byte, 0, n)
	for i := int64(0); i < n; i++ {
		line, err := s.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF && line == "" {
			return nil, io.ErrUnexpectedEOF
		}
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		lines = append(lines, []byte(line))
	}
	return lines, nil
}

// readLine reads one line of input with its trailing newline
// stripped. It returns io.EOF only if no bytes at all were read.
func (s *Scanner) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
