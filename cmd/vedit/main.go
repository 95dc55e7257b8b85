// Command vedit is a line-oriented text editor driven entirely by the
// c d p u r q command language, read from standard input. Its
// per-version undo/redo history survives for the life of the process;
// there is no on-disk buffer.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"

	"github.com/fkessler/vedit/engine"
)

var (
	logPath    = flag.String("log", "", "a file to which all commands are logged")
	cpuProfile = flag.Bool("profile", false, "write a CPU profile to ./cpu.pprof")
)

func main() {
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	var log io.Writer
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to open log:", err)
			os.Exit(1)
		}
		defer f.Close()
		log = f
	}

	e := engine.New()
	in := os.Stdin
	var r io.Reader = in
	if log != nil {
		r = io.TeeReader(in, log)
	}

	if err := e.Run(r, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
