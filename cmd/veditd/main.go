// Command veditd serves the editor's session API over HTTP: any
// number of documents, each reachable by session ID, each broadcasting
// its version changes to any number of websocket watchers.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"

	"github.com/fkessler/vedit/server"
)

var (
	addr       = flag.String("addr", ":8080", "address to serve on")
	cpuProfile = flag.Bool("profile", false, "write a CPU profile to ./cpu.pprof")
)

func main() {
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	s := server.NewServer()
	r := mux.NewRouter()
	s.RegisterHandlers(r)

	slog.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
