// Package buildinfo holds build metadata injected at link time.
package buildinfo

// Set via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/LckyLuciano/meshmon/internal/buildinfo.Version=v0.3.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
