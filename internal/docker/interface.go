// internal/docker/interface.go
package docker

import "github.com/LckyLuciano/meshmon/internal/watchdog"

// Make sure ContainerRuntime satisfies the watchdog's collaborator
// contract.
var _ watchdog.Runtime = (*ContainerRuntime)(nil)
