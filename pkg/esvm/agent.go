// Package esvm is spec.md §6's embedder API: the thin shell a host program
// links against to construct an Agent, allocate Realms in it, and run
// scripts/modules — everything internal/* implements is reachable only
// through here once this package exists. Grounded on the teacher's
// pkg/dwscript embedder package (a facade over internal/interp that a CLI
// or FFI host calls into rather than reaching into internal packages
// directly).
package esvm

import (
	"fmt"

	"github.com/ecmax-lang/ecmax/internal/agent"
)

// Agent wraps internal/agent.Agent, the process-wide execution-context
// stack and job queue spec.md §6 names as `new Agent({features})`.
type Agent struct {
	inner   *agent.Agent
	current bool
}

// NewAgent validates features against the known stage-3-class flag set
// (spec.md §6: "unknown flags are errors") before constructing the
// underlying agent.
func NewAgent(features map[string]bool) (*Agent, error) {
	if err := agent.ValidateFeatures(features); err != nil {
		return nil, err
	}
	return &Agent{inner: agent.New(features)}, nil
}

// Enter marks a as the agent realms constructed against it should run
// under. ecmax is single-threaded per spec.md §5, so this only records
// intent for diagnostics rather than touching any thread-local state.
func (a *Agent) Enter() *Agent {
	a.current = true
	return a
}

// ListFeatures implements spec.md §6's `list` mode: every known
// stage-3-class feature flag and its tracking URL.
func ListFeatures() []agent.FeatureEntry { return agent.ListFeatures() }

// HasFeature reports whether name was enabled on this agent's construction.
func (a *Agent) HasFeature(name string) bool { return a.inner.HasFeature(name) }

func (a *Agent) String() string {
	return fmt.Sprintf("Agent(jobs=%d)", a.inner.PendingJobs())
}
