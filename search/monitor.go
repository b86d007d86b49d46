package search

import (
	"time"

	"github.com/poiesic/catalogmatch/core"
)

// SearchMonitor provides hooks to observe a resolution call.
// All hooks of one call run on the calling goroutine, generator hooks in
// merge order after every generator has finished. A monitor shared between
// resolvers or calls must be safe for concurrent use.
type SearchMonitor interface {
	Start(raw string)
	AfterParse(q *core.Query)
	GeneratorFinished(id GeneratorID, candidates []*core.Candidate, elapsed time.Duration)
	GeneratorFailed(id GeneratorID, err error, elapsed time.Duration)
	Finish(res *Resolution)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                                        {}
func (n *noopMonitor) AfterParse(_ *core.Query)                                              {}
func (n *noopMonitor) GeneratorFinished(_ GeneratorID, _ []*core.Candidate, _ time.Duration) {}
func (n *noopMonitor) GeneratorFailed(_ GeneratorID, _ error, _ time.Duration)               {}
func (n *noopMonitor) Finish(_ *Resolution)                                                  {}
