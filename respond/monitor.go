package respond

import "github.com/Pxeba/GptMeliWhatsapp/core"

// Monitor provides hooks to observe the response pipeline.
// Implement this interface to track intermediate steps, including which
// internal failure kind degraded an answer into a fallback.
type Monitor interface {
	Start(question string)
	AfterSimilaritySearch(results []*core.SearchResult)
	AfterContextAssembly(contextData string)
	NoMatches()
	RetrievalFailed(err error)
	GenerationFailed(err error)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                               {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.SearchResult) {}
func (n *noopMonitor) AfterContextAssembly(_ string)                {}
func (n *noopMonitor) NoMatches()                                   {}
func (n *noopMonitor) RetrievalFailed(_ error)                      {}
func (n *noopMonitor) GenerationFailed(_ error)                     {}
func (n *noopMonitor) Finish(_ string)                              {}
