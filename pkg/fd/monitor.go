package fd

// monitor.go: statistics for the FD solver

import (
	"fmt"
	"sync"
	"time"
)

// SolverStats holds cumulative statistics over one or more solves.
type SolverStats struct {
	Solves           int           // Number of Solve calls
	NodesExplored    int           // Number of search nodes explored
	Backtracks       int           // Number of backtracks performed
	SolutionsFound   int           // Number of solutions found
	MaxDepth         int           // Maximum search depth reached
	PropagationCount int           // Number of fixed-point propagations
	SearchTime       time.Duration // Wall time spent inside Solve
}

// SolverMonitor collects SolverStats. It may be shared by several solvers.
type SolverMonitor struct {
	mu          sync.Mutex
	stats       SolverStats
	searchStart time.Time
}

// NewSolverMonitor creates a monitor with zeroed statistics.
func NewSolverMonitor() *SolverMonitor {
	return &SolverMonitor{}
}

// GetStats returns a copy of the current statistics.
func (m *SolverMonitor) GetStats() SolverStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// StartSearch marks the beginning of a Solve call.
func (m *SolverMonitor) StartSearch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Solves++
	m.searchStart = time.Now()
}

// FinishSearch marks the end of a Solve call.
func (m *SolverMonitor) FinishSearch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.searchStart.IsZero() {
		m.stats.SearchTime += time.Since(m.searchStart)
		m.searchStart = time.Time{}
	}
}

// RecordPropagation counts one fixed-point propagation.
func (m *SolverMonitor) RecordPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.PropagationCount++
}

// RecordBacktrack counts one backtrack.
func (m *SolverMonitor) RecordBacktrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Backtracks++
}

// RecordNode counts one explored node.
func (m *SolverMonitor) RecordNode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.NodesExplored++
}

// RecordSolution counts one solution.
func (m *SolverMonitor) RecordSolution() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SolutionsFound++
}

// RecordDepth tracks the maximum depth.
func (m *SolverMonitor) RecordDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if depth > m.stats.MaxDepth {
		m.stats.MaxDepth = depth
	}
}

// String summarizes the statistics on one line.
func (s SolverStats) String() string {
	return fmt.Sprintf("solves=%d nodes=%d backtracks=%d solutions=%d maxDepth=%d propagations=%d time=%v",
		s.Solves, s.NodesExplored, s.Backtracks, s.SolutionsFound, s.MaxDepth, s.PropagationCount, s.SearchTime)
}
