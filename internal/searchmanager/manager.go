//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package searchmanager runs several search.Search instances concurrently
// against one shared transposition table (lazy-SMP): every worker thread
// searches the same position independently to an unbounded depth; sharing
// one table lets a worker profit from positions explored by its siblings
// without any split of the search tree itself.
package searchmanager

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frankkopp/franky-core/internal/moveslice"
	"github.com/frankkopp/franky-core/internal/position"
	"github.com/frankkopp/franky-core/internal/search"
	"github.com/frankkopp/franky-core/internal/transpositiontable"
	. "github.com/frankkopp/franky-core/internal/types"
)

// Manager owns a pool of search.Search workers and the transposition
// table they share. Only the first worker's progress events are
// forwarded live; the merged, deepest-completed result across all
// workers is reported once a search ends.
type Manager struct {
	mu       sync.Mutex
	reporter search.Reporter
	workers  []*search.Search
	tt       *transpositiontable.TtTable
	threads  int
}

// NewManager creates a manager with the given number of lazy-SMP worker
// threads, clamped to at least 1.
func NewManager(threads int) *Manager {
	m := &Manager{}
	m.build(threads)
	return m
}

// build tears down any existing workers and creates a fresh pool of the
// given size, all sharing the table the first worker initializes from
// the current configuration.
func (m *Manager) build(threads int) {
	if threads < 1 {
		threads = 1
	}
	workers := make([]*search.Search, threads)
	for i := range workers {
		workers[i] = search.NewSearch()
	}
	tt := workers[0].GetTT()
	for i := 1; i < len(workers); i++ {
		workers[i].SetTT(tt)
	}
	for i, w := range workers {
		w.SetReporter(&workerProxy{manager: m, isMain: i == 0})
	}
	m.workers = workers
	m.tt = tt
	m.threads = threads
}

// SetReporter sets the Reporter that receives the live progress of the
// first worker and the merged final result of the whole pool.
func (m *Manager) SetReporter(reporter search.Reporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporter = reporter
}

// Resize tears down the current worker pool and builds a new one with the
// given thread count and a freshly sized transposition table. If a search
// is running it first blocks until that search has finished.
func (m *Manager) Resize(threads int) {
	m.WaitWhileSearching()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.build(threads)
}

// ResizeCache rebuilds the worker pool at its current size, picking up
// any change to the configured transposition table size.
func (m *Manager) ResizeCache() {
	m.mu.Lock()
	threads := m.threads
	m.mu.Unlock()
	m.Resize(threads)
}

// StartSearch starts every worker on a clone of the given position with
// the given limits.
func (m *Manager) StartSearch(p position.Position, sl search.Limits) {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	for _, w := range workers {
		w.StartSearch(p, sl)
	}
	go m.awaitAndReport(workers)
}

// awaitAndReport waits for every worker to finish its search, then picks
// the deepest-completed, highest-scored result and reports it once.
func (m *Manager) awaitAndReport(workers []*search.Search) {
	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.WaitWhileSearching()
			return nil
		})
	}
	_ = g.Wait()

	best := workers[0].LastSearchResult()
	for _, w := range workers[1:] {
		r := w.LastSearchResult()
		if r.SearchDepth > best.SearchDepth ||
			(r.SearchDepth == best.SearchDepth && r.BestValue > best.BestValue) {
			best = r
		}
	}

	m.mu.Lock()
	reporter := m.reporter
	m.mu.Unlock()
	if reporter != nil {
		reporter.ReportResult(best.BestMove, best.PonderMove)
	}
}

// StopSearch stops every worker as quickly as possible.
func (m *Manager) StopSearch() {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	for _, w := range workers {
		w.StopSearch()
	}
}

// WaitWhileSearching blocks until every worker has finished searching.
func (m *Manager) WaitWhileSearching() {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	for _, w := range workers {
		w.WaitWhileSearching()
	}
}

// NewGame resets every worker for a new game.
func (m *Manager) NewGame() {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	for _, w := range workers {
		w.NewGame()
	}
}

// ClearHash clears the shared transposition table via the first worker.
func (m *Manager) ClearHash() {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	if len(workers) > 0 {
		workers[0].ClearHash()
	}
}

// IsReady forwards the readiness handshake to the first worker, which
// reports back through the manager's workerProxy.
func (m *Manager) IsReady() {
	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()
	if len(workers) > 0 {
		workers[0].IsReady()
	}
}

// workerProxy adapts a single worker's Reporter callbacks. Only the main
// worker's progress events reach the manager's external reporter: helper
// workers search the same position silently, solely to enrich the shared
// transposition table. ReportResult is swallowed here too; the manager
// emits its own merged result once every worker has stopped.
type workerProxy struct {
	manager *Manager
	isMain  bool
}

func (w *workerProxy) ReportReadyOk() {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportReadyOk()
	}
}

func (w *workerProxy) ReportInfoString(info string) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportInfoString(info)
	}
}

func (w *workerProxy) ReportIterationEnd(depth int, seldepth int, value Value, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportIterationEnd(depth, seldepth, value, nodes, nps, t, pv)
	}
}

func (w *workerProxy) ReportAspirationResearch(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportAspirationResearch(depth, seldepth, value, bound, nodes, nps, t, pv)
	}
}

func (w *workerProxy) ReportCurrentRootMove(currMove Move, moveNumber int) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportCurrentRootMove(currMove, moveNumber)
	}
}

func (w *workerProxy) ReportSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, t time.Duration, hashfull int) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportSearchUpdate(depth, seldepth, nodes, nps, t, hashfull)
	}
}

func (w *workerProxy) ReportCurrentLine(moveList moveslice.MoveSlice) {
	if w.isMain && w.manager.reporter != nil {
		w.manager.reporter.ReportCurrentLine(moveList)
	}
}

func (w *workerProxy) ReportResult(bestMove Move, ponderMove Move) {
	// swallowed: the manager computes and reports the merged result itself.
}
