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

package searchmanager

import (
	"os"
	"path"
	"runtime"
	"sync"
	"testing"
	"time"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/franky-core/internal/config"
	"github.com/frankkopp/franky-core/internal/logging"
	"github.com/frankkopp/franky-core/internal/moveslice"
	"github.com/frankkopp/franky-core/internal/position"
	"github.com/frankkopp/franky-core/internal/search"
	. "github.com/frankkopp/franky-core/internal/types"
)

var logTest *logging2.Logger

// make tests run in the project's root directory.
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

// recordingReporter captures the reports that reach the external reporter,
// so tests can assert that only one merged result is ever emitted even
// though every worker finishes its own search independently.
type recordingReporter struct {
	mu          sync.Mutex
	readyOk     int
	resultCount int
	lastBest    Move
}

func (r *recordingReporter) ReportReadyOk() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readyOk++
}
func (r *recordingReporter) ReportInfoString(info string) {}
func (r *recordingReporter) ReportIterationEnd(depth int, seldepth int, value Value, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
}
func (r *recordingReporter) ReportAspirationResearch(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
}
func (r *recordingReporter) ReportCurrentRootMove(currMove Move, moveNumber int) {}
func (r *recordingReporter) ReportSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, t time.Duration, hashfull int) {
}
func (r *recordingReporter) ReportCurrentLine(moveList moveslice.MoveSlice) {}
func (r *recordingReporter) ReportResult(bestMove Move, ponderMove Move) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resultCount++
	r.lastBest = bestMove
}

func (r *recordingReporter) count() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readyOk, r.resultCount
}

func TestNewManagerDefaultsToOneThread(t *testing.T) {
	m := NewManager(0)
	assert.EqualValues(t, 1, m.threads)
	assert.Len(t, m.workers, 1)
}

func TestNewManagerBuildsSharedTable(t *testing.T) {
	m := NewManager(3)
	assert.Len(t, m.workers, 3)
	for _, w := range m.workers[1:] {
		assert.Same(t, m.tt, w.GetTT())
	}
}

func TestManagerIsReady(t *testing.T) {
	m := NewManager(2)
	rep := &recordingReporter{}
	m.SetReporter(rep)
	m.IsReady()
	readyOk, _ := rep.count()
	assert.EqualValues(t, 1, readyOk)
}

func TestManagerStartAndStopSearch(t *testing.T) {
	m := NewManager(2)
	rep := &recordingReporter{}
	m.SetReporter(rep)

	p := position.NewPosition()
	sl := search.NewSearchLimits()
	sl.Infinite = true

	m.StartSearch(*p, *sl)
	time.Sleep(200 * time.Millisecond)
	m.StopSearch()
	m.WaitWhileSearching()

	_, resultCount := rep.count()
	assert.EqualValues(t, 1, resultCount)
}

func TestManagerResize(t *testing.T) {
	m := NewManager(2)
	m.Resize(4)
	assert.EqualValues(t, 4, m.threads)
	assert.Len(t, m.workers, 4)
}

func TestManagerNewGameAndClearHash(t *testing.T) {
	m := NewManager(1)
	m.NewGame()
	m.ClearHash()
}
