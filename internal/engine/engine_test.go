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

package engine

import (
	"os"
	"path"
	"runtime"
	"strings"
	"testing"
	"time"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/franky-core/internal/config"
	"github.com/frankkopp/franky-core/internal/logging"
	"github.com/frankkopp/franky-core/internal/position"
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

func TestIdentifyCommand(t *testing.T) {
	e := NewEngine()
	result := e.Command("identify")
	assert.Contains(t, result, "identity name franky-core")
	assert.Contains(t, result, "identityOk")
}

func TestIsReadyCommand(t *testing.T) {
	e := NewEngine()
	result := e.Command("isReady")
	assert.Contains(t, result, "readyOk")
}

func TestSetOptionThreads(t *testing.T) {
	e := NewEngine()
	result := e.Command("setOption name Threads value 2")
	assert.Contains(t, result, "Threads set to 2")
	assert.EqualValues(t, 2, config.Settings.Search.NoOfThreads)
}

func TestSetOptionHashNotANumber(t *testing.T) {
	e := NewEngine()
	result := e.Command("setOption name Hash value notanumber")
	assert.Contains(t, result, "not a number")
}

func TestSetOptionMalformed(t *testing.T) {
	e := NewEngine()
	result := e.Command("setOption")
	assert.Contains(t, result, "malformed")
}

func TestSetOptionUnknown(t *testing.T) {
	e := NewEngine()
	result := e.Command("setOption name NoSuchOption value 1")
	assert.Contains(t, result, "No such option")
}

func TestPositionCommand(t *testing.T) {
	e := NewEngine()

	e.Command("position startpos")
	assert.EqualValues(t, position.StartFen, e.myPosition.StringFen())

	e.Command("position fen " + position.StartFen)
	assert.EqualValues(t, position.StartFen, e.myPosition.StringFen())

	result := e.Command("position fen")
	assert.Contains(t, result, "malformed")

	e.Command("position fen " + position.StartFen + " moves e2e4 e7e5 g1f3 b8c6")
	assert.EqualValues(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3", e.myPosition.StringFen())

	result = e.Command("position fen " + position.StartFen + " moves e7e5 g1f3 b8c6")
	assert.Contains(t, result, "malformed")
}

func TestNewGameCommand(t *testing.T) {
	e := NewEngine()
	e.Command("position startpos moves e2e4")
	e.Command("newGame")
	assert.EqualValues(t, position.StartFen, e.myPosition.StringFen())
}

func TestReadSearchLimitsDepth(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goDepth 6")
	sl, failed := e.readSearchLimits(tokens)
	assert.False(t, failed)
	assert.EqualValues(t, 6, sl.Depth)
	assert.False(t, sl.TimeControl)
}

func TestReadSearchLimitsDepthMalformed(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goDepth")
	_, failed := e.readSearchLimits(tokens)
	assert.True(t, failed)
}

func TestReadSearchLimitsMoveTime(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goMoveTime 5000")
	sl, failed := e.readSearchLimits(tokens)
	assert.False(t, failed)
	assert.EqualValues(t, 5000, sl.MoveTime.Milliseconds())
	assert.True(t, sl.TimeControl)
}

func TestReadSearchLimitsNodes(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goNodes 1000000")
	sl, failed := e.readSearchLimits(tokens)
	assert.False(t, failed)
	assert.EqualValues(t, 1_000_000, sl.Nodes)
}

func TestReadGameTimeLimits(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goGameTime wtime 60000 btime 60000 winc 2000 binc 2000 movestogo 20")
	sl, failed := e.readSearchLimits(tokens)
	assert.False(t, failed)
	assert.EqualValues(t, 60000, sl.WhiteTime.Milliseconds())
	assert.EqualValues(t, 60000, sl.BlackTime.Milliseconds())
	assert.EqualValues(t, 2000, sl.WhiteInc.Milliseconds())
	assert.EqualValues(t, 2000, sl.BlackInc.Milliseconds())
	assert.EqualValues(t, 20, sl.MovesToGo)
	assert.True(t, sl.TimeControl)
}

func TestReadGameTimeLimitsMissingOwnTime(t *testing.T) {
	e := NewEngine()
	tokens := strings.Fields("goGameTime btime 60000")
	_, failed := e.readSearchLimits(tokens)
	assert.True(t, failed)
}

func TestGoAndStopCommand(t *testing.T) {
	e := NewEngine()
	e.Command("position startpos")
	e.Command("goInfinite")
	time.Sleep(200 * time.Millisecond)
	e.Command("stop")
	e.mySearchMgr.WaitWhileSearching()
}

func TestUnknownCommand(t *testing.T) {
	e := NewEngine()
	result := e.Command("bogus")
	assert.Equal(t, "", result)
}

func TestQuitCommand(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.handleReceivedCommand("quit"))
}
