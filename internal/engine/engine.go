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

// Package engine contains the Engine data structure and functionality to
// handle the line-based request/response protocol between a front end and
// the chess core (see the external interfaces section of the engine's
// design docs). It replaces a UCI-shaped command loop with a renamed,
// trimmed-down vocabulary: identify/isReady/newGame/setOption/position/
// goInfinite|goDepth|goMoveTime|goNodes|goGameTime/stop/quit inbound, and
// bestMove/info/infoString outbound.
package engine

import (
	"bufio"
	"bytes"
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"

	"github.com/frankkopp/franky-core/internal/config"
	myLogging "github.com/frankkopp/franky-core/internal/logging"
	"github.com/frankkopp/franky-core/internal/movegen"
	"github.com/frankkopp/franky-core/internal/moveslice"
	"github.com/frankkopp/franky-core/internal/position"
	"github.com/frankkopp/franky-core/internal/search"
	"github.com/frankkopp/franky-core/internal/searchmanager"
	. "github.com/frankkopp/franky-core/internal/types"
	"github.com/frankkopp/franky-core/internal/util"
)

// engineVersion is reported by the identify command.
const engineVersion = "1.0"

var log *logging.Logger

// Engine handles all communication with a front end over the line-based
// protocol and controls options, position and search. Create an instance
// with NewEngine().
type Engine struct {
	InIo  *bufio.Scanner
	OutIo *bufio.Writer

	myMoveGen   *movegen.Movegen
	mySearchMgr *searchmanager.Manager
	myPerft     *movegen.Perft
	engineLog   *logging.Logger

	// posMutex guards myPosition so the front end can read it (e.g. for
	// a FEN dump) while a search holds its own clone.
	posMutex   sync.Mutex
	myPosition *position.Position
}

// ///////////////////////////////////////////////////////////
// Public
// ///////////////////////////////////////////////////////////

// NewEngine creates a new Engine instance. Input / Output io can be
// replaced by changing the instance's InIo and OutIo members.
//  Example:
// 		e.InIo = bufio.NewScanner(os.Stdin)
//		e.OutIo = bufio.NewWriter(os.Stdout)
func NewEngine() *Engine {
	if log == nil {
		log = myLogging.GetLog()
	}
	e := &Engine{
		InIo:        bufio.NewScanner(os.Stdin),
		OutIo:       bufio.NewWriter(os.Stdout),
		myMoveGen:   movegen.NewMoveGen(),
		mySearchMgr: searchmanager.NewManager(config.Settings.Search.NoOfThreads),
		myPerft:     movegen.NewPerft(),
		myPosition:  position.NewPosition(),
		engineLog:   getEngineLog(),
	}
	e.mySearchMgr.SetReporter(e)
	return e
}

// Loop starts the main loop to receive commands through the input
// stream (pipe or user) until quit is received.
func (e *Engine) Loop() {
	e.loop()
}

// Command handles a single line of the protocol aka command. Returns the
// response as a string. Mostly useful for debugging and unit testing.
func (e *Engine) Command(cmd string) string {
	tmp := e.OutIo
	buffer := new(bytes.Buffer)
	e.OutIo = bufio.NewWriter(buffer)
	e.handleReceivedCommand(cmd)
	_ = e.OutIo.Flush()
	e.OutIo = tmp
	return buffer.String()
}

// ///////////////////////////////////////////////////////////
// search.Reporter implementation
// ///////////////////////////////////////////////////////////

// ReportReadyOk sends the readyOk event once any pending initialisation
// has completed.
func (e *Engine) ReportReadyOk() {
	e.send("readyOk")
}

// ReportInfoString sends an arbitrary diagnostic string as an infoString
// event.
func (e *Engine) ReportInfoString(info string) {
	e.send(fmt.Sprintf("infoString %s", info))
}

// ReportIterationEnd sends information about the last completed search
// depth iteration as an info event.
func (e *Engine) ReportIterationEnd(depth int, seldepth int, value Value, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
	e.send(fmt.Sprintf("info depth %d seldepth %d score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), nodes, nps, t.Milliseconds(), pv.StringUci()))
}

// ReportAspirationResearch sends information about an aspiration window
// re-search as an info event.
func (e *Engine) ReportAspirationResearch(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, t time.Duration, pv moveslice.MoveSlice) {
	e.send(fmt.Sprintf("info depth %d seldepth %d %s score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, bound, value.String(), nodes, nps, t.Milliseconds(), pv.StringUci()))
}

// ReportCurrentRootMove sends the currently searched root move as an info
// event.
func (e *Engine) ReportCurrentRootMove(currMove Move, moveNumber int) {
	e.send(fmt.Sprintf("info currmove %s currmovenumber %d", currMove.StringUci(), moveNumber))
}

// ReportSearchUpdate sends a periodic update about search stats as an info
// event.
func (e *Engine) ReportSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, t time.Duration, hashfull int) {
	e.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, t.Milliseconds(), hashfull))
}

// ReportCurrentLine sends a periodic update of the currently searched
// variation as an info event.
func (e *Engine) ReportCurrentLine(moveList moveslice.MoveSlice) {
	e.send(fmt.Sprintf("info currline %s", moveList.StringUci()))
}

// ReportResult sends the bestMove event once a search has ended or been
// stopped.
func (e *Engine) ReportResult(bestMove Move, ponderMove Move) {
	var resultStr strings.Builder
	resultStr.WriteString("bestMove ")
	resultStr.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		resultStr.WriteString(" ponder ")
		resultStr.WriteString(ponderMove.StringUci())
	}
	e.send(resultStr.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

func (e *Engine) loop() {
	for {
		log.Debugf("Waiting for command:")
		for e.InIo.Scan() {
			if e.handleReceivedCommand(e.InIo.Text()) {
				return
			}
			log.Debugf("Waiting for command:")
		}
	}
}

var regexWhiteSpace = regexp.MustCompile(`\s+`)

func (e *Engine) handleReceivedCommand(cmd string) bool {
	if len(cmd) == 0 {
		return false
	}
	log.Debugf("Received command: %s", cmd)
	e.engineLog.Infof("<< %s", cmd)
	tokens := regexWhiteSpace.Split(cmd, -1)
	firstToken := strings.TrimSpace(tokens[0])
	switch firstToken {
	case "quit":
		return true
	case "identify":
		e.identifyCommand()
	case "setOption":
		e.setOptionCommand(tokens)
	case "isReady":
		e.isReadyCommand()
	case "newGame":
		e.newGameCommand()
	case "position":
		e.positionCommand(tokens)
	case "goInfinite", "goDepth", "goMoveTime", "goNodes", "goGameTime":
		e.goCommand(tokens)
	case "stop":
		e.stopCommand()
	case "perft":
		e.perftCommand(tokens)
	case "noop":
	default:
		log.Warningf("Error: Unknown command: %s", cmd)
	}
	log.Debugf("Processed command: %s", cmd)
	return false
}

// command handler for "identify". Responds with identity lines.
func (e *Engine) identifyCommand() {
	e.send("identity name franky-core " + engineVersion)
	e.send("identity author Frank Kopp, Germany")
	e.send("identityOk")
}

// the setOption command reads the option name and the optional value and
// applies it to the search/config if it exists.
func (e *Engine) setOptionCommand(tokens []string) {
	name := ""
	value := ""
	if len(tokens) > 1 && tokens[1] == "name" {
		i := 2
		for i < len(tokens) && tokens[i] != "value" {
			name += tokens[i] + " "
			i++
		}
		name = strings.TrimSpace(name)
		if len(tokens) > i && tokens[i] == "value" && len(tokens) > i+1 {
			value = tokens[i+1]
		}
	} else {
		msg := "Command 'setOption' is malformed"
		e.ReportInfoString(msg)
		log.Warning(msg)
		return
	}
	switch name {
	case "Hash":
		size, err := strconv.Atoi(value)
		if err != nil {
			msg := fmt.Sprintf("Command 'setOption' Hash value not a number: %s", value)
			e.ReportInfoString(msg)
			log.Warning(msg)
			return
		}
		config.Settings.Search.TTSize = size
		e.mySearchMgr.ResizeCache()
	case "ClearHash":
		e.mySearchMgr.ClearHash()
	case "Threads":
		threads, err := strconv.Atoi(value)
		if err != nil {
			msg := fmt.Sprintf("Command 'setOption' Threads value not a number: %s", value)
			e.ReportInfoString(msg)
			log.Warning(msg)
			return
		}
		config.Settings.Search.NoOfThreads = threads
		e.mySearchMgr.Resize(threads)
		e.ReportInfoString(fmt.Sprintf("Threads set to %d", threads))
	case "SharpMargin":
		margin, err := strconv.Atoi(value)
		if err != nil {
			msg := fmt.Sprintf("Command 'setOption' SharpMargin value not a number: %s", value)
			e.ReportInfoString(msg)
			log.Warning(msg)
			return
		}
		config.Settings.Search.SharpMargin = margin
	default:
		msg := fmt.Sprintf("Command 'setOption': No such option '%s'", name)
		e.ReportInfoString(msg)
		log.Warning(msg)
	}
}

// isReadyCommand asks the search to signal readiness, initialising
// itself if this is the first call.
func (e *Engine) isReadyCommand() {
	e.mySearchMgr.IsReady()
}

// stopCommand stops a running search or perft.
func (e *Engine) stopCommand() {
	e.mySearchMgr.StopSearch()
	e.myPerft.Stop()
}

// perftCommand starts a perft test at the given depth on the current
// position. Not part of spec §6.1 but a harmless diagnostic extension in
// the same vein as the teacher's perft command.
func (e *Engine) perftCommand(tokens []string) {
	depth := 4
	if len(tokens) > 1 {
		d, err := strconv.Atoi(tokens[1])
		if err != nil {
			log.Warningf("Can't perft on depth='%s'", tokens[1])
		} else {
			depth = d
		}
	}
	e.posMutex.Lock()
	fen := e.myPosition.StringFen()
	e.posMutex.Unlock()
	go e.myPerft.StartPerftMulti(fen, depth, depth, true)
}

// goCommand reads the search limits implied by the go-variant token and
// the rest of the line, then starts a search on the current position.
func (e *Engine) goCommand(tokens []string) {
	searchLimits, failed := e.readSearchLimits(tokens)
	if failed {
		return
	}
	e.posMutex.Lock()
	p := *e.myPosition
	e.posMutex.Unlock()
	e.mySearchMgr.StartSearch(p, *searchLimits)
}

// positionCommand sets the current position as given by fen and applies
// the optional list of moves in order.
func (e *Engine) positionCommand(tokens []string) {
	if len(tokens) < 2 {
		msg := fmt.Sprintf("Command 'position' malformed. %s", tokens)
		e.ReportInfoString(msg)
		log.Warning(msg)
		return
	}
	fen := position.StartFen
	i := 1
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var fenb strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			fenb.WriteString(tokens[i])
			fenb.WriteString(" ")
			i++
		}
		fen = strings.TrimSpace(fenb.String())
		if len(fen) == 0 {
			msg := fmt.Sprintf("Command 'position' malformed. %s", tokens)
			e.ReportInfoString(msg)
			log.Warning(msg)
			return
		}
	default:
		msg := fmt.Sprintf("Command 'position' malformed. %s", tokens)
		e.ReportInfoString(msg)
		log.Warning(msg)
		return
	}

	newPos, err := position.NewPositionFen(fen)
	if err != nil {
		msg := fmt.Sprintf("Command 'position' malformed fen '%s': %s", fen, err)
		e.ReportInfoString(msg)
		log.Warning(msg)
		return
	}

	// apply moves; if any move is illegal, stop applying and warn, but
	// keep whatever prefix of moves was already applied.
	if i < len(tokens) && tokens[i] == "moves" {
		i++
		for i < len(tokens) {
			move, err := e.myMoveGen.GetMoveFromUci(newPos, tokens[i])
			if err != nil || !move.IsValid() {
				msg := fmt.Sprintf("Command 'position' malformed. Invalid move '%s' (%s)", tokens[i], tokens)
				e.ReportInfoString(msg)
				log.Warning(msg)
				break
			}
			newPos.DoMove(move)
			i++
		}
	}

	e.posMutex.Lock()
	e.myPosition = newPos
	e.posMutex.Unlock()
	log.Debugf("New position: %s", newPos.StringFen())
}

// newGameCommand resets the position to the standard initial position and
// clears the transposition table.
func (e *Engine) newGameCommand() {
	e.posMutex.Lock()
	e.myPosition = position.NewPosition()
	e.posMutex.Unlock()
	e.mySearchMgr.NewGame()
}

func (e *Engine) readSearchLimits(tokens []string) (*search.Limits, bool) {
	searchLimits := search.NewSearchLimits()
	switch tokens[0] {
	case "goInfinite":
		searchLimits.Infinite = true
		return searchLimits, false
	case "goDepth":
		if len(tokens) < 2 {
			return e.malformedGo(tokens)
		}
		d, err := strconv.Atoi(tokens[1])
		if err != nil {
			return e.malformedGo(tokens)
		}
		searchLimits.Depth = d
		return searchLimits, false
	case "goMoveTime":
		if len(tokens) < 2 {
			return e.malformedGo(tokens)
		}
		ms, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return e.malformedGo(tokens)
		}
		searchLimits.MoveTime = time.Duration(ms * 1_000_000)
		searchLimits.TimeControl = true
		return searchLimits, false
	case "goNodes":
		if len(tokens) < 2 {
			return e.malformedGo(tokens)
		}
		n, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return e.malformedGo(tokens)
		}
		searchLimits.Nodes = uint64(n)
		return searchLimits, false
	case "goGameTime":
		return e.readGameTimeLimits(tokens, searchLimits)
	default:
		return e.malformedGo(tokens)
	}
}

func (e *Engine) readGameTimeLimits(tokens []string, searchLimits *search.Limits) (*search.Limits, bool) {
	searchLimits.TimeControl = true
	i := 1
	for i < len(tokens) {
		var err error
		switch tokens[i] {
		case "wtime":
			i++
			v, e2 := strconv.ParseInt(tokens[i], 10, 64)
			err = e2
			searchLimits.WhiteTime = time.Duration(v * 1_000_000)
		case "btime":
			i++
			v, e2 := strconv.ParseInt(tokens[i], 10, 64)
			err = e2
			searchLimits.BlackTime = time.Duration(v * 1_000_000)
		case "winc":
			i++
			v, e2 := strconv.ParseInt(tokens[i], 10, 64)
			err = e2
			searchLimits.WhiteInc = time.Duration(v * 1_000_000)
		case "binc":
			i++
			v, e2 := strconv.ParseInt(tokens[i], 10, 64)
			err = e2
			searchLimits.BlackInc = time.Duration(v * 1_000_000)
		case "movestogo":
			i++
			searchLimits.MovesToGo, err = strconv.Atoi(tokens[i])
		default:
			return e.malformedGo(tokens)
		}
		if err != nil {
			return e.malformedGo(tokens)
		}
		i++
	}
	e.posMutex.Lock()
	next := e.myPosition.NextPlayer()
	e.posMutex.Unlock()
	if next == White && searchLimits.WhiteTime == 0 {
		msg := fmt.Sprintf("Command 'goGameTime' invalid. White to move but time for white is zero! %s", tokens)
		e.ReportInfoString(msg)
		log.Warning(msg)
		return nil, true
	} else if next == Black && searchLimits.BlackTime == 0 {
		msg := fmt.Sprintf("Command 'goGameTime' invalid. Black to move but time for black is zero! %s", tokens)
		e.ReportInfoString(msg)
		log.Warning(msg)
		return nil, true
	}
	return searchLimits, false
}

func (e *Engine) malformedGo(tokens []string) (*search.Limits, bool) {
	msg := fmt.Sprintf("Command '%s' malformed. %s", tokens[0], tokens)
	e.ReportInfoString(msg)
	log.Warning(msg)
	return nil, true
}

// getEngineLog returns an instance of a special Logger preconfigured for
// logging all protocol communication to os.Stdout or file. Format is a
// simple "time ENGINE <command>".
func getEngineLog() *logging.Logger {
	engineLog := logging.MustGetLogger("ENGINE ")

	engineFormat := logging.MustStringFormatter(`%{time:15:04:05.000} ENGINE %{message}`)
	backend1 := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, engineFormat)
	engineBackEnd1 := logging.AddModuleLevel(backend1Formatter)
	engineBackEnd1.SetLevel(logging.DEBUG, "")
	engineLog.SetBackend(engineBackEnd1)

	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	logPath, err := util.ResolveFolder(config.Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return engineLog
	}
	logFilePath := filepath.Join(logPath, exeName+"_engine.log")

	engineLogFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return engineLog
	}
	backend2 := logging.NewLogBackend(engineLogFile, "", golog.Lmsgprefix)
	backend2Formatter := logging.NewBackendFormatter(backend2, engineFormat)
	engineBackEnd2 := logging.AddModuleLevel(backend2Formatter)
	engineBackEnd2.SetLevel(logging.DEBUG, "")
	engineLog.SetBackend(engineBackEnd2)
	engineLog.Infof("Log %s started at %s:", engineLogFile.Name(), time.Now().String())
	return engineLog
}

// send writes any string followed by a newline to the front end.
func (e *Engine) send(s string) {
	e.engineLog.Infof(">> %s", s)
	_, _ = e.OutIo.WriteString(s + "\n")
	_ = e.OutIo.Flush()
}
