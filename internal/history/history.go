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

// Package history provides data structures and functionality to manage
// history driven move tables (e.g. history counter, counter moves, etc.)
package history

import (
	"fmt"
	"strings"

	. "github.com/frankkopp/franky-core/internal/types"
)

var out = fmt.Sprintf

// History is a data structure updated during search to provide the move
// generator with valuable information for move sorting.
type History struct {
	HistoryCount [2][64][64]int64
	CounterMoves [64][64]Move
}

func (h History) String() string {
	sb := strings.Builder{}
	for sf := SqA1; sf < SqNone; sf++ {
		for st := SqA1; st < SqNone; st++ {
			sb.WriteString(out("Move=%s%s: ", sf.String(), st.String()))
			for c := White; c <= 1; c++ {
				count := h.HistoryCount[c][sf][st]
				sb.WriteString(out("%s=%-7d ", c.String(), count))
			}
			m := h.CounterMoves[sf][st]
			sb.WriteString(out("cm=%s\n", m.StringUci()))
		}
	}
	return sb.String()
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{}
}

// HistoryValue returns the history counter score for a quiet move by the
// given side between the two squares. Used by the move generator to order
// non-capturing moves that have repeatedly caused cutoffs.
func (h *History) HistoryValue(c Color, from Square, to Square) int64 {
	return h.HistoryCount[c][from][to]
}

// Counter returns the stored counter-move for the move that was just played,
// or MoveNone if none has been recorded yet.
func (h *History) Counter(lastMove Move) Move {
	if lastMove == MoveNone {
		return MoveNone
	}
	return h.CounterMoves[lastMove.From()][lastMove.To()]
}

// Update records a cutoff caused by a quiet move at the given depth and,
// if a previous move is known, stores it as that move's counter-move.
func (h *History) Update(c Color, move Move, previous Move, depth int) {
	from, to := move.From(), move.To()
	h.HistoryCount[c][from][to] += int64(depth) * int64(depth)
	if previous != MoveNone {
		h.CounterMoves[previous.From()][previous.To()] = move.MoveOf()
	}
}
