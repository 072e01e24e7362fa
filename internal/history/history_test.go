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

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/frankkopp/franky-core/internal/types"
)

func TestHistoryValueEmpty(t *testing.T) {
	h := NewHistory()
	assert.EqualValues(t, 0, h.HistoryValue(White, SqE2, SqE4))
}

func TestHistoryUpdateAccumulates(t *testing.T) {
	h := NewHistory()
	m := CreateMove(SqE2, SqE4, Normal, PtNone)

	h.Update(White, m, MoveNone, 3)
	assert.EqualValues(t, 9, h.HistoryValue(White, SqE2, SqE4))

	// a second cutoff at the same depth adds again
	h.Update(White, m, MoveNone, 3)
	assert.EqualValues(t, 18, h.HistoryValue(White, SqE2, SqE4))

	// black's history for the same squares is independent
	assert.EqualValues(t, 0, h.HistoryValue(Black, SqE2, SqE4))
}

func TestCounterMove(t *testing.T) {
	h := NewHistory()
	previous := CreateMove(SqD2, SqD4, Normal, PtNone)
	reply := CreateMove(SqG8, SqF6, Normal, PtNone)

	assert.EqualValues(t, MoveNone, h.Counter(previous))

	h.Update(Black, reply, previous, 1)
	assert.EqualValues(t, reply.MoveOf(), h.Counter(previous))
}

func TestCounterOfNoMove(t *testing.T) {
	h := NewHistory()
	assert.EqualValues(t, MoveNone, h.Counter(MoveNone))
}
