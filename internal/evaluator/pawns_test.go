/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/frankkopp/franky-core/internal/config"
	"github.com/frankkopp/franky-core/internal/position"
	. "github.com/frankkopp/franky-core/internal/types"
)

func TestEvalPiecePawnsCache(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = true

	e := NewEvaluator()
	Settings.Eval.Tempo = 0
	p := position.NewPosition()
	var score *Score
	e.InitEval(p)

	assert.EqualValues(t, 0, e.pawnCache.len())
	assert.EqualValues(t, 0, e.pawnCache.hits)
	assert.EqualValues(t, 0, e.pawnCache.misses)

	score = e.evaluatePawns()
	assert.EqualValues(t, 1, e.pawnCache.len())
	assert.EqualValues(t, 0, e.pawnCache.hits)
	assert.EqualValues(t, 1, e.pawnCache.misses)

	score2 := e.evaluatePawns()
	assert.EqualValues(t, 1, e.pawnCache.len())
	assert.EqualValues(t, 1, e.pawnCache.hits)
	assert.EqualValues(t, 1, e.pawnCache.misses)

	assert.EqualValues(t, score, score2)
}

func TestEvalPiecePawns(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()
	Settings.Eval.Tempo = 0
	p := position.NewPosition()
	var score *Score
	e.InitEval(p)

	score = e.evaluatePawns()
	out.Printf("Pawns: %s\n", score)

}

func TestEvalPawnsIsolated(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()

	// a single white pawn with no board-mates and no black pawns at all:
	// isolated (no own pawn on d or f file) and passed (no enemy pawn can
	// ever stop it), nothing else applies
	p := position.NewPosition("4k3/8/8/4P3/8/8/8/4K3 w - -")
	e.InitEval(p)
	score := e.evaluatePawns()
	assert.EqualValues(t, Settings.Eval.PawnIsolatedMidMalus+Settings.Eval.PawnPassedMidBonus, score.MidGameValue)
	assert.EqualValues(t, Settings.Eval.PawnIsolatedEndMalus+Settings.Eval.PawnPassedEndBonus, score.EndGameValue)
}

func TestEvalPawnsPhalanx(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()

	// two white pawns side by side on the same rank: neither is isolated
	// (each has a neighbouring file pawn), both are passed (no black
	// pawns), and both earn the phalanx bonus
	p := position.NewPosition("4k3/8/8/8/8/8/3PP3/4K3 w - -")
	e.InitEval(p)
	score := e.evaluatePawns()
	perPawnMg := Settings.Eval.PawnPassedMidBonus + Settings.Eval.PawnPhalanxMidBonus
	perPawnEg := Settings.Eval.PawnPassedEndBonus + Settings.Eval.PawnPhalanxEndBonus
	assert.EqualValues(t, 2*perPawnMg, score.MidGameValue)
	assert.EqualValues(t, 2*perPawnEg, score.EndGameValue)
}

func TestEvalPawnsSupported(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()

	// d3 defends e4 diagonally: e4 is supported (and not isolated, since
	// d-file carries a pawn); d3 itself is merely passed
	p := position.NewPosition("4k3/8/8/8/4P3/3P4/8/4K3 w - -")
	e.InitEval(p)
	score := e.evaluatePawns()
	d3 := Settings.Eval.PawnPassedMidBonus
	e4 := Settings.Eval.PawnPassedMidBonus + Settings.Eval.PawnSupportedMidBonus
	assert.EqualValues(t, d3+e4, score.MidGameValue)
}
