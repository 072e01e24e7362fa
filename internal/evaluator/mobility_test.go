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
)

func TestMobilityTableLookupGrowsWithAttackCount(t *testing.T) {
	Settings.Eval.UseAttacksInEval = true
	Settings.Eval.UseMobility = true

	e := NewEvaluator()

	// a white knight on c2 next to its own pawns and king reaches 5
	// squares; the same knight in the centre of an open board reaches 8
	cramped := position.NewPosition("4k3/8/8/8/8/1PP5/2N5/1PP1K3 w - -")
	e.InitEval(cramped)
	e.attack.Compute(cramped)
	crampedMg := e.attack.MobilityMg[White]

	open := position.NewPosition("4k3/8/8/8/4N3/8/8/4K3 w - -")
	e.InitEval(open)
	e.attack.Compute(open)
	openMg := e.attack.MobilityMg[White]

	assert.Greater(t, openMg, crampedMg)
}

func TestEvaluateAddsMobilityWhenEnabled(t *testing.T) {
	Settings.Eval.UseMaterialEval = false
	Settings.Eval.UsePositionalEval = false
	Settings.Eval.UsePawnEval = false
	Settings.Eval.UseAdvancedPieceEval = false
	Settings.Eval.UseKingEval = false
	Settings.Eval.Tempo = 0
	defer func() {
		Settings.Eval.UseMaterialEval = true
		Settings.Eval.UsePositionalEval = true
		Settings.Eval.UsePawnEval = true
		Settings.Eval.UseAdvancedPieceEval = true
		Settings.Eval.UseKingEval = true
		Settings.Eval.Tempo = 34
	}()

	p := position.NewPosition("4k3/8/8/8/4N3/8/P7/4K3 w - -")

	Settings.Eval.UseAttacksInEval = false
	Settings.Eval.UseMobility = false
	e := NewEvaluator()
	withoutMobility := e.Evaluate(p)

	Settings.Eval.UseAttacksInEval = true
	Settings.Eval.UseMobility = true
	e = NewEvaluator()
	withMobility := e.Evaluate(p)

	assert.NotEqual(t, withoutMobility, withMobility)
}

func TestEvalKingPawnShieldBonus(t *testing.T) {
	Settings.Eval.UseAttacksInEval = false

	e := NewEvaluator()

	// white king castled kingside with an intact pawn shield on f2/g2/h2
	shielded := position.NewPosition("4k3/8/8/8/8/8/5PPP/6K1 w - -")
	e.InitEval(shielded)
	shieldedScore := e.evalKing(White)

	// same king, shield pushed away
	exposed := position.NewPosition("4k3/8/8/8/5PPP/8/8/6K1 w - -")
	e.InitEval(exposed)
	exposedScore := e.evalKing(White)

	assert.Greater(t, shieldedScore.MidGameValue, exposedScore.MidGameValue)
}

func TestEvalKingRingDangerRequiresAttacks(t *testing.T) {
	Settings.Eval.UseAttacksInEval = true

	e := NewEvaluator()

	// black queen and rook bear down on the white king's ring, undefended
	p := position.NewPosition("4k3/8/8/8/8/7q/6r1/6K1 b - -")
	e.InitEval(p)
	e.attack.Compute(p)

	danger := e.evalKing(White)

	assert.Less(t, danger.MidGameValue, int16(0))
}
