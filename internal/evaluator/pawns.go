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
	. "github.com/frankkopp/franky-core/internal/config"
	. "github.com/frankkopp/franky-core/internal/types"
)

func (e *Evaluator) evaluatePawns() *Score {
	e.tmpScore.MidGameValue = 0
	e.tmpScore.EndGameValue = 0

	// look on cache table
	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			e.tmpScore.MidGameValue += entry.score.MidGameValue
			e.tmpScore.EndGameValue += entry.score.EndGameValue
			return &e.tmpScore
		}
	}

	// no cache hit - calculate from scratch
	e.pawnStructureEval(White, Black)
	e.pawnStructureEval(Black, White)

	// store in cache
	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &e.tmpScore)
	}

	return &e.tmpScore
}

// pawnStructureEval adds the pawn structure score for us to e.tmpScore from
// white's view: every per-pawn bonus/malus below is multiplied by
// us.Direction(), so black's terms are subtracted. Call once per color.
func (e *Evaluator) pawnStructureEval(us Color, them Color) {
	sign := int16(us.Direction())

	ownPawns := e.position.PiecesBb(us, Pawn)
	enemyPawns := e.position.PiecesBb(them, Pawn)
	allPieces := e.position.OccupiedAll()

	ownAttacks := ShiftBitboard(ownPawns, Northwest) | ShiftBitboard(ownPawns, Northeast)
	if us == Black {
		ownAttacks = ShiftBitboard(ownPawns, Southwest) | ShiftBitboard(ownPawns, Southeast)
	}

	pawns := ownPawns
	for pawns != BbZero {
		sq := pawns.PopLsb()
		file := sq.FileOf()
		fileBb := file.Bb()

		// doubled - any other own pawn on the same file
		if (fileBb & ownPawns).PopCount() > 1 {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnDoubledMidMalus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnDoubledEndMalus
		}

		// isolated - no own pawns on neighbouring files
		if sq.NeighbourFilesMask()&ownPawns == BbZero {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnIsolatedMidMalus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnIsolatedEndMalus
		}

		// passed - no enemy pawns can ever stop or capture this pawn
		if sq.PassedPawnMask(us)&enemyPawns == BbZero {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnPassedMidBonus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnPassedEndBonus
		}

		// blocked - square directly in front is occupied
		if sq.To(us.MoveDirection()).Bb()&allPieces != BbZero {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnBlockedMidMalus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnBlockedEndMalus
		}

		// phalanx - own pawn of the same rank on a neighbouring file
		if sq.NeighbourFilesMask()&sq.RankOf().Bb()&ownPawns != BbZero {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnPhalanxMidBonus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnPhalanxEndBonus
		}

		// supported - defended by another own pawn
		if ownAttacks.Has(sq) {
			e.tmpScore.MidGameValue += sign * Settings.Eval.PawnSupportedMidBonus
			e.tmpScore.EndGameValue += sign * Settings.Eval.PawnSupportedEndBonus
		}
	}
}
