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

package config

type evalConfiguration struct {

	// evaluation values
	UseLazyEval       bool
	LazyEvalThreshold int16

	UseMaterialEval   bool
	UsePositionalEval bool

	Tempo int16

	UseAttacksInEval bool

	UseMobility   bool
	MobilityBonus int16

	// Tapered per-piece mobility tables, indexed by the piece's own
	// attack-square popcount (clamped to the table's last index).
	// Mg (midgame) and Eg (endgame) are looked up and blended by the
	// same game phase factor as the rest of the score.
	MobilityKnightMg [9]int16
	MobilityKnightEg [9]int16
	MobilityBishopMg [14]int16
	MobilityBishopEg [14]int16
	MobilityRookMg   [15]int16
	MobilityRookEg   [15]int16
	MobilityQueenMg  [28]int16
	MobilityQueenEg  [28]int16

	UseAdvancedPieceEval bool
	BishopPairBonus      int16
	MinorBehindPawnBonus int16
	BishopPawnMalus      int16
	BishopCenterAimBonus int16
	BishopBlockedMalus   int16
	RookOnQueenFileBonus int16
	RookOnOpenFileBonus  int16
	RookTrappedMalus     int16
	KingRingAttacksBonus int16

	UseKingEval               bool
	KingCastlePawnShieldBonus int16
	KingDangerMalus           int16
	KingDefenderBonus         int16
	KingOpenFileMalus         int16
	KingHalfOpenFileMalus     int16
	KingPawnStormMalus        int16
	// KingAttackWeight weights king-ring attacks by the attacking piece's
	// type, indexed by types.PieceType (PtNone/King/Pawn entries unused).
	KingAttackWeight [7]int16

	// PAWNS
	UsePawnEval   bool
	UsePawnCache  bool
	PawnCacheSize int

	PawnIsolatedMidMalus  int16
	PawnIsolatedEndMalus  int16
	PawnDoubledMidMalus   int16
	PawnDoubledEndMalus   int16
	PawnPassedMidBonus    int16
	PawnPassedEndBonus    int16
	PawnBlockedMidMalus   int16
	PawnBlockedEndMalus   int16
	PawnPhalanxMidBonus   int16
	PawnPhalanxEndBonus   int16
	PawnSupportedMidBonus int16
	PawnSupportedEndBonus int16
}

// sets defaults which might be overwritten by config file.
func init() {

	Settings.Eval.UseLazyEval = false
	Settings.Eval.LazyEvalThreshold = 700

	Settings.Eval.UseMaterialEval = true
	Settings.Eval.UsePositionalEval = true

	Settings.Eval.Tempo = 34

	Settings.Eval.UseAttacksInEval = true

	Settings.Eval.UseMobility = true
	Settings.Eval.MobilityBonus = 5 // per piece and attacked square

	// Midgame table taken from the classic mobility curve (flat
	// per-move-count bonus, diminishing returns past the first few
	// squares). Endgame table halves the magnitude: mobility matters
	// less once material and king safety dominate the endgame.
	Settings.Eval.MobilityKnightMg = [9]int16{-25, -11, -3, 3, 8, 12, 15, 17, 18}
	Settings.Eval.MobilityKnightEg = [9]int16{-12, -5, -1, 1, 4, 6, 7, 8, 9}
	Settings.Eval.MobilityBishopMg = [14]int16{-25, -11, -3, 3, 8, 12, 15, 17, 18, 20, 22, 23, 24, 25}
	Settings.Eval.MobilityBishopEg = [14]int16{-12, -5, -1, 1, 4, 6, 7, 8, 9, 10, 11, 11, 12, 12}
	Settings.Eval.MobilityRookMg = [15]int16{-25, -11, -3, 3, 8, 12, 15, 17, 18, 20, 22, 23, 24, 25, 26}
	Settings.Eval.MobilityRookEg = [15]int16{-12, -5, -1, 1, 4, 6, 7, 8, 9, 10, 11, 11, 12, 12, 13}
	Settings.Eval.MobilityQueenMg = [28]int16{
		-25, -11, -3, 3, 8, 12, 15, 17, 18, 20, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34,
		35, 36, 37, 38, 39,
	}
	Settings.Eval.MobilityQueenEg = [28]int16{
		-12, -5, -1, 1, 4, 6, 7, 8, 9, 10, 11, 11, 12, 12, 13, 13, 14, 14, 15, 15, 16, 16, 17,
		17, 18, 18, 19, 19,
	}

	Settings.Eval.UseAdvancedPieceEval = true
	Settings.Eval.KingCastlePawnShieldBonus = 15
	Settings.Eval.KingRingAttacksBonus = 10 // per piece and attacked king ring square
	Settings.Eval.MinorBehindPawnBonus = 15 // per piece and times game phase
	Settings.Eval.BishopPairBonus = 20      // once
	Settings.Eval.BishopPawnMalus = 5       // per pawn and times ~game phase
	Settings.Eval.BishopCenterAimBonus = 20 // per bishop and times game phase
	Settings.Eval.BishopBlockedMalus = 40   // per bishop
	Settings.Eval.RookOnQueenFileBonus = 6  // per rook
	Settings.Eval.RookOnOpenFileBonus = 25  // per rook and time game phase
	Settings.Eval.RookTrappedMalus = 40     // per rook and time game phase

	Settings.Eval.UseKingEval = true
	Settings.Eval.KingDangerMalus = 50   // number of number of attacker - defender times malus if attacker > defender
	Settings.Eval.KingDefenderBonus = 10 // number of number of defender - attacker times bonus if attacker <= defender
	Settings.Eval.KingOpenFileMalus = 20
	Settings.Eval.KingHalfOpenFileMalus = 10
	Settings.Eval.KingPawnStormMalus = 8
	// indexed by types.PieceType: PtNone, King, Pawn, Knight, Bishop, Rook, Queen
	Settings.Eval.KingAttackWeight = [7]int16{0, 0, 0, 15, 15, 25, 40}

	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = true
	Settings.Eval.PawnCacheSize = 64

	Settings.Eval.PawnIsolatedMidMalus = -10
	Settings.Eval.PawnIsolatedEndMalus = -20
	Settings.Eval.PawnDoubledMidMalus = -10
	Settings.Eval.PawnDoubledEndMalus = -30
	Settings.Eval.PawnPassedMidBonus = 20
	Settings.Eval.PawnPassedEndBonus = 40
	Settings.Eval.PawnBlockedMidMalus = -2
	Settings.Eval.PawnBlockedEndMalus = -20
	Settings.Eval.PawnPhalanxMidBonus = 4
	Settings.Eval.PawnPhalanxEndBonus = 4
	Settings.Eval.PawnSupportedMidBonus = 10
	Settings.Eval.PawnSupportedEndBonus = 15
}

// set defaults for configurations here in case a configuration
// is not available from the config file.
func setupEval() {

}
