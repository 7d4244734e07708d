package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	kindI = 0
	kindO = 1
	kindT = 2
)

// testGame builds a game with a fixed current piece and a seeded bag so
// tests stay deterministic.
func testGame(kind int) Game {
	g := Game{
		Board: newBoard(),
		rng:   rand.New(rand.NewSource(1)),
	}
	g.refillBag()
	g.Piece = newPiece(kind)
	g.Next = g.popBag()
	return g
}

func TestCanPlaceBounds(t *testing.T) {
	board := newBoard()
	shape := pieceShapes[kindO]
	tests := []struct {
		name string
		row  int
		col  int
		ok   bool
	}{
		{"inside", 0, 4, true},
		{"left wall", 0, 0, true},
		{"right wall", 0, boardWidth - 2, true},
		{"past left", 0, -1, false},
		{"past right", 0, boardWidth - 1, false},
		{"floor", boardHeight - 2, 4, true},
		{"below floor", boardHeight - 1, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, canPlace(board, shape, tt.row, tt.col))
		})
	}
}

func TestCanPlaceRejectsOverlap(t *testing.T) {
	board := newBoard()
	board[1][5] = 3
	shape := pieceShapes[kindO]

	assert.False(t, canPlace(board, shape, 0, 4))
	assert.True(t, canPlace(board, shape, 0, 6))
}

func TestMergeBoardLeavesInputUntouched(t *testing.T) {
	board := newBoard()
	merged := mergeBoard(board, pieceShapes[kindO], kindO, boardHeight-2, 4)

	assert.Equal(t, kindO+1, merged[boardHeight-2][4])
	assert.Equal(t, kindO+1, merged[boardHeight-1][5])
	for y := range board {
		for x := range board[y] {
			assert.Zero(t, board[y][x])
		}
	}
}

func TestClearFullRows(t *testing.T) {
	board := newBoard()
	board[10][0] = 2
	for _, y := range []int{boardHeight - 2, boardHeight - 1} {
		for x := 0; x < boardWidth; x++ {
			board[y][x] = 5
		}
	}

	next, cleared, rows := clearFullRows(board)

	assert.Equal(t, 2, cleared)
	assert.Equal(t, []int{boardHeight - 2, boardHeight - 1}, rows)
	assert.Len(t, next, boardHeight)
	// The surviving cell shifted down by the number of cleared rows.
	assert.Equal(t, 2, next[12][0])
	for x := 0; x < boardWidth; x++ {
		assert.Zero(t, next[boardHeight-1][x])
	}
}

func TestClearFullRowsNoFullRows(t *testing.T) {
	board := newBoard()
	board[boardHeight-1][0] = 1

	next, cleared, rows := clearFullRows(board)

	assert.Zero(t, cleared)
	assert.Empty(t, rows)
	assert.Equal(t, board, next)
}

func TestRotateShape(t *testing.T) {
	cw := rotateShape(pieceShapes[kindT], 1)
	assert.Equal(t, [][]int{
		{0, 1, 0},
		{0, 1, 1},
		{0, 1, 0},
	}, cw)

	ccw := rotateShape(cw, -1)
	assert.Equal(t, pieceShapes[kindT], ccw)
}

func TestMoveCommitsOnlyValidPositions(t *testing.T) {
	g := testGame(kindO)
	g.Piece.Col = 0

	assert.False(t, g.Move(-1))
	assert.Equal(t, 0, g.Piece.Col)

	assert.True(t, g.Move(1))
	assert.Equal(t, 1, g.Piece.Col)

	g.Piece.Col = boardWidth - 2
	assert.False(t, g.Move(1))
	assert.Equal(t, boardWidth-2, g.Piece.Col)
}

func TestRotateRejectedOutOfBounds(t *testing.T) {
	g := testGame(kindI)
	// Vertical I hugging the left wall; rotating back to horizontal
	// would reach columns left of the board. No wall kick.
	g.Piece.Shape = rotateShape(pieceShapes[kindI], 1)
	g.Piece.Col = -2

	before := g.Piece.Shape
	assert.False(t, g.Rotate(1))
	assert.Equal(t, before, g.Piece.Shape)
}

func TestRotateRejectedOnOverlap(t *testing.T) {
	g := testGame(kindT)
	g.Piece.Row = boardHeight - 3
	g.Piece.Col = 3
	// The clockwise T would occupy this cell.
	g.Board[boardHeight-1][4] = 6

	before := g.Piece.Shape
	assert.False(t, g.Rotate(1))
	assert.Equal(t, before, g.Piece.Shape)

	g.Board[boardHeight-1][4] = 0
	assert.True(t, g.Rotate(1))
}

func TestStepDescendsWhileValid(t *testing.T) {
	g := testGame(kindO)
	row := g.Piece.Row

	result := g.Step()

	assert.False(t, result.Locked)
	assert.Equal(t, row+1, g.Piece.Row)
	assert.Zero(t, g.Score)
}

func TestStepLocksAndSpawnsNext(t *testing.T) {
	g := testGame(kindO)
	next := g.Next
	g.Piece.Row = g.GhostRow()

	result := g.Step()

	assert.True(t, result.Locked)
	assert.Zero(t, result.Cleared)
	assert.Equal(t, kindO+1, g.Board[boardHeight-1][4])
	assert.Equal(t, kindO+1, g.Board[boardHeight-2][5])
	assert.Equal(t, next, g.Piece.Kind)
	assert.False(t, g.Over)
}

func TestHardDropAwardsNoDistancePoints(t *testing.T) {
	g := testGame(kindO)

	result := g.HardDrop()

	assert.True(t, result.Locked)
	assert.Zero(t, g.Score)
	assert.Equal(t, kindO+1, g.Board[boardHeight-1][4])
}

func TestClearScoresExactlyHundredPerRow(t *testing.T) {
	g := testGame(kindO)
	// Two bottom rows complete except a 2x2 well at columns 4-5.
	for _, y := range []int{boardHeight - 2, boardHeight - 1} {
		for x := 0; x < boardWidth; x++ {
			if x == 4 || x == 5 {
				continue
			}
			g.Board[y][x] = 7
		}
	}

	result := g.HardDrop()

	assert.Equal(t, 2, result.Cleared)
	assert.Equal(t, 2*rowScore, g.Score)
	assert.Equal(t, 2, g.Lines)
	assert.Len(t, g.Board, boardHeight)
	for x := 0; x < boardWidth; x++ {
		assert.Zero(t, g.Board[boardHeight-1][x])
	}
}

// Bottom row full except one cell; dropping a piece that fills that cell
// clears exactly one line.
func TestDropIntoLastGapClearsLine(t *testing.T) {
	g := testGame(kindI)
	for x := 1; x < boardWidth; x++ {
		g.Board[boardHeight-1][x] = 4
	}
	// Vertical I over the open column 0.
	g.Piece.Shape = rotateShape(pieceShapes[kindI], 1)
	g.Piece.Col = -2

	result := g.HardDrop()

	assert.True(t, result.Locked)
	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, rowScore, g.Score)
	assert.Len(t, g.Board, boardHeight)
	// The rest of the I settled onto the now-empty bottom rows.
	assert.Equal(t, kindI+1, g.Board[boardHeight-1][0])
	for x := 1; x < boardWidth; x++ {
		assert.Zero(t, g.Board[boardHeight-1][x])
	}
}

func TestBlockedSpawnSetsGameOver(t *testing.T) {
	g := testGame(kindO)
	g.Next = kindO
	// Occupy the O spawn cells so the next piece cannot appear.
	g.Board[0][4] = 1
	g.Piece.Row = g.GhostRow()

	g.Step()

	assert.True(t, g.Over)
}

func TestGameOverIsTerminal(t *testing.T) {
	g := testGame(kindO)
	g.Over = true
	boardBefore := mergeBoard(g.Board, pieceShapes[kindO], kindO, boardHeight-2, 4)
	g.Board = boardBefore
	scoreBefore := g.Score
	pieceBefore := g.Piece

	assert.False(t, g.Move(-1))
	assert.False(t, g.Rotate(1))
	assert.False(t, g.Step().Locked)
	assert.False(t, g.SoftDrop().Locked)
	assert.False(t, g.HardDrop().Locked)
	assert.Equal(t, pieceBefore, g.Piece)
	assert.Equal(t, boardBefore, g.Board)
	assert.Equal(t, scoreBefore, g.Score)
}

func TestPausedIgnoresCommands(t *testing.T) {
	g := testGame(kindT)
	g.Paused = true
	pieceBefore := g.Piece

	assert.False(t, g.Move(1))
	assert.False(t, g.Rotate(1))
	assert.False(t, g.Step().Locked)
	assert.Equal(t, pieceBefore, g.Piece)
}

func TestNewGameStartsClean(t *testing.T) {
	g := NewGame()

	assert.Zero(t, g.Score)
	assert.Zero(t, g.Lines)
	assert.False(t, g.Over)
	assert.Len(t, g.Board, boardHeight)
	for y := range g.Board {
		assert.Len(t, g.Board[y], boardWidth)
		for x := range g.Board[y] {
			assert.Zero(t, g.Board[y][x])
		}
	}
	assert.True(t, canPlace(g.Board, g.Piece.Shape, g.Piece.Row, g.Piece.Col))
}

func TestBagYieldsAllSevenKinds(t *testing.T) {
	g := testGame(kindI)
	seen := map[int]bool{g.Piece.Kind: false, g.Next: false}
	kinds := []int{g.Next}
	for i := 0; i < 6; i++ {
		kinds = append(kinds, g.popBag())
	}
	for _, kind := range kinds {
		assert.GreaterOrEqual(t, kind, 0)
		assert.Less(t, kind, 7)
		seen[kind] = true
	}
	assert.Len(t, seen, 7)
}

func TestCommittedMovesStayInBoundsAndOffOccupiedCells(t *testing.T) {
	g := testGame(kindT)
	g.Board[boardHeight-1][0] = 2
	moves := []func() bool{
		func() bool { return g.Move(-1) },
		func() bool { return g.Move(1) },
		func() bool { return g.Rotate(1) },
		func() bool { return g.Rotate(-1) },
	}
	for i := 0; i < 200 && !g.Over; i++ {
		moves[g.rng.Intn(len(moves))]()
		g.Step()
		if g.Over {
			break
		}
		assert.True(t, canPlace(g.Board, g.Piece.Shape, g.Piece.Row, g.Piece.Col))
	}
}
