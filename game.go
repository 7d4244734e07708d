package main

import (
	"math/rand"
	"time"
)

const (
	boardWidth  = 10
	boardHeight = 20
	rowScore    = 100
)

// Piece is the falling tetromino: a square 0/1 shape matrix, its kind
// (0..6, stamped onto the board as kind+1) and a top-left position.
type Piece struct {
	Kind  int
	Shape [][]int
	Row   int
	Col   int
}

type Game struct {
	Board  [][]int
	Piece  Piece
	Next   int
	Score  int
	Lines  int
	Over   bool
	Paused bool
	bag    []int
	rng    *rand.Rand
}

// StepResult reports what a gravity step or drop did, so the view layer
// can show score popups without re-deriving them.
type StepResult struct {
	Locked      bool
	Cleared     int
	ClearedRows []int
}

func NewGame() Game {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	game := Game{
		Board: newBoard(),
		rng:   rng,
	}
	game.refillBag()
	game.Piece = newPiece(game.popBag())
	game.Next = game.popBag()
	return game
}

func newBoard() [][]int {
	board := make([][]int, boardHeight)
	for i := range board {
		board[i] = make([]int, boardWidth)
	}
	return board
}

func newPiece(kind int) Piece {
	shape := pieceShapes[kind]
	return Piece{
		Kind:  kind,
		Shape: shape,
		Row:   0,
		Col:   (boardWidth - len(shape[0])) / 2,
	}
}

// Move shifts the piece horizontally when the target cells are free.
// Invalid moves are silent no-ops.
func (g *Game) Move(dx int) bool {
	if g.Over || g.Paused {
		return false
	}
	if !canPlace(g.Board, g.Piece.Shape, g.Piece.Row, g.Piece.Col+dx) {
		return false
	}
	g.Piece.Col += dx
	return true
}

// Rotate turns the shape matrix 90 degrees and commits only if the
// rotated shape fits at the current position. No wall kick.
func (g *Game) Rotate(dir int) bool {
	if g.Over || g.Paused {
		return false
	}
	rotated := rotateShape(g.Piece.Shape, dir)
	if !canPlace(g.Board, rotated, g.Piece.Row, g.Piece.Col) {
		return false
	}
	g.Piece.Shape = rotated
	return true
}

// Step is the gravity tick: descend one row, or lock, clear lines and
// spawn the next piece when the piece cannot fall further.
func (g *Game) Step() StepResult {
	if g.Over || g.Paused {
		return StepResult{}
	}
	if canPlace(g.Board, g.Piece.Shape, g.Piece.Row+1, g.Piece.Col) {
		g.Piece.Row++
		return StepResult{}
	}
	return g.lockAndSpawn()
}

// SoftDrop is the down key; it delegates to the gravity step.
func (g *Game) SoftDrop() StepResult {
	return g.Step()
}

// HardDrop sends the piece to its resting row and locks it. Awards no
// points on its own; only cleared rows score.
func (g *Game) HardDrop() StepResult {
	if g.Over || g.Paused {
		return StepResult{}
	}
	g.Piece.Row = g.GhostRow()
	return g.lockAndSpawn()
}

// GhostRow returns the row the piece would occupy after falling to rest.
func (g *Game) GhostRow() int {
	row := g.Piece.Row
	for canPlace(g.Board, g.Piece.Shape, row+1, g.Piece.Col) {
		row++
	}
	return row
}

func (g *Game) lockAndSpawn() StepResult {
	g.Board = mergeBoard(g.Board, g.Piece.Shape, g.Piece.Kind, g.Piece.Row, g.Piece.Col)
	board, cleared, rows := clearFullRows(g.Board)
	g.Board = board
	if cleared > 0 {
		g.Score += cleared * rowScore
		g.Lines += cleared
	}
	g.spawnNext()
	return StepResult{Locked: true, Cleared: cleared, ClearedRows: rows}
}

func (g *Game) spawnNext() {
	g.Piece = newPiece(g.Next)
	g.Next = g.popBag()
	if !canPlace(g.Board, g.Piece.Shape, g.Piece.Row, g.Piece.Col) {
		g.Over = true
	}
}

func (g *Game) popBag() int {
	if len(g.bag) == 0 {
		g.refillBag()
	}
	kind := g.bag[0]
	g.bag = g.bag[1:]
	return kind
}

func (g *Game) refillBag() {
	bag := []int{0, 1, 2, 3, 4, 5, 6}
	g.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	g.bag = bag
}

// canPlace reports whether every occupied shape cell, translated to
// (row, col), lies on the board and over an empty cell.
func canPlace(board [][]int, shape [][]int, row, col int) bool {
	for y := range shape {
		for x := range shape[y] {
			if shape[y][x] == 0 {
				continue
			}
			by := row + y
			bx := col + x
			if bx < 0 || bx >= boardWidth || by < 0 || by >= boardHeight {
				return false
			}
			if board[by][bx] != 0 {
				return false
			}
		}
	}
	return true
}

// mergeBoard stamps the piece onto a copy of the board and returns the
// copy; the input board is left untouched.
func mergeBoard(board [][]int, shape [][]int, kind, row, col int) [][]int {
	merged := make([][]int, len(board))
	for y := range board {
		merged[y] = make([]int, len(board[y]))
		copy(merged[y], board[y])
	}
	for y := range shape {
		for x := range shape[y] {
			if shape[y][x] == 0 {
				continue
			}
			by := row + y
			bx := col + x
			if by >= 0 && by < boardHeight && bx >= 0 && bx < boardWidth {
				merged[by][bx] = kind + 1
			}
		}
	}
	return merged
}

// clearFullRows drops every fully occupied row, pads empty rows at the
// top and returns the new board, the clear count and the cleared row
// indices (top to bottom, in pre-clear coordinates).
func clearFullRows(board [][]int) ([][]int, int, []int) {
	kept := make([][]int, 0, boardHeight)
	clearedRows := []int{}
	for y := range board {
		full := true
		for x := range board[y] {
			if board[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			clearedRows = append(clearedRows, y)
			continue
		}
		row := make([]int, boardWidth)
		copy(row, board[y])
		kept = append(kept, row)
	}
	cleared := boardHeight - len(kept)
	next := make([][]int, 0, boardHeight)
	for i := 0; i < cleared; i++ {
		next = append(next, make([]int, boardWidth))
	}
	next = append(next, kept...)
	return next, cleared, clearedRows
}

// rotateShape returns a 90-degree rotation of a square shape matrix;
// dir > 0 is clockwise, dir < 0 counterclockwise.
func rotateShape(shape [][]int, dir int) [][]int {
	n := len(shape)
	rotated := make([][]int, n)
	for i := range rotated {
		rotated[i] = make([]int, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if dir >= 0 {
				rotated[x][n-1-y] = shape[y][x]
			} else {
				rotated[n-1-x][y] = shape[y][x]
			}
		}
	}
	return rotated
}

var pieceShapes = [7][][]int{
	// I
	{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
	// O
	{
		{1, 1},
		{1, 1},
	},
	// T
	{
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	// S
	{
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	},
	// Z
	{
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
	},
	// J
	{
		{1, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	// L
	{
		{0, 0, 1},
		{1, 1, 1},
		{0, 0, 0},
	},
}
