package model

import (
	"fmt"
	"strings"
)

// PuzzleID uniquely identifies a crossword puzzle in the catalog
type PuzzleID int

// WordID identifies a word within its puzzle
type WordID int

// Direction is the orientation of a word on the grid
type Direction string

const (
	DirectionAcross Direction = "across"
	DirectionDown   Direction = "down"
)

// Category is a trivia/word topic tag
type Category string

const (
	CategoryHistory    Category = "history"
	CategoryLanguage   Category = "language"
	CategoryScience    Category = "science"
	CategoryPhilosophy Category = "philosophy"
	CategoryArt        Category = "art"
	CategoryGeography  Category = "geography"
)

// Language selects a content catalog
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Position identifies a cell on the grid
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

// Key returns the canonical "row-col" form used for cellInputs maps
func (p Position) Key() string {
	return fmt.Sprintf("%d-%d", p.Row, p.Col)
}

// PrefilledCell is a cell whose letter is given at puzzle load
type PrefilledCell struct {
	Position
	Letter string `json:"letter"`
}

// Grid describes the static crossword board
type Grid struct {
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	Blocked   []Position      `json:"blocked_cells"`
	Prefilled []PrefilledCell `json:"prefilled"`
}

// IsBlocked reports whether the cell at pos is a blocked (black) cell
func (g *Grid) IsBlocked(pos Position) bool {
	for _, b := range g.Blocked {
		if b == pos {
			return true
		}
	}
	return false
}

// PrefilledLetter returns the uppercase prefilled letter at pos, or ""
func (g *Grid) PrefilledLetter(pos Position) string {
	for _, p := range g.Prefilled {
		if p.Position == pos {
			return strings.ToUpper(p.Letter)
		}
	}
	return ""
}

// InBounds reports whether pos lies within the grid extents
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Rows && pos.Col >= 0 && pos.Col < g.Cols
}

// Word is a single crossword entry
type Word struct {
	ID        WordID    `json:"id"`
	Answer    string    `json:"word"`
	Clue      string    `json:"clue"`
	Category  Category  `json:"category"`
	Direction Direction `json:"direction"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
}

// Anchor returns the word's starting position
func (w *Word) Anchor() Position {
	return Position{Row: w.Row, Col: w.Col}
}

// Cells returns the word's cell sequence, derived from anchor, direction
// and answer length
func (w *Word) Cells() []Position {
	cells := make([]Position, 0, len(w.Answer))
	for i := 0; i < len(w.Answer); i++ {
		if w.Direction == DirectionAcross {
			cells = append(cells, Position{Row: w.Row, Col: w.Col + i})
		} else {
			cells = append(cells, Position{Row: w.Row + i, Col: w.Col})
		}
	}
	return cells
}

// LetterAt returns the uppercase canonical letter for the given cell of
// this word, or "" if the cell is not part of the word
func (w *Word) LetterAt(pos Position) string {
	for i, c := range w.Cells() {
		if c == pos {
			return strings.ToUpper(string(w.Answer[i]))
		}
	}
	return ""
}

// Contains reports whether pos is one of the word's cells
func (w *Word) Contains(pos Position) bool {
	for _, c := range w.Cells() {
		if c == pos {
			return true
		}
	}
	return false
}

// Puzzle is an immutable crossword: grid plus word list
type Puzzle struct {
	ID    PuzzleID `json:"id"`
	Title string   `json:"title"`
	Grid  Grid     `json:"grid"`
	Words []Word   `json:"words"`
}

// WordByID returns the word with the given id, or nil
func (p *Puzzle) WordByID(id WordID) *Word {
	for i := range p.Words {
		if p.Words[i].ID == id {
			return &p.Words[i]
		}
	}
	return nil
}

// Validate checks the puzzle invariant: every word's cell sequence lies
// within grid bounds and crosses no blocked cells
func (p *Puzzle) Validate() error {
	for i := range p.Words {
		w := &p.Words[i]
		if len(w.Answer) == 0 {
			return fmt.Errorf("puzzle %d: word %d has empty answer", p.ID, w.ID)
		}
		for _, c := range w.Cells() {
			if !p.Grid.InBounds(c) {
				return fmt.Errorf("puzzle %d: word %d cell %s out of bounds", p.ID, w.ID, c.Key())
			}
			if p.Grid.IsBlocked(c) {
				return fmt.Errorf("puzzle %d: word %d crosses blocked cell %s", p.ID, w.ID, c.Key())
			}
		}
	}
	return nil
}
