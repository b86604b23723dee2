package puzzle

import "github.com/crossfire-game/crossfire-go/internal/model"

// Pure queries over a word's fill state. A cell resolves to its
// prefilled letter when one exists, else to the player's input.

// ResolveLetter returns the effective letter at a cell, or ""
func ResolveLetter(grid *model.Grid, inputs map[string]string, pos model.Position) string {
	if pre := grid.PrefilledLetter(pos); pre != "" {
		return pre
	}
	return inputs[pos.Key()]
}

// IsFullyFilled reports whether every cell of the word resolves to a
// non-empty letter
func IsFullyFilled(word *model.Word, inputs map[string]string, grid *model.Grid) bool {
	for _, c := range word.Cells() {
		if ResolveLetter(grid, inputs, c) == "" {
			return false
		}
	}
	return true
}

// BuildInput concatenates the resolved letters of the word in cell order
func BuildInput(word *model.Word, inputs map[string]string, grid *model.Grid) string {
	out := make([]byte, 0, len(word.Answer))
	for _, c := range word.Cells() {
		out = append(out, ResolveLetter(grid, inputs, c)...)
	}
	return string(out)
}

// NextCell returns the cell after current in the word's direction, or
// ok=false at the end of the word
func NextCell(word *model.Word, current model.Position) (model.Position, bool) {
	cells := word.Cells()
	for i, c := range cells {
		if c == current {
			if i >= len(cells)-1 {
				return model.Position{}, false
			}
			return cells[i+1], true
		}
	}
	return model.Position{}, false
}

// PreviousCell returns the cell before current, or ok=false at the anchor
func PreviousCell(word *model.Word, current model.Position) (model.Position, bool) {
	cells := word.Cells()
	for i, c := range cells {
		if c == current {
			if i == 0 {
				return model.Position{}, false
			}
			return cells[i-1], true
		}
	}
	return model.Position{}, false
}

// WordsAt returns all words whose cell sequence includes pos
func WordsAt(p *model.Puzzle, pos model.Position) []*model.Word {
	var words []*model.Word
	for i := range p.Words {
		if p.Words[i].Contains(pos) {
			words = append(words, &p.Words[i])
		}
	}
	return words
}
