package model

import (
	"encoding/json"
	"fmt"
)

// MoveType discriminates guest intents on the wire
type MoveType string

const (
	MoveSelectWord   MoveType = "select-word"
	MoveCellInput    MoveType = "cell-input"
	MoveSubmitWord   MoveType = "submit-word"
	MoveSubmitAnswer MoveType = "submit-answer"
	MoveHintRequest  MoveType = "hint"
	MoveTimeout      MoveType = "timeout"
)

// Move is one discrete guest intent, shipped guest-to-host. Each move is
// self-contained; the host applies it exactly as if the local player had
// performed the equivalent action.
type Move struct {
	Type MoveType `json:"type"`

	// select-word, submit-word
	WordID WordID `json:"word_id,omitempty"`

	// cell-input
	CellKey string `json:"cell_key,omitempty"`
	Letter  string `json:"letter,omitempty"`

	// submit-answer
	Answer   string `json:"answer,omitempty"`
	UsedHint bool   `json:"used_hint,omitempty"`
}

// Validate checks that the move carries the fields its type requires
func (m *Move) Validate() error {
	switch m.Type {
	case MoveSelectWord, MoveSubmitWord:
		if m.WordID < 0 {
			return fmt.Errorf("%w: negative word id", ErrMalformedMove)
		}
	case MoveCellInput:
		if m.CellKey == "" {
			return fmt.Errorf("%w: cell-input without cell key", ErrMalformedMove)
		}
	case MoveSubmitAnswer, MoveHintRequest, MoveTimeout:
		// No required fields; empty answers score as incorrect.
	default:
		return fmt.Errorf("%w: unknown move type %q", ErrMalformedMove, m.Type)
	}
	return nil
}

// EncodeMove serializes a move for the bus
func EncodeMove(m *Move) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMove parses and validates a move off the bus
func DecodeMove(data []byte) (*Move, error) {
	var m Move
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
