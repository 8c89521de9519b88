package voting

import (
	"errors"
	"fmt"
)

type (
	VotingScore int

	Vote struct {
		PostId string      `json:"postId"`
		UserId string      `json:"user"`
		Score  VotingScore `json:"vote"`
	}

	// Result describes the transition one vote request caused.
	Result struct {
		Previous VotingScore `json:"previous"`
		Current  VotingScore `json:"current"`
		Delta    int         `json:"delta"`
	}
)

const (
	ScoreUp      VotingScore = 1
	ScoreDiscard VotingScore = 0
	ScoreDown    VotingScore = -1
)

var ErrInvalidValue = errors.New("voting: value must be -1, 0 or 1")

func ParseScore(n int) (VotingScore, error) {
	s := VotingScore(n)
	if err := s.Validate(); err != nil {
		return ScoreDiscard, fmt.Errorf("%w: got %d", err, n)
	}
	return s, nil
}

func (s VotingScore) Validate() error {
	switch s {
	case ScoreUp, ScoreDiscard, ScoreDown:
		return nil
	}
	return ErrInvalidValue
}

// Delta is the score change for moving a vote from one state to another.
func Delta(from, to VotingScore) int {
	return int(to) - int(from)
}

// Toggle is the press semantics of a vote button: pressing the active
// direction clears the vote, anything else moves to the target.
func Toggle(current, pressed VotingScore) VotingScore {
	if current == pressed {
		return ScoreDiscard
	}
	return pressed
}
