package screening

import "fmt"

// Game identifies one of the six screener mini-games.
type Game string

const (
	GamePhonemeDelete    Game = "phoneme_delete"
	GameLetterSound      Game = "letter_sound"
	GameRhymeRecognition Game = "rhyme_recognition"
	GameWordScramble     Game = "word_scramble"
	GameLexicalDecision  Game = "lexical_decision"
	GameRapidNaming      Game = "rapid_naming"
)

// gameOrder is the canonical game order. Report breakdowns always follow it,
// regardless of submission order.
var gameOrder = []Game{
	GamePhonemeDelete,
	GameLetterSound,
	GameRhymeRecognition,
	GameWordScramble,
	GameLexicalDecision,
	GameRapidNaming,
}

// Games returns the six screener games in canonical order.
func Games() []Game {
	out := make([]Game, len(gameOrder))
	copy(out, gameOrder)
	return out
}

// ValidGame reports whether g is one of the six screener games.
func ValidGame(g Game) bool {
	switch g {
	case GamePhonemeDelete, GameLetterSound, GameRhymeRecognition,
		GameWordScramble, GameLexicalDecision, GameRapidNaming:
		return true
	}
	return false
}

// ParseGame converts a wire identifier into a Game.
func ParseGame(s string) (Game, error) {
	g := Game(s)
	if !ValidGame(g) {
		return "", fmt.Errorf("unknown game %q", s)
	}
	return g, nil
}
