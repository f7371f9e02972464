package screening

import "sort"

// maxRecommendations caps the list so reports stay actionable.
const maxRecommendations = 4

var recommendationText = map[Game]string{
	GamePhonemeDelete:    "Practice phoneme deletion drills: say a word aloud, then repeat it with the first or last sound removed.",
	GameLetterSound:      "Review letter-sound pairs daily with flashcards matching letters to their most common sounds.",
	GameRhymeRecognition: "Play rhyme matching games to build awareness of word endings and sound families.",
	GameWordScramble:     "Work on letter sequencing by unscrambling short words, starting with three-letter words.",
	GameLexicalDecision:  "Build sight-word recognition with timed real-word versus made-up-word card sorts.",
	GameRapidNaming:      "Practice rapid naming with timed grids of familiar letters, numbers, and colors.",
}

// buildRecommendations selects a practice suggestion for every game that
// scored below baseline, weakest skill first. Ties keep canonical game order
// so identical inputs always yield identical reports.
func buildRecommendations(breakdown []BreakdownEntry) []Recommendation {
	recs := make([]Recommendation, 0, maxRecommendations)
	for _, e := range breakdown {
		if e.ComponentScore < 1.0 {
			recs = append(recs, Recommendation{
				Game:           e.Game,
				Text:           recommendationText[e.Game],
				ComponentScore: e.ComponentScore,
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ComponentScore < recs[j].ComponentScore
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
