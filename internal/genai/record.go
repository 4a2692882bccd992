package genai

// Difficulty values accepted by the pipeline. Anything else is passed
// through and handled leniently by the validator.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ChallengeRecord is one validated multiple-choice coding challenge.
// Records built by the parser are untrusted until Validate accepts the
// candidate; records built by Fallback are valid by construction.
type ChallengeRecord struct {
	Title              string   `json:"title"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
	TimeComplexity     string   `json:"time_complexity"`
	SpaceComplexity    string   `json:"space_complexity"`
}
