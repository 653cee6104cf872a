package types

// User is an entry of the identity registry. IsAdmin is derived from the
// configured admin email and never stored on its own.
type User struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type ConceptHistory struct {
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

// LearningTopic is one entry of a user's history. Date is the RFC 3339 time of
// the last visit; Concepts is keyed by concept title.
type LearningTopic struct {
	Topic    string                    `json:"topic"`
	Date     string                    `json:"date"`
	Concepts map[string]ConceptHistory `json:"concepts"`
}

type WordDefinition struct {
	Word          string   `json:"word"`
	Pronunciation string   `json:"pronunciation"`
	Meaning       string   `json:"meaning"`
	Examples      []string `json:"examples"`
}

type VocabularyWord struct {
	WordDefinition
	DateAdded string `json:"dateAdded"`
}

type RoadmapItem struct {
	Title string `json:"title"`
}

type YoutubeVideo struct {
	Title   string `json:"title"`
	VideoID string `json:"videoId"`
}

type DetailedConcept struct {
	Explanation           string         `json:"explanation"`
	Synopsis              string         `json:"synopsis"`
	YoutubeVideos         []YoutubeVideo `json:"youtubeVideos"`
	ResourceSearchQueries []string       `json:"resourceSearchQueries"`
}

type DailyQuote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// QuizQuestion holds one multiple-choice question. CorrectAnswer is always
// one of Options once it has passed through the gateway.
type QuizQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}
