package domain

// InstantAnswer is the subset of an instant-answer lookup the help bot reads.
type InstantAnswer struct {
	Answer        string
	AbstractText  string
	Definition    string
	RelatedTopics []string // Text of top-level related topics
	Results       []string // Text of direct results
}
