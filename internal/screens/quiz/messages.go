package quiz

// quizReadyMsg is sent when a Generate call resolves.
type quizReadyMsg struct {
	Err error
}
