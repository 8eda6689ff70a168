package interview

// AnsweredCount returns how many bank questions were answered before their
// time ran out. A question counts when the entry right after the one asking
// it is a user answer other than TimeoutAnswer.
func AnsweredCount(msgs []Message) int {
	answered := 0
	for i, q := range bank {
		pos := questionPosition(msgs, i, q.Prompt)
		if pos < 0 || pos+1 >= len(msgs) {
			continue
		}
		next := msgs[pos+1]
		if next.Sender == SenderUser && next.Text != TimeoutAnswer {
			answered++
		}
	}
	return answered
}

// Score returns the points earned by a transcript.
func Score(msgs []Message) int {
	return AnsweredCount(msgs) * PointsPerQuestion
}

// questionPosition finds the entry that asked question i. Transcripts saved
// before entries were tagged are matched on the prompt text.
func questionPosition(msgs []Message, i int, prompt string) int {
	for pos, m := range msgs {
		if m.AsksQuestion(i) {
			return pos
		}
	}
	for pos, m := range msgs {
		if m.Sender == SenderAI && m.QuestionIndex == nil && m.Text == prompt {
			return pos
		}
	}
	return -1
}
