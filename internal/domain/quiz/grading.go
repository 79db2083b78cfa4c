package quiz

// Answer is the option a student picked for one question.
type Answer struct {
	QuestionID    int
	SelectedIndex int
}

// Grading is the outcome of checking a full answer sheet.
type Grading struct {
	Score int
	Total int
	Wrong []Question
}

// Grade checks answers against the quiz. A question is correct only when an
// answer for it selects the correct index; unanswered questions count as wrong.
// When the same question is answered twice the last answer wins.
func (q *Quiz) Grade(answers []Answer) Grading {
	picked := make(map[int]int, len(answers))
	for _, a := range answers {
		picked[a.QuestionID] = a.SelectedIndex
	}

	g := Grading{Total: len(q.Questions), Wrong: []Question{}}
	for _, question := range q.Questions {
		if sel, ok := picked[question.ID]; ok && sel == question.CorrectAnswerIndex {
			g.Score++
			continue
		}
		g.Wrong = append(g.Wrong, question)
	}
	return g
}
