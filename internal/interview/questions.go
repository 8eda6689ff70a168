package interview

// Difficulty grades a question.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Question is a fixed entry of the question bank.
type Question struct {
	Difficulty Difficulty `json:"difficulty"`
	Seconds    int        `json:"allottedSeconds"`
	Prompt     string     `json:"prompt"`
}

// TimeoutAnswer is recorded as the user's answer when a question's time runs out.
const TimeoutAnswer = "(Time ran out)"

// PointsPerQuestion is the credit for each question answered in time.
const PointsPerQuestion = 10

var bank = [...]Question{
	{Difficulty: Easy, Seconds: 20, Prompt: "What is the purpose of a 'key' prop in React?"},
	{Difficulty: Easy, Seconds: 20, Prompt: "What is the difference between 'let' and 'const' in JavaScript?"},
	{Difficulty: Medium, Seconds: 60, Prompt: "Explain the concept of the virtual DOM in React."},
	{Difficulty: Medium, Seconds: 60, Prompt: "What are React Hooks? Name three common ones and their purpose."},
	{Difficulty: Hard, Seconds: 120, Prompt: "Describe a situation where you would use 'useMemo' and explain why it is useful."},
	{Difficulty: Hard, Seconds: 120, Prompt: "How would you handle global state management in a large React application? Discuss one approach."},
}

// QuestionCount is the number of questions in every interview.
const QuestionCount = len(bank)

// MaxScore is the score of an interview with every question answered.
const MaxScore = QuestionCount * PointsPerQuestion

// Questions returns a copy of the question bank in asking order.
func Questions() []Question {
	out := make([]Question, QuestionCount)
	copy(out, bank[:])
	return out
}

// QuestionAt returns the question at index i.
func QuestionAt(i int) (Question, bool) {
	if i < 0 || i >= QuestionCount {
		return Question{}, false
	}
	return bank[i], true
}
