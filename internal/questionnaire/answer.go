package questionnaire

import "strings"

// Answer is the string recorded for a question.
type Answer string

// The three values the wizard offers.
const (
	AnswerYes           Answer = "Yes"
	AnswerNo            Answer = "No"
	AnswerNotApplicable Answer = "Not Applicable"
)

// Options returns the selectable answers in display order.
func Options() []Answer {
	return []Answer{AnswerYes, AnswerNo, AnswerNotApplicable}
}

// pointTable maps lower-cased answer values to points. Only the three
// values above are offered today; the frequency words are kept so that a
// catalog with graded options scores without code changes.
var pointTable = map[string]int{
	"yes":          1,
	"frequently":   1,
	"no":           0,
	"rarely":       0,
	"sometimes":    0,
	"occasionally": 0,
}

// Scoreable reports whether the answer enters the score at all.
// Empty and "Not Applicable" answers are excluded from both numerator
// and denominator.
func (a Answer) Scoreable() bool {
	s := strings.TrimSpace(string(a))
	return s != "" && !strings.EqualFold(s, string(AnswerNotApplicable))
}

// Points returns the points for a scoreable answer. Unknown values score zero.
func (a Answer) Points() int {
	return pointTable[strings.ToLower(strings.TrimSpace(string(a)))]
}

// Answers maps question IDs to recorded answers. The zero value is an empty,
// read-only set; use With to record.
type Answers map[QuestionID]Answer

// With returns a copy of the answers with id set to a. The receiver is
// left untouched so that states holding it stay immutable.
func (as Answers) With(id QuestionID, a Answer) Answers {
	out := make(Answers, len(as)+1)
	for k, v := range as {
		out[k] = v
	}
	out[id] = a
	return out
}

// Get returns the answer for id.
func (as Answers) Get(id QuestionID) (Answer, bool) {
	a, ok := as[id]
	return a, ok
}

// Clone returns an independent copy.
func (as Answers) Clone() Answers {
	out := make(Answers, len(as))
	for k, v := range as {
		out[k] = v
	}
	return out
}

// Progress returns the fraction of catalog questions that have an answer.
func (as Answers) Progress(c *Catalog) float64 {
	if c == nil || c.Len() == 0 {
		return 0
	}
	answered := 0
	for id := range as {
		if c.Has(id) {
			answered++
		}
	}
	return float64(answered) / float64(c.Len())
}
