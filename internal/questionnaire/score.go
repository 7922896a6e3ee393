package questionnaire

// Grade is the letter grade derived from the score percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// gradeThresholds are checked in order; the first whose minimum is met wins.
var gradeThresholds = []struct {
	Min   int
	Grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{60, GradeB},
	{40, GradeC},
	{0, GradeD},
}

// GradeFor maps a percentage to its grade. Every int maps to exactly one grade;
// values below zero fall through to D.
func GradeFor(percent int) Grade {
	for _, t := range gradeThresholds {
		if percent >= t.Min {
			return t.Grade
		}
	}
	return GradeD
}

// Rank orders grades from D (0) to A+ (4).
func (g Grade) Rank() int {
	switch g {
	case GradeAPlus:
		return 4
	case GradeA:
		return 3
	case GradeB:
		return 2
	case GradeC:
		return 1
	default:
		return 0
	}
}

// Result is the derived outcome of a completed questionnaire.
type Result struct {
	TotalAnswered  int    `json:"totalAnswered"`
	UserScore      int    `json:"userScore"`
	ScorePercent   int    `json:"scorePercent"`
	Grade          Grade  `json:"grade"`
	Interpretation string `json:"interpretation"`
}

// Score computes the result from the recorded answers. It is pure: the same
// answers always give the same Result.
func Score(answers Answers) Result {
	var total, score int
	for _, a := range answers {
		if !a.Scoreable() {
			continue
		}
		total++
		score += a.Points()
	}

	percent := Percent(score, total)
	grade := GradeFor(percent)
	return Result{
		TotalAnswered:  total,
		UserScore:      score,
		ScorePercent:   percent,
		Grade:          grade,
		Interpretation: Interpretation(grade),
	}
}

// Percent returns round(100*score/total) with halves rounded up, or 0 when
// total is zero. Integer arithmetic keeps the result exact.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	p := (200*score + total) / (2 * total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
