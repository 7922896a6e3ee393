package notify

import "github.com/abhisek/vastu/internal/questionnaire"

// Payload is the JSON body posted to the questionnaire-email route.
type Payload struct {
	Name         string                                            `json:"name"`
	Email        string                                            `json:"email"`
	Phone        string                                            `json:"phone"`
	Answers      map[questionnaire.QuestionID]questionnaire.Answer `json:"answers"`
	Grade        questionnaire.Grade                               `json:"grade"`
	ScorePercent int                                               `json:"scorePercent"`
}
