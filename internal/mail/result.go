package mail

import (
	"net/mail"
)

// AnswerLine is one question and its recorded answer, in catalog order.
type AnswerLine struct {
	ID     int
	Text   string
	Answer string
}

// ResultData feeds the result and admin templates.
type ResultData struct {
	Name           string
	Email          string
	Phone          string
	Grade          string
	ScorePercent   int
	TotalAnswered  int
	UserScore      int
	Interpretation string
	Answers        []AnswerLine
}

// ResultMessage is the email sent to the respondent.
func ResultMessage(d ResultData) *Message {
	return &Message{
		To:           []mail.Address{{Name: d.Name, Address: d.Email}},
		Subject:      "Your Vastu assessment: grade " + d.Grade,
		TemplateName: "result",
		TemplateData: d,
	}
}

// AdminMessage is the copy sent to the consultancy.
func AdminMessage(admin mail.Address, d ResultData) *Message {
	return &Message{
		To:           []mail.Address{admin},
		Subject:      "New assessment from " + d.Name + " (" + d.Grade + ")",
		TemplateName: "admin",
		TemplateData: d,
	}
}
