package wizard

import (
	"strings"

	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
)

// Transition applies one event. It is pure: the input state is never
// mutated, and the returned Effect (if any) must be run by the caller.
//
// Events that are not valid in the current phase, a Next on an unanswered
// step, and a Prev at step 0 return the state unchanged. The only error
// is *ValidationError from Submit.
func Transition(c *questionnaire.Catalog, s State, e Event) (State, Effect, error) {
	switch ev := e.(type) {
	case Start:
		if s.Phase != PhaseWelcome || c.Len() == 0 {
			return s, nil, nil
		}
		next := Initial()
		next.Phase = PhaseInProgress
		next.SessionID = ev.SessionID
		return next, nil, nil

	case Select:
		q, ok := s.Current(c)
		answer := questionnaire.Answer(strings.TrimSpace(string(ev.Answer)))
		if !ok || answer == "" {
			return s, nil, nil
		}
		s.Answers = s.Answers.With(q.ID, answer)
		return s, nil, nil

	case Next:
		if s.Phase != PhaseInProgress || !s.CanNext(c) {
			return s, nil, nil
		}
		if s.IsLastStep(c) {
			s.Phase = PhaseContact
			return s, nil, nil
		}
		s.Step++
		return s, nil, nil

	case Prev:
		switch {
		case s.Phase == PhaseInProgress && s.Step > 0:
			s.Step--
		case s.Phase == PhaseContact:
			s.Phase = PhaseInProgress
			s.Step = c.Len() - 1
		}
		return s, nil, nil

	case Submit:
		if s.Phase != PhaseContact {
			return s, nil, nil
		}
		if err := ev.Respondent.Validate(); err != nil {
			return s, nil, err
		}
		result := questionnaire.Score(s.Answers)
		s.Respondent = ev.Respondent.Normalize()
		s.Result = &result
		s.Phase = PhaseCompleted
		s.SendStatus = SendLoading
		s.SendError = ""
		return s, SendResult{SessionID: s.SessionID, Payload: PayloadFor(s)}, nil

	case SendSettled:
		if s.Phase != PhaseCompleted || s.SendStatus != SendLoading || ev.SessionID != s.SessionID {
			return s, nil, nil
		}
		if ev.Err != nil {
			s.SendStatus = SendError
			s.SendError = ev.Err.Error()
			return s, nil, nil
		}
		s.SendStatus = SendSuccess
		return s, nil, nil

	case Reset:
		if s.Phase != PhaseCompleted {
			return s, nil, nil
		}
		return Initial(), nil, nil
	}
	return s, nil, nil
}

// PayloadFor builds the notification body for a completed state.
func PayloadFor(s State) notify.Payload {
	p := notify.Payload{
		Name:    s.Respondent.Name,
		Email:   s.Respondent.Email,
		Phone:   s.Respondent.Phone,
		Answers: s.Answers.Clone(),
	}
	if s.Result != nil {
		p.Grade = s.Result.Grade
		p.ScorePercent = s.Result.ScorePercent
	}
	return p
}
