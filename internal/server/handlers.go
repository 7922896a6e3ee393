package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	vmail "github.com/abhisek/vastu/internal/mail"
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/store"
	"github.com/abhisek/vastu/internal/wizard"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"questions": s.catalog.Questions(),
		"options":   questionnaire.Options(),
	})
}

type emailResponse struct {
	OK           bool                `json:"ok"`
	ID           string              `json:"id,omitempty"`
	Duplicate    bool                `json:"duplicate,omitempty"`
	Grade        questionnaire.Grade `json:"grade,omitempty"`
	ScorePercent int                 `json:"scorePercent"`
}

func (s *Server) handleQuestionnaireEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.logger.With("request_id", middleware.GetReqID(ctx))

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "request body too large or unreadable")
		return
	}
	if err := validatePayload(s.schema, raw); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var p notify.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	respondent := wizard.Respondent{Name: p.Name, Email: p.Email, Phone: p.Phone}
	if err := respondent.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondent = respondent.Normalize()

	for id := range p.Answers {
		if !s.catalog.Has(id) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown question id %d", id))
			return
		}
	}

	result := questionnaire.Score(p.Answers)
	if p.Grade != "" && (p.Grade != result.Grade || p.ScorePercent != result.ScorePercent) {
		log.Warn("client score differs from server score",
			"client_grade", p.Grade, "client_percent", p.ScorePercent,
			"grade", result.Grade, "percent", result.ScorePercent)
	}

	key := r.Header.Get(notify.IdempotencyHeader)
	if key != "" {
		claimed, err := s.guard.Claim(ctx, key)
		if err != nil {
			log.Error("idempotency claim failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to process submission")
			return
		}
		if !claimed {
			log.Info("duplicate submission", "idempotency_key", key)
			respondJSON(w, http.StatusOK, emailResponse{OK: true, Duplicate: true, Grade: result.Grade, ScorePercent: result.ScorePercent})
			return
		}
	}

	sub, duplicate, err := s.persist(r, key, respondent, p.Answers, result)
	if err != nil {
		s.release(r, key)
		log.Error("persist submission failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}
	if duplicate {
		respondJSON(w, http.StatusOK, emailResponse{OK: true, ID: sub.ID, Duplicate: true, Grade: sub.Grade, ScorePercent: sub.ScorePercent})
		return
	}

	if err := s.sendResultMail(r, sub); err != nil {
		s.release(r, key)
		log.Error("send result email failed", "submission_id", sub.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	log.Info("submission accepted", "submission_id", sub.ID, "grade", sub.Grade, "percent", sub.ScorePercent)
	respondJSON(w, http.StatusOK, emailResponse{OK: true, ID: sub.ID, Grade: sub.Grade, ScorePercent: sub.ScorePercent})
}

// persist stores the submission. A key seen before whose mail went out is
// reported as duplicate; one whose mail failed is returned for a resend.
func (s *Server) persist(r *http.Request, key string, who wizard.Respondent, answers questionnaire.Answers, result questionnaire.Result) (*store.Submission, bool, error) {
	if s.subs == nil {
		return &store.Submission{
			IdempotencyKey: key,
			Name:           who.Name,
			Email:          who.Email,
			Phone:          who.Phone,
			Answers:        answers,
			Grade:          result.Grade,
			ScorePercent:   result.ScorePercent,
			TotalAnswered:  result.TotalAnswered,
			UserScore:      result.UserScore,
		}, false, nil
	}

	ctx := r.Context()
	if key != "" {
		existing, err := s.subs.ByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, existing.MailStatus == store.MailSent, nil
		}
	}

	sub := &store.Submission{
		IdempotencyKey: key,
		Name:           who.Name,
		Email:          who.Email,
		Phone:          who.Phone,
		Answers:        answers,
		Grade:          result.Grade,
		ScorePercent:   result.ScorePercent,
		TotalAnswered:  result.TotalAnswered,
		UserScore:      result.UserScore,
	}
	if err := s.subs.Append(ctx, sub); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			existing, lookupErr := s.subs.ByIdempotencyKey(ctx, key)
			if lookupErr == nil && existing != nil {
				return existing, existing.MailStatus == store.MailSent, nil
			}
		}
		return nil, false, err
	}
	return sub, false, nil
}

func (s *Server) sendResultMail(r *http.Request, sub *store.Submission) error {
	if s.mailer == nil {
		return nil
	}
	data := s.resultData(sub)
	messages := []*vmail.Message{vmail.ResultMessage(data)}
	if s.admin != nil {
		messages = append(messages, vmail.AdminMessage(*s.admin, data))
	}

	sendErr := s.mailer.Send(r.Context(), messages...)

	if s.subs != nil {
		status, msg := store.MailSent, ""
		if sendErr != nil {
			status, msg = store.MailFailed, sendErr.Error()
		}
		if err := s.subs.SetMailStatus(r.Context(), sub.ID, status, msg); err != nil {
			s.logger.Warn("record mail status failed", "submission_id", sub.ID, "error", err)
		}
	}
	return sendErr
}

func (s *Server) resultData(sub *store.Submission) vmail.ResultData {
	lines := make([]vmail.AnswerLine, 0, len(sub.Answers))
	for _, q := range s.catalog.Questions() {
		if a, ok := sub.Answers.Get(q.ID); ok {
			lines = append(lines, vmail.AnswerLine{ID: int(q.ID), Text: q.Text, Answer: string(a)})
		}
	}
	return vmail.ResultData{
		Name:           sub.Name,
		Email:          sub.Email,
		Phone:          sub.Phone,
		Grade:          string(sub.Grade),
		ScorePercent:   sub.ScorePercent,
		TotalAnswered:  sub.TotalAnswered,
		UserScore:      sub.UserScore,
		Interpretation: questionnaire.Interpretation(sub.Grade),
		Answers:        lines,
	}
}

func (s *Server) release(r *http.Request, key string) {
	if key == "" {
		return
	}
	if err := s.guard.Release(r.Context(), key); err != nil {
		s.logger.Warn("release idempotency key failed", "error", err)
	}
}
