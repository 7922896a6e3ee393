package wizard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
)

type recordingNotifier struct {
	calls    []notify.Payload
	sessions []string
	err      error
}

func (r *recordingNotifier) Send(_ context.Context, sessionID string, p notify.Payload) error {
	r.calls = append(r.calls, p)
	r.sessions = append(r.sessions, sessionID)
	return r.err
}

func completeAll(t *testing.T, ctl *Controller, answer questionnaire.Answer) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, ctl.Dispatch(ctx, Start{}))
	for i := 0; i < ctl.Catalog().Len(); i++ {
		require.NoError(t, ctl.Dispatch(ctx, Select{Answer: answer}))
		require.NoError(t, ctl.Dispatch(ctx, Next{}))
	}
	require.Equal(t, PhaseContact, ctl.State().Phase)
}

func TestController_AssignsSessionID(t *testing.T) {
	ctl := NewController(questionnaire.DefaultCatalog(), &recordingNotifier{})
	require.NoError(t, ctl.Dispatch(context.Background(), Start{}))
	assert.NotEmpty(t, ctl.State().SessionID)
}

// Scenario A through the controller.
func TestController_AllYesSendsOnce(t *testing.T) {
	n := &recordingNotifier{}
	ctl := NewController(questionnaire.DefaultCatalog(), n)
	completeAll(t, ctl, questionnaire.AnswerYes)

	require.NoError(t, ctl.Dispatch(context.Background(), Submit{Respondent: validRespondent}))

	s := ctl.State()
	require.NotNil(t, s.Result)
	assert.Equal(t, 42, s.Result.TotalAnswered)
	assert.Equal(t, 42, s.Result.UserScore)
	assert.Equal(t, 100, s.Result.ScorePercent)
	assert.Equal(t, questionnaire.GradeAPlus, s.Result.Grade)
	assert.Equal(t, SendSuccess, s.SendStatus)

	require.Len(t, n.calls, 1)
	assert.Equal(t, s.SessionID, n.sessions[0])
	assert.Len(t, n.calls[0].Answers, 42)

	// Re-submitting on a completed wizard never sends again.
	require.NoError(t, ctl.Dispatch(context.Background(), Submit{Respondent: validRespondent}))
	assert.Len(t, n.calls, 1)
}

func TestController_ValidationErrorNoNetwork(t *testing.T) {
	n := &recordingNotifier{}
	ctl := NewController(questionnaire.DefaultCatalog(), n)
	completeAll(t, ctl, questionnaire.AnswerNo)

	err := ctl.Dispatch(context.Background(), Submit{Respondent: Respondent{Name: "Asha", Email: "nope"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, n.calls)
	assert.Equal(t, PhaseContact, ctl.State().Phase)
}

// Scenario D: the endpoint answers 500.
func TestController_ServerErrorKeepsResult(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to send email"}`))
	}))
	defer srv.Close()

	ctl := NewController(questionnaire.DefaultCatalog(), notify.NewClient(srv.URL+notify.DefaultPath))
	completeAll(t, ctl, questionnaire.AnswerYes)
	require.NoError(t, ctl.Dispatch(context.Background(), Submit{Respondent: validRespondent}))

	s := ctl.State()
	assert.Equal(t, SendError, s.SendStatus)
	assert.Equal(t, "Failed to send email", s.SendError)
	require.NotNil(t, s.Result)
	assert.Equal(t, questionnaire.GradeAPlus, s.Result.Grade)
	assert.Equal(t, 100, s.Result.ScorePercent)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestController_ResetThenResubmitSendsAgain(t *testing.T) {
	n := &recordingNotifier{}
	ctl := NewController(questionnaire.DefaultCatalog(), n)
	completeAll(t, ctl, questionnaire.AnswerYes)
	require.NoError(t, ctl.Dispatch(context.Background(), Submit{Respondent: validRespondent}))
	first := ctl.State().SessionID

	require.NoError(t, ctl.Dispatch(context.Background(), Reset{}))
	assert.Equal(t, PhaseWelcome, ctl.State().Phase)

	completeAll(t, ctl, questionnaire.AnswerNo)
	require.NoError(t, ctl.Dispatch(context.Background(), Submit{Respondent: validRespondent}))

	require.Len(t, n.calls, 2)
	assert.NotEqual(t, first, n.sessions[1])
	assert.Equal(t, questionnaire.GradeD, n.calls[1].Grade)
}

func TestController_ApplyDefersSendToPerform(t *testing.T) {
	n := &recordingNotifier{err: errors.New("Failed to send email")}
	ctl := NewController(questionnaire.DefaultCatalog(), n)
	completeAll(t, ctl, questionnaire.AnswerYes)

	eff, err := ctl.Apply(Submit{Respondent: Respondent{Name: "Asha", Email: "asha@example.com"}})
	require.NoError(t, err)
	send, ok := eff.(SendResult)
	require.True(t, ok, "submit must yield a SendResult")
	assert.Equal(t, SendLoading, ctl.State().SendStatus)
	assert.Empty(t, n.calls, "Apply must not send")

	sendErr := ctl.Perform(context.Background(), send)
	require.Error(t, sendErr)
	assert.Len(t, n.calls, 1)
	assert.Equal(t, SendLoading, ctl.State().SendStatus, "Perform must not touch the state")

	_, err = ctl.Apply(SendSettled{SessionID: send.SessionID, Err: sendErr})
	require.NoError(t, err)
	assert.Equal(t, SendError, ctl.State().SendStatus)
	assert.Equal(t, "Failed to send email", ctl.State().SendError)
}

func TestController_PerformWithoutNotifier(t *testing.T) {
	ctl := NewController(questionnaire.DefaultCatalog(), nil)
	assert.NoError(t, ctl.Perform(context.Background(), SendResult{SessionID: "s"}))
}
