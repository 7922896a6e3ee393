package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vastu/internal/dedupe"
	vmail "github.com/abhisek/vastu/internal/mail"
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/store"
	"github.com/abhisek/vastu/internal/wizard"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []*vmail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, messages ...*vmail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fixture struct {
	srv    *Server
	subs   store.SubmissionRepo
	mailer *fakeMailer
}

func newFixture(t *testing.T, admin string) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mailer := &fakeMailer{}
	srv, err := New(Options{
		Submissions: st.SubmissionRepo(),
		Guard:       dedupe.NewMemory(0),
		Mailer:      mailer,
		AdminEmail:  admin,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return &fixture{srv: srv, subs: st.SubmissionRepo(), mailer: mailer}
}

func (f *fixture) post(t *testing.T, body any, key string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, notify.DefaultPath, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(notify.IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func validPayload() notify.Payload {
	return notify.Payload{
		Name:         "Asha",
		Email:        "asha@example.com",
		Answers:      map[questionnaire.QuestionID]questionnaire.Answer{1: "Yes", 2: "No", 3: "Not Applicable"},
		Grade:        questionnaire.GradeC,
		ScorePercent: 50,
	}
}

func TestQuestionnaireEmail_RendersRealTemplates(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	renderer, err := vmail.NewRenderer("Vastu", "https://vastu.example/book")
	require.NoError(t, err)
	var out bytes.Buffer
	console := vmail.NewConsoleService(&out, vmail.NewSender("Vastu", "hello@vastu.example"), renderer)

	srv, err := New(Options{
		Submissions: st.SubmissionRepo(),
		Guard:       dedupe.NewMemory(0),
		Mailer:      console,
		AdminEmail:  "team@vastu.example",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	f := &fixture{srv: srv, subs: st.SubmissionRepo()}

	rec, body := f.post(t, validPayload(), "key-real")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["ok"])

	sent := console.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "asha@example.com", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Namaste Asha")
	assert.NotEmpty(t, sent[0].HTMLContent)
	assert.Equal(t, "team@vastu.example", sent[1].To[0].Address)
	assert.NotEmpty(t, sent[1].TextContent)
	assert.Contains(t, out.String(), "Vastu assessment")

	subs, err := f.subs.List(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, store.MailSent, subs[0].MailStatus)
}

func TestQuestionnaireEmail_Accepted(t *testing.T) {
	f := newFixture(t, "team@vastu.example")

	rec, out := f.post(t, validPayload(), "key-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "C", out["grade"])
	assert.Equal(t, float64(50), out["scorePercent"])

	subs, err := f.subs.List(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "key-1", subs[0].IdempotencyKey)
	assert.Equal(t, 2, subs[0].TotalAnswered)
	assert.Equal(t, store.MailSent, subs[0].MailStatus)

	// Respondent plus admin copy.
	assert.Equal(t, 2, f.mailer.count())
}

func TestQuestionnaireEmail_ServerRescores(t *testing.T) {
	f := newFixture(t, "")
	p := validPayload()
	p.Grade = questionnaire.GradeAPlus
	p.ScorePercent = 100

	rec, out := f.post(t, p, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C", out["grade"])
	assert.Equal(t, 1, f.mailer.count())
}

func TestQuestionnaireEmail_DuplicateKey(t *testing.T) {
	f := newFixture(t, "")

	rec, _ := f.post(t, validPayload(), "same")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := f.post(t, validPayload(), "same")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["duplicate"])

	assert.Equal(t, 1, f.mailer.count())
	subs, _ := f.subs.List(context.Background(), store.QueryOpts{})
	assert.Len(t, subs, 1)
}

func TestQuestionnaireEmail_BadRequests(t *testing.T) {
	f := newFixture(t, "")

	missingAnswers := map[string]any{"name": "Asha", "email": "asha@example.com"}
	badEmail := validPayload()
	badEmail.Email = "not-an-email"
	unknownID := validPayload()
	unknownID.Answers = map[questionnaire.QuestionID]questionnaire.Answer{999: "Yes"}
	extraField := map[string]any{"name": "A", "email": "a@b.co", "answers": map[string]string{}, "admin": true}

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"invalid json", `{"name":`, "invalid JSON"},
		{"missing answers", missingAnswers, "invalid payload"},
		{"unknown field", extraField, "invalid payload"},
		{"bad email", badEmail, "Enter a valid email address"},
		{"unknown question", unknownID, "unknown question id 999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := f.post(t, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			msg, _ := out["error"].(string)
			assert.Contains(t, msg, tt.wantErr)
		})
	}
	assert.Equal(t, 0, f.mailer.count())
}

func TestQuestionnaireEmail_MailFailureThenRetry(t *testing.T) {
	f := newFixture(t, "")
	f.mailer.err = errors.New("provider down")

	rec, out := f.post(t, validPayload(), "retry-key")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", out["error"])

	subs, _ := f.subs.List(context.Background(), store.QueryOpts{})
	require.Len(t, subs, 1)
	assert.Equal(t, store.MailFailed, subs[0].MailStatus)
	assert.Equal(t, "provider down", subs[0].MailError)

	// The claim was released, so the same key may retry and reuses the row.
	f.mailer.err = nil
	rec, out = f.post(t, validPayload(), "retry-key")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, subs[0].ID, out["id"])

	subs, _ = f.subs.List(context.Background(), store.QueryOpts{})
	require.Len(t, subs, 1)
	assert.Equal(t, store.MailSent, subs[0].MailStatus)
	assert.Equal(t, 1, f.mailer.count())
}

func TestHealthAndQuestions(t *testing.T) {
	f := newFixture(t, "")

	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Questions []questionnaire.Question `json:"questions"`
		Options   []string                 `json:"options"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Questions, 42)
	assert.Equal(t, []string{"Yes", "No", "Not Applicable"}, out.Options)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, "")
	req := httptest.NewRequest(http.MethodOptions, notify.DefaultPath, nil)
	req.Header.Set("Origin", "https://vastu.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// The wizard, its HTTP notifier and this server together.
func TestWizardEndToEnd(t *testing.T) {
	f := newFixture(t, "")
	ts := httptest.NewServer(f.srv.Router())
	defer ts.Close()

	ctl := wizard.NewController(questionnaire.DefaultCatalog(), notify.NewClient(ts.URL+notify.DefaultPath))
	ctx := context.Background()
	require.NoError(t, ctl.Dispatch(ctx, wizard.Start{}))
	for i := 0; i < ctl.Catalog().Len(); i++ {
		require.NoError(t, ctl.Dispatch(ctx, wizard.Select{Answer: questionnaire.AnswerYes}))
		require.NoError(t, ctl.Dispatch(ctx, wizard.Next{}))
	}
	require.NoError(t, ctl.Dispatch(ctx, wizard.Submit{Respondent: wizard.Respondent{Name: "Asha", Email: "asha@example.com"}}))

	s := ctl.State()
	assert.Equal(t, wizard.SendSuccess, s.SendStatus, s.SendError)
	assert.Equal(t, questionnaire.GradeAPlus, s.Result.Grade)

	got, err := f.subs.ByIdempotencyKey(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.TotalAnswered)
	assert.Equal(t, 100, got.ScorePercent)
}
