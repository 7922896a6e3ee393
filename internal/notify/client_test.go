package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vastu/internal/questionnaire"
)

func testPayload() Payload {
	return Payload{
		Name:         "Asha",
		Email:        "asha@example.com",
		Phone:        "",
		Answers:      map[questionnaire.QuestionID]questionnaire.Answer{1: "Yes", 2: "No"},
		Grade:        questionnaire.GradeC,
		ScorePercent: 50,
	}
}

func TestClient_Send_Success(t *testing.T) {
	var got map[string]any
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		key = r.Header.Get(IdempotencyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + DefaultPath)
	err := c.Send(context.Background(), "session-1", testPayload())
	require.NoError(t, err)

	assert.Equal(t, "session-1", key)
	assert.Equal(t, "Asha", got["name"])
	assert.Equal(t, "C", got["grade"])
	assert.Equal(t, float64(50), got["scorePercent"])
	answers, ok := got["answers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Yes", answers["1"])
	assert.Equal(t, "No", answers["2"])
}

func TestClient_Send_ServerErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"mail provider down"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), "", testPayload())
	require.Error(t, err)

	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, http.StatusInternalServerError, nerr.StatusCode)
	assert.Equal(t, "mail provider down", nerr.Error())
}

func TestClient_Send_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), "", testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Send_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url).Send(context.Background(), "", testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send result")
}

func TestClient_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).Send(context.Background(), "", testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send result")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad email", ErrorMessage([]byte(`{"error":"bad email"}`), 400))
	assert.Equal(t, "Bad Request (HTTP 400)", ErrorMessage([]byte(`{"message":"x"}`), 400))
	assert.Equal(t, "Not Found (HTTP 404)", ErrorMessage(nil, 404))
	assert.Equal(t, "HTTP 599", ErrorMessage(nil, 599))
}
