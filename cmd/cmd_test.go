package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vastu/internal/cms"
	"github.com/abhisek/vastu/internal/config"
	"github.com/abhisek/vastu/internal/questionnaire"
)

func TestParseGrade(t *testing.T) {
	g, err := parseGrade(" a+ ")
	require.NoError(t, err)
	assert.Equal(t, questionnaire.GradeAPlus, g)

	g, err = parseGrade("d")
	require.NoError(t, err)
	assert.Equal(t, questionnaire.GradeD, g)

	_, err = parseGrade("E")
	assert.Error(t, err)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(1, 0, 10))
	assert.Equal(t, "█████·····", bar(5, 10, 10))
	assert.Equal(t, "··········", bar(0, 10, 10))
	assert.Equal(t, "██████████", bar(10, 10, 10))
}

func TestSplitPair(t *testing.T) {
	k, v, err := splitPair("title = Hello=World", "--field")
	require.NoError(t, err)
	assert.Equal(t, "title", k)
	assert.Equal(t, " Hello=World", v)

	_, _, err = splitPair("novalue", "--field")
	assert.ErrorContains(t, err, "expected key=value")

	_, _, err = splitPair("=x", "--json")
	assert.Error(t, err)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "api-base-url", flagName("api_base_url"))
	assert.Equal(t, "db", flagName("db"))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		c := &cobra.Command{}
		var out bytes.Buffer
		c.SetIn(strings.NewReader(tt.input))
		c.SetOut(&out)

		got, err := confirm(c, "Delete?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete? [y/N]")
	}
}

func TestFormFromFlags_RejectsInvalidJSON(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().StringArray("field", nil, "")
	c.Flags().StringArray("json", nil, "")
	c.Flags().StringArray("file", nil, "")
	require.NoError(t, c.Flags().Set("json", "tags=[oops"))

	_, err := formFromFlags(c)
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestDocuments_UnknownResource(t *testing.T) {
	_, err := documents("widgets")
	assert.ErrorContains(t, err, "unknown resource")
}

func TestNewCMSClient_SendsAPIKey(t *testing.T) {
	var (
		mu   sync.Mutex
		auth string
	)
	lastAuth := func() string {
		mu.Lock()
		defer mu.Unlock()
		return auth
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.Config{APIBaseURL: srv.URL, APIKey: "admin-token"}
	items, err := cms.NewCollection[cms.Document](newCMSClient(cfg), cms.Blogs).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "Bearer admin-token", lastAuth())

	cfg.APIKey = ""
	_, err = cms.NewCollection[cms.Document](newCMSClient(cfg), cms.Blogs).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lastAuth())
}
