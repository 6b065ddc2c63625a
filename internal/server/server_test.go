package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sozercan/racing-agent/apimodels"
	"github.com/sozercan/racing-agent/internal/analyzer"
	"github.com/sozercan/racing-agent/internal/config"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newburyAnswer = `{"conditions":"Soft, 2m4f","selection":"Storm King","selection_odds":"4/1","danger":"Bay Breeze","danger_odds":"7/2","jockey_alert":null,"logic":"Soft ground favors stamina."}`

type stubProvider struct {
	content string
	err     error
	calls   int
	apiKey  string
	options llm.Options
}

func (p *stubProvider) factory(_ context.Context, apiKey string) (llm.Provider, error) {
	p.apiKey = apiKey
	return p, nil
}

func (p *stubProvider) Generate(_ context.Context, _, _ string, opts ...llm.Option) (*llm.Response, error) {
	p.calls++
	for _, opt := range opts {
		opt(&p.options)
	}
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{
		Content: p.content,
		Model:   "gemini-2.5-flash",
		Usage:   llm.Usage{TotalTokens: 321},
		Sources: []llm.Source{{Title: "Racing Post", URL: "https://www.racingpost.com/"}},
	}, nil
}

func newTestServer(t *testing.T, provider *stubProvider, session Session) *httptest.Server {
	t.Helper()
	var cfg config.Config
	s, err := New(cfg, analyzer.New(provider.factory, analyzer.Options{JSONMode: true}), session)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newburyForm(key string) url.Values {
	v := url.Values{
		"meeting": {"Newbury"},
		"date":    {"2024-06-01"},
		"time":    {"15:35"},
		"mode":    {"Win"},
	}
	if key != "" {
		v.Set("api_key", key)
	}
	return v
}

func postForm(t *testing.T, ts *httptest.Server, form url.Values) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/analyze", form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, &stubProvider{content: newburyAnswer}, Session{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", doc.Find("input#date").AttrOr("value", ""))
	assert.Equal(t, "15:35", doc.Find("input#time").AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find("input#api_key").Length(), "key field shown without a session key")
	assert.Equal(t, "Analyze Race", doc.Find("button[type=submit]").Text())
}

func TestIndexWithSessionKey(t *testing.T) {
	ts := newTestServer(t, &stubProvider{}, Session{Credential: "AIza-session", Source: "secrets file .streamlit/secrets.toml"})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, 0, doc.Find("input#api_key").Length())
	assert.Contains(t, doc.Find("#key-source").Text(), "secrets file .streamlit/secrets.toml")
	assert.NotContains(t, doc.Text(), "AIza-session")
}

func TestFormSuccess(t *testing.T) {
	provider := &stubProvider{content: newburyAnswer}
	ts := newTestServer(t, provider, Session{})

	resp, doc := postForm(t, ts, newburyForm("AIza-form"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "AIza-form", provider.apiKey)
	assert.Equal(t, 0, doc.Find("#alert").Length())
	assert.Contains(t, doc.Find("#caption").Text(), "Newbury • Soft, 2m4f")
	assert.Equal(t, "Storm King", doc.Find(".card").Eq(0).Find(".value").Text())
	assert.Equal(t, "4/1", doc.Find(".card").Eq(0).Find(".odds").Text())
	assert.Equal(t, "Bay Breeze", doc.Find(".card").Eq(1).Find(".value").Text())
	assert.Equal(t, "Soft ground favors stamina.", doc.Find("#logic").Text())
	assert.Equal(t, "Newbury", doc.Find("input#meeting").AttrOr("value", ""))
}

func TestFormSessionKeyWins(t *testing.T) {
	provider := &stubProvider{content: newburyAnswer}
	ts := newTestServer(t, provider, Session{Credential: "AIza-session", Source: "environment"})

	resp, _ := postForm(t, ts, newburyForm("AIza-form"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AIza-session", provider.apiKey)
}

func TestFormMissingKey(t *testing.T) {
	provider := &stubProvider{content: newburyAnswer}
	ts := newTestServer(t, provider, Session{})

	resp, doc := postForm(t, ts, newburyForm(""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, provider.calls)

	banner := doc.Find("#banner")
	assert.True(t, banner.HasClass("warning"))
	assert.Equal(t, "Please enter your API Key.", banner.Text())
	assert.Equal(t, 0, doc.Find(".card").Length())
}

func TestFormMissingMeeting(t *testing.T) {
	provider := &stubProvider{content: newburyAnswer}
	ts := newTestServer(t, provider, Session{})

	form := newburyForm("AIza-form")
	form.Set("meeting", "   ")
	resp, doc := postForm(t, ts, form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, provider.calls)
	assert.Contains(t, doc.Find("#banner").Text(), "meeting is required")
}

func TestFormMalformedAnswer(t *testing.T) {
	provider := &stubProvider{content: "The going at Newbury is soft."}
	ts := newTestServer(t, provider, Session{})

	resp, doc := postForm(t, ts, newburyForm("AIza-form"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, provider.calls)

	banner := doc.Find("#banner")
	assert.True(t, banner.HasClass("error"))
	assert.True(t, strings.HasPrefix(banner.Text(), "Oops: "))
	assert.Equal(t, 0, doc.Find(".card").Length())
}

func TestFormJockeyAlert(t *testing.T) {
	answer := strings.Replace(newburyAnswer, `"jockey_alert":null`, `"jockey_alert":"J. Smith booked"`, 1)
	ts := newTestServer(t, &stubProvider{content: answer}, Session{})

	_, doc := postForm(t, ts, newburyForm("AIza-form"))
	assert.Equal(t, "alert", doc.Find("#result").Children().First().AttrOr("id", ""))
	assert.Contains(t, doc.Find("#alert").Text(), "JOCKEY ALERT: J. Smith booked")
}

func TestFormUnparseable(t *testing.T) {
	ts := newTestServer(t, &stubProvider{}, Session{})

	resp, err := http.Post(ts.URL+"/analyze", "application/x-www-form-urlencoded", strings.NewReader("meeting=%zz"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func postJSON(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAPIAnalyze(t *testing.T) {
	provider := &stubProvider{content: newburyAnswer}
	ts := newTestServer(t, provider, Session{})

	resp := postJSON(t, ts, `{"meeting":"Newbury","date":"2024-06-01","time":"15:35","mode":"each-way","apiKey":"AIza-json","options":{"model":"gemini-2.5-pro","maxTokens":800}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body apimodels.AnalysisResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Storm King", body.Analysis.Selection)
	assert.Equal(t, "7/2", body.Analysis.DangerOdds)
	assert.Nil(t, body.Analysis.JockeyAlert)
	assert.NotEmpty(t, body.Metadata.ID)
	assert.Equal(t, int64(321), body.Metadata.TokensUsed)
	assert.Len(t, body.Metadata.Sources, 1)

	assert.Equal(t, "AIza-json", provider.apiKey)
	assert.Equal(t, "gemini-2.5-pro", provider.options.Model)
	assert.Equal(t, int64(800), provider.options.MaxTokens)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		body     string
		status   int
		kind     string
	}{
		{
			name:     "missing key",
			provider: &stubProvider{content: newburyAnswer},
			body:     `{"meeting":"Newbury","date":"2024-06-01","time":"15:35","mode":"Win"}`,
			status:   http.StatusBadRequest,
			kind:     "missing_credential",
		},
		{
			name:     "missing meeting",
			provider: &stubProvider{content: newburyAnswer},
			body:     `{"meeting":"","date":"2024-06-01","time":"15:35","mode":"Win","apiKey":"k"}`,
			status:   http.StatusBadRequest,
			kind:     "missing_meeting",
		},
		{
			name:     "bad mode",
			provider: &stubProvider{content: newburyAnswer},
			body:     `{"meeting":"Newbury","date":"2024-06-01","time":"15:35","mode":"place","apiKey":"k"}`,
			status:   http.StatusBadRequest,
			kind:     "invalid_query",
		},
		{
			name:     "bad json",
			provider: &stubProvider{content: newburyAnswer},
			body:     `{"meeting":`,
			status:   http.StatusBadRequest,
			kind:     "invalid_query",
		},
		{
			name:     "remote failure",
			provider: &stubProvider{err: errors.New("Error 403, Message: API key not valid")},
			body:     `{"meeting":"Newbury","date":"2024-06-01","time":"15:35","mode":"Win","apiKey":"k"}`,
			status:   http.StatusBadGateway,
			kind:     "remote_call_failure",
		},
		{
			name:     "malformed answer",
			provider: &stubProvider{content: `{"conditions":"Soft"}`},
			body:     `{"meeting":"Newbury","date":"2024-06-01","time":"15:35","mode":"Win","apiKey":"k"}`,
			status:   http.StatusBadGateway,
			kind:     "malformed_response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.provider, Session{})
			resp := postJSON(t, ts, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body apimodels.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.kind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubProvider{}, Session{})

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatic(t *testing.T) {
	ts := newTestServer(t, &stubProvider{}, Session{})

	resp, err := http.Get(ts.URL + "/static/style.css")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &stubProvider{}, Session{})

	resp, err := http.Get(ts.URL + "/api/v1/analyze")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(&analyzer.Error{Kind: analyzer.KindMissingCredential}))
	assert.Equal(t, http.StatusBadGateway, errorStatus(&analyzer.Error{Kind: analyzer.KindRemoteCall}))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(errors.New("boom")))
}
