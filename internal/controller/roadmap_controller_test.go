package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roadmap_backend/internal/service"
	"roadmap_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRoadmaps records the topics it was asked for.
type stubRoadmaps struct {
	doc    json.RawMessage
	err    error
	topics []string
}

func (s *stubRoadmaps) Generate(_ context.Context, topic string) (json.RawMessage, error) {
	s.topics = append(s.topics, topic)
	return s.doc, s.err
}

func doSearch(t *testing.T, gen RoadmapGenerator, body string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.POST("/api/search", NewRoadmapController(gen).Search)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	return w
}

func TestSearch_ReturnsDocumentVerbatim(t *testing.T) {
	gen := &stubRoadmaps{doc: json.RawMessage(`{"title":"X","stages":[],"price":1.10}`)}

	w := doSearch(t, gen, `{"topic":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"title":"X","stages":[],"price":1.10}`, w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.Equal(t, []string{"X"}, gen.topics)
}

func TestSearch_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "topic required",
			err:    util.ErrTopicRequired,
			status: http.StatusBadRequest,
			body:   `{"error":"topic required"}`,
		},
		{
			name:   "missing key",
			err:    util.ErrAPIKeyMissing,
			status: http.StatusInternalServerError,
			body:   `{"error":"GEMINI_API_KEY is not set"}`,
		},
		{
			name:   "upstream status passthrough",
			err:    &service.UpstreamError{StatusCode: http.StatusServiceUnavailable, Body: "overloaded"},
			status: http.StatusServiceUnavailable,
			body:   `{"error":"Gemini API error: overloaded"}`,
		},
		{
			name:   "invalid upstream status",
			err:    &service.UpstreamError{StatusCode: 42, Body: "weird"},
			status: http.StatusBadGateway,
			body:   `{"error":"Gemini API error: weird"}`,
		},
		{
			name:   "format error keeps raw",
			err:    &service.FormatError{Raw: "not json", Err: errors.New("invalid character")},
			status: http.StatusInternalServerError,
			body:   `{"error":"Invalid JSON from AI","raw":"not json"}`,
		},
		{
			name:   "empty raw is still written",
			err:    &service.FormatError{Raw: ""},
			status: http.StatusInternalServerError,
			body:   `{"error":"Invalid JSON from AI","raw":""}`,
		},
		{
			name:   "schema error",
			err:    &service.SchemaError{Raw: `{"title":"X"}`, Problems: []string{"stages is empty"}},
			status: http.StatusInternalServerError,
			body:   `{"error":"Invalid roadmap from AI: stages is empty","raw":"{\"title\":\"X\"}"}`,
		},
		{
			name:   "anything else",
			err:    errors.New("dial tcp: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"error":"Internal server error"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doSearch(t, &stubRoadmaps{err: tc.err}, `{"topic":"Go"}`)
			require.Equal(t, tc.status, w.Code)
			require.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestSearch_MalformedBodyIsServerError(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"topic":`} {
		gen := &stubRoadmaps{}
		w := doSearch(t, gen, body)
		require.Equal(t, http.StatusInternalServerError, w.Code, body)
		require.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String(), body)
		require.Empty(t, gen.topics, body)
	}
}

func TestSearch_TopicValueKinds(t *testing.T) {
	cases := map[string]string{
		`{"topic":"Go"}`:          "Go",
		`{"topic":42}`:            "42",
		`{"topic":1.5}`:           "1.5",
		`{"topic":true}`:          "true",
		`{"topic":false}`:         "",
		`{"topic":0}`:             "",
		`{"topic":null}`:          "",
		`{"topic":{"name":"Go"}}`: "",
		`{"topic":["Go"]}`:        "",
		`{}`:                      "",
		`[]`:                      "",
		`"Go"`:                    "",
	}
	for body, want := range cases {
		gen := &stubRoadmaps{doc: json.RawMessage(`{}`)}
		w := doSearch(t, gen, body)
		require.Equal(t, http.StatusOK, w.Code, body)
		require.Equal(t, []string{want}, gen.topics, body)
	}
}

func TestUpstreamStatus(t *testing.T) {
	require.Equal(t, 429, upstreamStatus(429))
	require.Equal(t, 599, upstreamStatus(599))
	require.Equal(t, http.StatusBadGateway, upstreamStatus(0))
	require.Equal(t, http.StatusBadGateway, upstreamStatus(600))
}
