package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"roadmap_backend/internal/config"
	"roadmap_backend/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestRoadmapService(t *testing.T, cfg config.AIConfig) *RoadmapService {
	t.Helper()
	svc, err := NewRoadmapService(cfg, nil)
	require.NoError(t, err)
	return svc
}

func TestNormalizeModelText(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"title\":\"X\",\"stages\":[]}\n```": `{"title":"X","stages":[]}`,
		"```\n{\"a\":1}\n```":                           `{"a":1}`,
		"  \n{\"a\":1}\n\t":                             `{"a":1}`,
		"Here:```json{\"a\":1}```":                      `Here:{"a":1}`,
		"```JSON\n{}\n```":                              "JSON\n{}",
		"":                                              "",
		"\uFEFF```json\n{\"a\":1}\n```\u00a0":           `{"a":1}`,
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeModelText(in), "input %q", in)
	}
}

func TestBuildRoadmapPrompt(t *testing.T) {
	p := BuildRoadmapPrompt("Rust")
	require.Contains(t, p, `For the topic "Rust"`)
	for _, key := range []string{`"title"`, `"overview"`, `"stages"`, `"duration"`, `"items"`, `"name"`, `"description"`, `"resources"`, `"label"`, `"url"`} {
		require.Contains(t, p, key)
	}
	require.Contains(t, p, "Only return valid JSON with no extra text.")
}

func TestGenerate_TopicRequiredSkipsUpstream(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody(`{}`))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	for _, topic := range []string{"", " ", "\t\n", "   \r\n  "} {
		_, err := svc.Generate(context.Background(), topic)
		require.ErrorIs(t, err, util.ErrTopicRequired, "topic %q", topic)
	}
	require.Zero(t, up.calls.Load())
}

func TestGenerate_MissingKeySkipsUpstream(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody(`{}`))
	cfg := testAIConfig(up.server.URL)
	cfg.APIKey = ""
	svc := newTestRoadmapService(t, cfg)

	_, err := svc.Generate(context.Background(), "Go")
	require.ErrorIs(t, err, util.ErrAPIKeyMissing)
	require.Equal(t, "GEMINI_API_KEY is not set", err.Error())
	require.Zero(t, up.calls.Load())
}

func TestGenerate_StripsFences(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody("```json\n{\"title\":\"X\",\"stages\":[]}\n```"))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	out, err := svc.Generate(context.Background(), "X")
	require.NoError(t, err)
	require.Equal(t, `{"title":"X","stages":[]}`, string(out))
}

func TestGenerate_EmbedsTrimmedTopic(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody(`{"title":"Go"}`))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	_, err := svc.Generate(context.Background(), "  Go  ")
	require.NoError(t, err)

	up.mu.Lock()
	body := string(up.lastBody)
	up.mu.Unlock()
	require.Contains(t, body, `For the topic \"Go\"`)
}

func TestGenerate_InvalidJSONKeepsRaw(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody("```json\n  Sorry, I can't do that {\n```  "))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	_, err := svc.Generate(context.Background(), "Go")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, "Sorry, I can't do that {", formatErr.Raw)
	require.Equal(t, "Invalid JSON from AI", err.Error())
}

func TestGenerate_MissingCandidateIsFormatError(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, `{"candidates":[]}`)
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	_, err := svc.Generate(context.Background(), "Go")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, "", formatErr.Raw)
}

func TestGenerate_UpstreamError(t *testing.T) {
	up := newFakeGemini(t, http.StatusServiceUnavailable, `overloaded`)
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	_, err := svc.Generate(context.Background(), "Go")
	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	require.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	require.Equal(t, "Gemini API error: overloaded", err.Error())
}

func TestGenerate_PassesThroughWithoutSchemaCheck(t *testing.T) {
	text := `{"title":"Go","price":1.10,"big":12345678901234567890,"note":"café","stages":"not-an-array"}`
	up := newFakeGemini(t, http.StatusOK, candidateBody("```json\n"+text+"\n```"))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	out, err := svc.Generate(context.Background(), "Go")
	require.NoError(t, err)
	require.Equal(t, text, string(out), "values must not be re-encoded")
}

func TestGenerate_RoundTripMatchesUpstream(t *testing.T) {
	text := `{
  "title": "Kubernetes",
  "overview": "Containers at scale",
  "stages": [
    {"title": "Beginner", "duration": "2 weeks", "items": [{"name": "Pods", "resources": [{"label": "Docs", "url": "https://kubernetes.io"}]}]},
    {"title": "Advanced", "items": []}
  ]
}`
	up := newFakeGemini(t, http.StatusOK, candidateBody("```json\n"+text+"\n```"))
	svc := newTestRoadmapService(t, testAIConfig(up.server.URL))

	out, err := svc.Generate(context.Background(), "Kubernetes")
	require.NoError(t, err)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(text), &want))
	require.NoError(t, json.Unmarshal(out, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_StrictSchema(t *testing.T) {
	up := newFakeGemini(t, http.StatusOK, candidateBody(`{"title":"X","stages":[]}`))
	cfg := testAIConfig(up.server.URL)
	cfg.StrictSchema = true
	svc := newTestRoadmapService(t, cfg)

	_, err := svc.Generate(context.Background(), "X")
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, []string{"stages is empty"}, schemaErr.Problems)
	require.Equal(t, `{"title":"X","stages":[]}`, schemaErr.Raw)
}

// stubGenerator is a ContentGenerator that returns canned values.
type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	return s.text, s.err
}

func TestUpdateConfig_SwapsGenerator(t *testing.T) {
	built := 0
	factory := func(_ context.Context, cfg config.AIConfig) (ContentGenerator, error) {
		built++
		return &stubGenerator{text: `{"model":"` + cfg.Model + `"}`}, nil
	}

	svc, err := NewRoadmapService(config.AIConfig{Model: "a"}, factory)
	require.NoError(t, err)
	require.Zero(t, built, "no generator without a key")

	_, err = svc.Generate(context.Background(), "Go")
	require.ErrorIs(t, err, util.ErrAPIKeyMissing)

	require.NoError(t, svc.UpdateConfig(config.AIConfig{Model: "b", APIKey: "k"}))
	out, err := svc.Generate(context.Background(), "Go")
	require.NoError(t, err)
	require.Equal(t, `{"model":"b"}`, string(out))
	require.Equal(t, 1, built)
}

func TestGenerate_TransportFailureIsNotUpstreamError(t *testing.T) {
	factory := func(context.Context, config.AIConfig) (ContentGenerator, error) {
		return &stubGenerator{err: errors.New("dial tcp: connection refused")}, nil
	}
	svc, err := NewRoadmapService(config.AIConfig{APIKey: "k"}, factory)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "Go")
	require.Error(t, err)
	var upstreamErr *UpstreamError
	require.False(t, errors.As(err, &upstreamErr))
	require.True(t, strings.Contains(err.Error(), "connection refused"))
}
