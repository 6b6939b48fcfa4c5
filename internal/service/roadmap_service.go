package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"roadmap_backend/internal/config"
	"roadmap_backend/internal/model"
	"roadmap_backend/internal/util"
	"roadmap_backend/pkg/logger"
	"roadmap_backend/pkg/monitoring"
	"roadmap_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const roadmapPromptTemplate = `You are an expert learning path generator. For the topic "%s" produce JSON with:
    {
      "title": "...",
      "overview": "...",
      "stages": [
        { "title": "Beginner", "duration": "4-6 weeks", "items": [{ "name": "...", "description":"...", "resources": [{ "label":"", "url":""}] }] },
        ...
      ]
    }
    Only return valid JSON with no extra text.`

// BuildRoadmapPrompt embeds topic into the generation instruction.
func BuildRoadmapPrompt(topic string) string {
	return fmt.Sprintf(roadmapPromptTemplate, topic)
}

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// NormalizeModelText removes every Markdown fence marker, with or without a
// json tag, then trims surrounding whitespace and byte order marks.
func NormalizeModelText(text string) string {
	return strings.TrimFunc(fenceReplacer.Replace(text), isTrimmable)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// FormatError means the normalized model text is not JSON.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string { return "Invalid JSON from AI" }
func (e *FormatError) Unwrap() error { return e.Err }

// SchemaError means the model returned JSON that is not a roadmap document.
// Only produced when strict schema checking is enabled.
type SchemaError struct {
	Raw      string
	Problems []string
}

func (e *SchemaError) Error() string {
	return "Invalid roadmap from AI: " + strings.Join(e.Problems, "; ")
}

// GeneratorFactory builds the upstream client for a configuration.
type GeneratorFactory func(ctx context.Context, cfg config.AIConfig) (ContentGenerator, error)

// DefaultGeneratorFactory picks the transport named by cfg.Transport.
func DefaultGeneratorFactory(ctx context.Context, cfg config.AIConfig) (ContentGenerator, error) {
	switch cfg.Transport {
	case config.TransportSDK:
		return NewGenAIGenerator(ctx, cfg)
	default:
		return NewGeminiClient(cfg), nil
	}
}

type RoadmapService struct {
	mu        sync.RWMutex
	cfg       config.AIConfig
	generator ContentGenerator
	factory   GeneratorFactory
}

func NewRoadmapService(cfg config.AIConfig, factory GeneratorFactory) (*RoadmapService, error) {
	if factory == nil {
		factory = DefaultGeneratorFactory
	}
	s := &RoadmapService{factory: factory}
	if err := s.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateConfig swaps the upstream settings. Without an API key the service
// stays up and reports ErrAPIKeyMissing per request.
func (s *RoadmapService) UpdateConfig(cfg config.AIConfig) error {
	var gen ContentGenerator
	if cfg.APIKey != "" {
		var err error
		gen, err = s.factory(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("build %s generator: %w", cfg.Transport, err)
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	s.generator = gen
	s.mu.Unlock()
	return nil
}

// HasAPIKey reports whether a generator is currently configured.
func (s *RoadmapService) HasAPIKey() bool {
	_, gen := s.current()
	return gen != nil
}

func (s *RoadmapService) current() (config.AIConfig, ContentGenerator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.generator
}

// Generate runs the whole pipeline for one topic and returns the compacted
// JSON text produced by the model. Values are never re-encoded.
func (s *RoadmapService) Generate(ctx context.Context, topic string) (json.RawMessage, error) {
	ctx, span := tracing.Tracer.Start(ctx, "roadmap.generate")
	defer span.End()

	out, outcome, err := s.generate(ctx, topic)

	span.SetAttributes(
		attribute.Int("roadmap.topic_length", len(topic)),
		attribute.String("roadmap.outcome", outcome),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	monitoring.RoadmapGenerations.WithLabelValues(outcome).Inc()
	return out, err
}

func (s *RoadmapService) generate(ctx context.Context, topic string) (json.RawMessage, string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, monitoring.OutcomeInvalidInput, util.ErrTopicRequired
	}

	cfg, gen := s.current()
	if cfg.APIKey == "" || gen == nil {
		return nil, monitoring.OutcomeMisconfigured, util.ErrAPIKeyMissing
	}

	start := time.Now()
	text, err := gen.GenerateContent(ctx, BuildRoadmapPrompt(topic))
	monitoring.UpstreamDuration.WithLabelValues(cfg.Transport).Observe(time.Since(start).Seconds())
	if err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, monitoring.OutcomeUpstreamError, err
		}
		return nil, monitoring.OutcomeInternalError, err
	}

	if text == "" {
		// 上游未返回候选内容时按空文本继续，由解析阶段报错
		logger.Log.Warn("Upstream returned no candidate text", zap.String("model", cfg.Model))
	}

	normalized := NormalizeModelText(text)

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, []byte(normalized)); err != nil {
		return nil, monitoring.OutcomeFormatError, &FormatError{Raw: normalized, Err: err}
	}

	if cfg.StrictSchema {
		if problems := checkSchema(normalized); len(problems) > 0 {
			return nil, monitoring.OutcomeSchemaError, &SchemaError{Raw: normalized, Problems: problems}
		}
	}

	return json.RawMessage(compacted.Bytes()), monitoring.OutcomeSuccess, nil
}

func checkSchema(normalized string) []string {
	var doc model.RoadmapDocument
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return []string{err.Error()}
	}
	return doc.Validate()
}
