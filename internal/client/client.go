package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roadmap_backend/internal/model"
	"roadmap_backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrFetchFailed is the only error the user sees for a failed search.
var ErrFetchFailed = errors.New("Could not fetch roadmap.")

// ErrCodeRejected means the sign-in code was wrong or expired.
var ErrCodeRejected = errors.New("Invalid OTP")

const maxBodyBytes = 4 << 20

// Roadmap is a fetched document together with the exact bytes the server sent.
type Roadmap struct {
	Document model.RoadmapDocument
	Raw      json.RawMessage
}

// RoadmapClient talks to the roadmap HTTP API.
type RoadmapClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *RoadmapClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// Fetch issues exactly one search request. Any failure is reported as
// ErrFetchFailed; the detail only goes to the log.
func (c *RoadmapClient) Fetch(ctx context.Context, topic string) (*Roadmap, error) {
	status, body, err := c.post(ctx, "/api/search", map[string]string{"topic": topic})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.Logger.Error("Failed to load roadmap", zap.String("topic", topic), zap.Error(err))
		return nil, ErrFetchFailed
	}
	if status < 200 || status > 299 {
		c.Logger.Error("Failed to load roadmap",
			zap.String("topic", topic),
			zap.Int("status", status),
			zap.ByteString("body", body),
		)
		return nil, ErrFetchFailed
	}

	var doc model.RoadmapDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		c.Logger.Error("Undecodable roadmap", zap.String("topic", topic), zap.Error(err))
		return nil, ErrFetchFailed
	}

	return &Roadmap{Document: doc, Raw: json.RawMessage(body)}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RequestCode asks the server to issue a sign-in code. The code is only
// returned when the server runs in demo mode.
func (c *RoadmapClient) RequestCode(ctx context.Context, contact string) (string, error) {
	status, body, err := c.post(ctx, "/api/auth/otp", map[string]string{"contact": contact})
	if err != nil {
		return "", err
	}

	env, err := decodeEnvelope(status, body)
	if err != nil {
		return "", err
	}

	var data struct {
		Sent bool   `json:"sent"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("decode otp response: %w", err)
	}
	return data.Code, nil
}

// VerifyCode checks a sign-in code. A rejected code returns ErrCodeRejected.
func (c *RoadmapClient) VerifyCode(ctx context.Context, contact, code string) error {
	status, body, err := c.post(ctx, "/api/auth/otp/verify", map[string]string{"contact": contact, "code": code})
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return ErrCodeRejected
	}
	_, err = decodeEnvelope(status, body)
	return err
}

func decodeEnvelope(status int, body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", status, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("server error %d: %s", status, env.Message)
	}
	return &env, nil
}

func (c *RoadmapClient) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(util.HeaderRequestID, requestID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("API call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID),
	)
	return resp.StatusCode, body, nil
}
