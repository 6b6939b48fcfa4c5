package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"roadmap_backend/internal/model"
	"roadmap_backend/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesDocument(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/api/search", r.URL.Path)
		require.NotEmpty(t, r.Header.Get(util.HeaderRequestID))
		b, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"topic":"react"}`, string(b))
		_, _ = io.WriteString(w, `{"title":"React","stages":[{"title":"Beginner","items":[{"name":"JSX"}]}]}`)
	})

	rm, err := New(srv.URL+"/", nil).Fetch(context.Background(), "react")
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	want := model.RoadmapDocument{
		Title:  "React",
		Stages: []model.Stage{{Title: "Beginner", Items: []model.LessonItem{{Name: "JSX"}}}},
	}
	if diff := cmp.Diff(want, rm.Document); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, string(rm.Raw), `"title":"React"`)
}

func TestFetch_FailuresCollapseToOneMessage(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"Invalid JSON from AI","raw":"oops"}`)
		},
		"bad request": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"topic required"}`)
		},
		"undecodable": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `<html></html>`)
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			c := New(newServer(t, h).URL, zap.New(core))

			_, err := c.Fetch(context.Background(), "go")
			require.ErrorIs(t, err, ErrFetchFailed)
			require.Equal(t, "Could not fetch roadmap.", err.Error())
			require.Equal(t, 1, logs.Len(), "detail is logged, not returned")
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Fetch(context.Background(), "go")
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, nil).Fetch(ctx, "go")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRequestAndVerifyCode(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/api/auth/otp":
			_, _ = io.WriteString(w, `{"code":200,"message":"success","data":{"sent":true,"code":"1234"}}`)
		case "/api/auth/otp/verify":
			if string(b) == `{"code":"1234","contact":"ada@example.com"}` {
				_, _ = io.WriteString(w, `{"code":200,"message":"success","data":{"verified":true}}`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"code":401,"message":"invalid code"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	c := New(srv.URL, nil)
	ctx := context.Background()

	code, err := c.RequestCode(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "1234", code)

	require.NoError(t, c.VerifyCode(ctx, "ada@example.com", "1234"))
	require.ErrorIs(t, c.VerifyCode(ctx, "ada@example.com", "0000"), ErrCodeRejected)
}

func TestRequestCode_ServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":400,"message":"contact required"}`)
	})

	_, err := New(srv.URL, nil).RequestCode(context.Background(), " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "contact required")
}
