package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ttsd/internal/router"
	"ttsd/pkg/types"
)

type stubService struct {
	sayFn    func(svcID, text string, options map[string]any) (string, error)
	services []types.ServiceInfo
	descFn   func(svcID string) (string, error)
	optsFn   func(svcID string) ([]types.Option, error)
	traits   []string
	ready    bool
}

func (s *stubService) Say(svcID, text string, options map[string]any) (string, error) {
	if s.sayFn == nil {
		return "", errors.New("say not configured")
	}
	return s.sayFn(svcID, text, options)
}

func (s *stubService) Services() []types.ServiceInfo { return s.services }

func (s *stubService) Desc(svcID string) (string, error) {
	if s.descFn == nil {
		return "", router.ErrUnknownService(svcID)
	}
	return s.descFn(svcID)
}

func (s *stubService) OptionsFor(svcID string) ([]types.Option, error) {
	if s.optsFn == nil {
		return nil, router.ErrUnknownService(svcID)
	}
	return s.optsFn(svcID)
}

func (s *stubService) ByTrait(t types.Trait) []string { return s.traits }
func (s *stubService) Ready() bool                    { return s.ready }

func postSay(t *testing.T, h http.Handler, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/say", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSayHappyPath(t *testing.T) {
	svc := &stubService{
		sayFn: func(svcID, text string, options map[string]any) (string, error) {
			require.Equal(t, "espeak", svcID)
			require.Equal(t, "Hello", text)
			return "/cache/espeak-abc.mp3", nil
		},
	}
	rr := postSay(t, NewMux(svc, ""), "application/json",
		`{"service":"espeak","text":"Hello","options":{"speed":175}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.SayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "/cache/espeak-abc.mp3", resp.Path)
}

func TestSayRejectsWrongContentType(t *testing.T) {
	rr := postSay(t, NewMux(&stubService{}, ""), "text/plain", `{}`)
	require.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestSayRejectsBadJSON(t *testing.T) {
	rr := postSay(t, NewMux(&stubService{}, ""), "application/json", `{"service":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSayRequiresService(t *testing.T) {
	rr := postSay(t, NewMux(&stubService{}, ""), "application/json", `{"text":"Hello"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "service is required")
}

func TestSayErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"empty input", router.ErrInput(), http.StatusBadRequest},
		{"bad options", router.ErrOption("espeak", "eSpeak", []string{"'speed' option is required"}), http.StatusBadRequest},
		{"unknown service", router.ErrUnknownService("ghost"), http.StatusNotFound},
		{"unavailable service", router.ErrUnavailable("eSpeak"), http.StatusServiceUnavailable},
		{"busy path", router.ErrBusy("espeak", "/cache/x.mp3"), http.StatusTooManyRequests},
		{"execution failure", router.ErrExecution("espeak", errors.New("boom")), http.StatusInternalServerError},
		{"opaque failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := &stubService{
				sayFn: func(string, string, map[string]any) (string, error) { return "", c.err },
			}
			rr := postSay(t, NewMux(svc, ""), "application/json", `{"service":"espeak","text":"Hello"}`)
			require.Equal(t, c.status, rr.Code)

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Equal(t, c.status, resp.Code)
			require.Equal(t, c.err.Error(), resp.Error)
		})
	}
}

func TestServicesEndpoint(t *testing.T) {
	svc := &stubService{services: []types.ServiceInfo{
		{ID: "espeak", Name: "eSpeak"},
		{ID: "google", Name: "Google Translate"},
	}}
	req := httptest.NewRequest(http.MethodGet, "/v1/services", nil)
	rr := httptest.NewRecorder()
	NewMux(svc, "").ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.ServicesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, svc.services, resp.Services)
}

func TestOptionsEndpoint(t *testing.T) {
	svc := &stubService{
		optsFn: func(svcID string) ([]types.Option, error) {
			if svcID != "espeak" {
				return nil, router.ErrUnknownService(svcID)
			}
			return []types.Option{{Key: "speed", Label: "Speed:"}}, nil
		},
	}
	mux := NewMux(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/services/espeak/options", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.OptionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "espeak", resp.Service)
	require.Len(t, resp.Options, 1)

	req = httptest.NewRequest(http.MethodGet, "/v1/services/ghost/options", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDescEndpoint(t *testing.T) {
	svc := &stubService{
		descFn: func(svcID string) (string, error) { return "eSpeak synthesis", nil },
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/services/espeak/desc", nil)
	rr := httptest.NewRecorder()
	NewMux(svc, "").ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.DescResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "eSpeak synthesis", resp.Desc)
}

func TestTraitsEndpoint(t *testing.T) {
	svc := &stubService{traits: []string{"Google Translate"}}
	req := httptest.NewRequest(http.MethodGet, "/v1/traits/internet", nil)
	rr := httptest.NewRecorder()
	NewMux(svc, "").ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.TraitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "internet", resp.Trait)
	require.Equal(t, []string{"Google Translate"}, resp.Services)
}

func TestCacheFileServing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "espeak-abc.mp3"), []byte("audio"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/cache/espeak-abc.mp3", nil)
	rr := httptest.NewRecorder()
	NewMux(&stubService{}, dir).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "audio", rr.Body.String())
}

func TestHealthAndReadiness(t *testing.T) {
	mux := NewMux(&stubService{ready: false}, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	ready := NewMux(&stubService{ready: true}, "")
	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr = httptest.NewRecorder()
	ready.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	mux := NewMux(&stubService{}, "")

	// a first request seeds the labeled request counter
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "ttsd_http_requests_total")
}

func TestStatusForErrorFallsBackToHTTPError(t *testing.T) {
	require.Equal(t, http.StatusTeapot, statusForError(teapotError{}))
}

type teapotError struct{}

func (teapotError) Error() string   { return "teapot" }
func (teapotError) StatusCode() int { return http.StatusTeapot }
