// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abstract-search/internal/service"
	"github.com/pdiddy/abstract-search/pkg/types"
)

type fakeAnswerer struct {
	resp     types.AbstractsResponse
	terms    []string
	err      error
	gotQ     string
	gotTerms string
	panics   bool
}

func (f *fakeAnswerer) GetAbstracts(_ context.Context, question, searchTerms string) (types.AbstractsResponse, error) {
	if f.panics {
		panic("boom")
	}
	f.gotQ, f.gotTerms = question, searchTerms
	if question == "" {
		return types.AbstractsResponse{}, service.ErrEmptyQuestion
	}
	return f.resp, f.err
}

func (f *fakeAnswerer) ExtractTerms(_ context.Context, question string) ([]string, error) {
	f.gotQ = question
	if question == "" {
		return nil, service.ErrEmptyQuestion
	}
	return f.terms, f.err
}

func sampleResponse() types.AbstractsResponse {
	return types.AbstractsResponse{
		Articles: []types.Article{{
			Title:    "Coffee and <i>hypertension</i>",
			Authors:  "Ana Silva, Li Wei",
			Year:     "2021",
			Abstract: "Moderate intake was not associated with risk.",
		}},
		Summary:     "No clear association.",
		HasArticles: true,
	}
}

func newTestServer(t *testing.T, svc Answerer, cfg types.ServerConfig) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(cfg, svc, nil, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestGetAbstracts(t *testing.T) {
	svc := &fakeAnswerer{resp: sampleResponse()}
	ts := newTestServer(t, svc, types.ServerConfig{})

	resp, body := postJSON(t, ts.URL+"/get_abstracts", `{"question":"Does coffee raise blood pressure?","search_terms":"coffee hypertension"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	assert.Equal(t, "Does coffee raise blood pressure?", svc.gotQ)
	assert.Equal(t, "coffee hypertension", svc.gotTerms)

	var got types.AbstractsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.HasArticles)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "Coffee and <i>hypertension</i>", got.Articles[0].Title)
	assert.Equal(t, types.Year("2021"), got.Articles[0].Year)
	assert.Equal(t, "No clear association.", got.Summary)
}

func TestGetAbstractsErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"empty question", `{"question":""}`, nil, http.StatusBadRequest, msgNoQuery},
		{"missing question", `{}`, nil, http.StatusBadRequest, msgNoQuery},
		{"bad body", `{"question":`, nil, http.StatusBadRequest, msgBadRequest},
		{"upstream failure", `{"question":"q"}`, fmt.Errorf("esearch: %w", service.ErrUpstream), http.StatusBadGateway, msgUpstream},
		{"unexpected failure", `{"question":"q"}`, fmt.Errorf("disk on fire"), http.StatusInternalServerError, msgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeAnswerer{err: tt.err}, types.ServerConfig{})

			resp, body := postJSON(t, ts.URL+"/get_abstracts", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var e types.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.wantError, e.Error)
		})
	}
}

func TestExtractTerms(t *testing.T) {
	svc := &fakeAnswerer{terms: []string{"coffee", "hypertension"}}
	ts := newTestServer(t, svc, types.ServerConfig{})

	resp, body := postJSON(t, ts.URL+"/extract_terms", `{"question":"Does coffee raise blood pressure?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"terms":["coffee","hypertension"]}`, string(body))

	resp, _ = postJSON(t, ts.URL+"/extract_terms", `{"question":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodNotAllowedOnJSONEndpoints(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, types.ServerConfig{})

	resp, err := http.Get(ts.URL + "/get_abstracts")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, types.ServerConfig{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "abstract_search_http_requests_total")
}

func TestPageRoundTrip(t *testing.T) {
	svc := &fakeAnswerer{resp: sampleResponse(), terms: []string{"coffee", "hypertension"}}
	ts := newTestServer(t, svc, types.ServerConfig{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="search-form"`)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err = client.PostForm(ts.URL+"/", url.Values{"question": {"Does coffee raise blood pressure?"}, "action": {"search"}})
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<h5>Coffee and <i>hypertension</i></h5>")
	assert.Contains(t, string(body), "No clear association.")

	resp, err = client.PostForm(ts.URL+"/", url.Values{"question": {"Does coffee raise blood pressure?"}, "action": {"extract"}})
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `value="coffee hypertension"`)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{resp: sampleResponse()}, types.ServerConfig{
		AllowedOrigins: []string{"https://app.example.org"},
	})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/get_abstracts", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://app.example.org", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{terms: []string{"a"}}, types.ServerConfig{RateLimit: 0.001, RateBurst: 1})

	resp, _ := postJSON(t, ts.URL+"/extract_terms", `{"question":"q"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, ts.URL+"/extract_terms", `{"question":"q"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestPanicRecovered(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{panics: true}, types.ServerConfig{})

	resp, body := postJSON(t, ts.URL+"/get_abstracts", `{"question":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(body))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(types.ServerConfig{ShutdownTimeout: time.Second}, &fakeAnswerer{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
