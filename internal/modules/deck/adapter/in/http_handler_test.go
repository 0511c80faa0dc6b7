package in_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	deckin "prepdeck/internal/modules/deck/adapter/in"
	"prepdeck/internal/modules/deck/dto"
	apperrors "prepdeck/internal/platform/errors"
	"prepdeck/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsecase struct {
	cards    []dto.CardOutput
	drawIn   dto.DrawInput
	drawErr  error
	listErr  error
	listedIn dto.ListInput
}

func (f *fakeUsecase) Load(context.Context, dto.LoadInput) (dto.LoadOutput, error) {
	return dto.LoadOutput{}, nil
}

func (f *fakeUsecase) Import(context.Context, dto.ImportInput) (dto.ImportOutput, error) {
	return dto.ImportOutput{}, nil
}

func (f *fakeUsecase) Invalidate(context.Context, string) error { return nil }

func (f *fakeUsecase) List(_ context.Context, in dto.ListInput) ([]dto.CardOutput, error) {
	f.listedIn = in
	return f.cards, f.listErr
}

func (f *fakeUsecase) Summary(_ context.Context, deck string) (dto.DeckSummaryOutput, error) {
	return dto.DeckSummaryOutput{Deck: deck, Label: "LeetCode", Total: 3, Red: 1, Yellow: 1, Green: 1}, nil
}

func (f *fakeUsecase) Draw(_ context.Context, in dto.DrawInput) (dto.CardOutput, error) {
	f.drawIn = in
	if f.drawErr != nil {
		return dto.CardOutput{}, f.drawErr
	}
	return f.cards[0], nil
}

func (f *fakeUsecase) GetCard(context.Context, string, string) (dto.CardOutput, error) {
	return dto.CardOutput{}, apperrors.ErrNotFound
}

func newRouter(uc *fakeUsecase, upstream *httptest.Server) *gin.Engine {
	host := "docs.google.com"
	var client *http.Client
	if upstream != nil {
		u, _ := url.Parse(upstream.URL)
		host = u.Host
		client = upstream.Client()
	}
	h := deckin.NewHTTPHandler(uc,
		deckin.ProxyPolicy{AllowHost: host, AllowPathPrefix: "/spreadsheets/"},
		client,
		map[string]dto.WeightsInput{"leetcode": {Red: 0.6, Yellow: 0.3, Green: 0.1}},
		logging.Discard(),
	)
	r := gin.New()
	h.Register(r)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestProxyPolicyMatchesHostWithPort(t *testing.T) {
	t.Parallel()
	policy := deckin.ProxyPolicy{AllowHost: "docs.google.com", AllowPathPrefix: "/spreadsheets/"}
	cases := map[string]bool{
		"https://docs.google.com/spreadsheets/d/x/pub?output=csv": true,
		"https://DOCS.google.com/spreadsheets/d/x/pub":            true,
		"https://docs.google.com:8443/spreadsheets/d/x/pub":       false,
		"https://docs.google.com.evil.test/spreadsheets/d/x":      false,
		"https://docs.google.com/forms/d/x":                       false,
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if got := policy.Allows(u); got != want {
			t.Fatalf("Allows(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestCSVProxyRejectsBadRequests(t *testing.T) {
	t.Parallel()
	r := newRouter(&fakeUsecase{}, nil)
	cases := map[string]string{
		"/api/csv-proxy":                                                    "Missing url parameter.",
		"/api/csv-proxy?url=" + url.QueryEscape("not a url"):                "Invalid url.",
		"/api/csv-proxy?url=" + url.QueryEscape("https://evil.test/x.csv"):  "URL not allowed.",
		"/api/csv-proxy?url=" + url.QueryEscape("https://docs.google.com/"): "URL not allowed.",
	}
	for target, want := range cases {
		rec := get(r, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", target, rec.Code)
		}
		if got := errorBody(t, rec); got != want {
			t.Fatalf("%s: error %q, want %q", target, got, want)
		}
	}

	rec := get(r, "/api/csv-proxy?url="+url.QueryEscape("https://docs.google.com:8443/spreadsheets/d/x/pub"))
	if rec.Code != http.StatusBadRequest || errorBody(t, rec) != "URL not allowed." {
		t.Fatalf("a port on the allowed host must be refused, got %d", rec.Code)
	}
}

func TestCSVProxyForwardsUpstream(t *testing.T) {
	t.Parallel()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/broken") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ID,Name\n1,a\n"))
	}))
	defer upstream.Close()
	r := newRouter(&fakeUsecase{}, upstream)

	rec := get(r, "/api/csv-proxy?url="+url.QueryEscape(upstream.URL+"/spreadsheets/d/x/pub?output=csv"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "ID,Name\n1,a\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Fatalf("unexpected cache control %q", cc)
	}

	rec = get(r, "/api/csv-proxy?url="+url.QueryEscape(upstream.URL+"/spreadsheets/broken"))
	if rec.Code != http.StatusBadGateway || errorBody(t, rec) != "Failed to fetch CSV." {
		t.Fatalf("expected 502, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDeckEndpoints(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{cards: []dto.CardOutput{{ID: "1", Deck: "leetcode", Status: "red", Title: "1. Two Sum"}}}
	r := newRouter(uc, nil)

	rec := get(r, "/api/decks/leetcode/cards?status=red&exclude_green=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("cards status %d", rec.Code)
	}
	if uc.listedIn.Filters.Status != "red" || !uc.listedIn.Filters.ExcludeGreen {
		t.Fatalf("filters not forwarded: %+v", uc.listedIn)
	}

	rec = get(r, "/api/decks/leetcode/draw?green=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("draw status %d", rec.Code)
	}
	want := dto.WeightsInput{Red: 0.6, Yellow: 0.3, Green: 2}
	if uc.drawIn.Weights != want {
		t.Fatalf("expected defaults overridden by query, got %+v", uc.drawIn.Weights)
	}
	var card dto.CardOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil || card.ID != "1" {
		t.Fatalf("unexpected draw body %s", rec.Body.String())
	}

	for _, q := range []string{"red=NaN", "red=Inf", "yellow=-Inf", "green=%2BInf"} {
		if rec := get(r, "/api/decks/leetcode/draw?"+q); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s should be rejected, got %d", q, rec.Code)
		}
	}

	rec = get(r, "/api/decks/leetcode/summary")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":3`) {
		t.Fatalf("unexpected summary %d %s", rec.Code, rec.Body.String())
	}
}

func TestDeckEndpointErrors(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{drawErr: apperrors.ErrNoCards, listErr: apperrors.ErrUnknownDeck}
	r := newRouter(uc, nil)
	if rec := get(r, "/api/decks/trivia/cards"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := get(r, "/api/decks/leetcode/draw"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
