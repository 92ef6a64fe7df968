package flagapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hedgehog/flags"
)

type evaluatorFunc func(ctx context.Context, id string) (flags.Config, error)

func (f evaluatorFunc) Evaluate(ctx context.Context, id string) (flags.Config, error) {
	return f(ctx, id)
}

func newTestHandler(rules Evaluator) *Handler {
	n := 0
	return NewHandler(Options{
		Rules:  rules,
		Logger: log.New(io.Discard),
		NewID: func() string {
			n++
			return "generated-" + string(rune('0'+n))
		},
	})
}

func get(t *testing.T, h http.Handler, cookie string) (*httptest.ResponseRecorder, flags.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, Path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: flags.DistinctIDCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body flags.Response
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestHandler(t *testing.T) {
	robo := evaluatorFunc(func(_ context.Context, id string) (flags.Config, error) {
		return flags.Config{DoubleJumpEnabled: true, Skin: flags.SkinRobohog}, nil
	})
	failing := evaluatorFunc(func(context.Context, string) (flags.Config, error) {
		return flags.Defaults(), errors.New("script exploded")
	})

	cases := []struct {
		name       string
		rules      Evaluator
		cookie     string
		wantID     string
		wantCookie bool
		wantFlags  flags.Config
	}{
		{"new_visitor", robo, "", "generated-1", true, flags.Config{DoubleJumpEnabled: true, Skin: flags.SkinRobohog}},
		{"returning_visitor", robo, "abc", "abc", false, flags.Config{DoubleJumpEnabled: true, Skin: flags.SkinRobohog}},
		{"evaluation_failure", failing, "abc", "generated-1", false, flags.Defaults()},
		{"no_rules", nil, "abc", "generated-1", false, flags.Defaults()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := get(t, newTestHandler(tc.rules), tc.cookie)
			if rec.Code != http.StatusOK {
				t.Fatalf("unexpected status %d", rec.Code)
			}
			if body.DistinctID != tc.wantID {
				t.Fatalf("expected id %q, got %q", tc.wantID, body.DistinctID)
			}
			if got := flags.FromValues(body.FeatureFlags); got != tc.wantFlags {
				t.Fatalf("expected flags %+v, got %+v", tc.wantFlags, got)
			}
			for _, key := range []string{flags.KeyDoubleJump, flags.KeySpeedBoost, flags.KeySkin} {
				if _, ok := body.FeatureFlags[key]; !ok {
					t.Fatalf("missing %q in %v", key, body.FeatureFlags)
				}
			}

			cookies := rec.Result().Cookies()
			if tc.wantCookie != (len(cookies) == 1) {
				t.Fatalf("expected cookie=%v, got %v", tc.wantCookie, cookies)
			}
			if tc.wantCookie {
				c := cookies[0]
				if c.Name != flags.DistinctIDCookie || c.Value != tc.wantID || !c.HttpOnly || c.MaxAge != cookieMaxAge || c.SameSite != http.SameSiteLaxMode {
					t.Fatalf("unexpected cookie %+v", c)
				}
			}
		})
	}
}

func TestHandlerRejectsPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, Path, nil)
	rec := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandlerWithDefaultRulesFeedsHTTPSource(t *testing.T) {
	rules, err := flags.LoadDefaultRules()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	srv := httptest.NewServer(Routes(NewHandler(Options{Rules: rules, Logger: log.New(io.Discard)})))
	defer srv.Close()

	store := flags.NewStore(flags.Defaults())
	src := flags.NewHTTPSource(srv.URL+Path, 0, store, log.New(io.Discard))
	cfg, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want, _ := rules.Evaluate(context.Background(), src.DistinctID())
	if cfg != want || store.Snapshot() != want {
		t.Fatalf("expected %+v, got %+v (store %+v)", want, cfg, store.Snapshot())
	}
}
