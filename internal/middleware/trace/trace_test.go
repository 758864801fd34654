package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.HasPrefix(seen, "req_") || rr.Header().Get(Header) != seen {
		t.Errorf("generated id %q, header %q", seen, rr.Header().Get(Header))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "ui-42")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "ui-42" {
		t.Errorf("incoming id not reused: %q", seen)
	}

	req.Header.Set(Header, "bad id with spaces")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "bad id with spaces" {
		t.Error("malformed incoming id should be replaced")
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == b || len(a) != len("req_")+16 {
		t.Errorf("ids %q %q", a, b)
	}
}
