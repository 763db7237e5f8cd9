package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{accept: "", want: false},
		{accept: "text/html", want: false},
		{accept: "application/json", want: true},
		{accept: "text/html, application/json;q=0.9", want: true},
		{accept: "Application/JSON", want: true},
		{accept: "*/*", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if got := wantsJSON(req); got != tt.want {
				t.Errorf("wantsJSON(%q) = %v, want %v", tt.accept, got, tt.want)
			}
		})
	}
}

func TestParseViews_AllViewsDefineLayout(t *testing.T) {
	for _, name := range []string{viewIndex, viewDetails, viewForm, viewDelete, viewError} {
		tmpl, ok := views[name]
		if !ok {
			t.Errorf("view %q is not parsed", name)
			continue
		}
		if tmpl.Lookup("layout") == nil || tmpl.Lookup("content") == nil {
			t.Errorf("view %q should define layout and content", name)
		}
	}
}
