package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:8080", "http://secure.local:8443", "internal.example")

	tests := []struct {
		target string
		want   string
	}{
		{"http://news.example.com/a", "http://proxy.local:8080"},
		{"https://news.example.com/a", "http://secure.local:8443"},
		{"https://internal.example/a", ""},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.target, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s): %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s) = %q, want %q", tt.target, gotStr, tt.want)
		}
	}
}
