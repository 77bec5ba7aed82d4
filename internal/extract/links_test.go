package extract

import (
	"net/url"
	"testing"
)

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/articles/page1")

	tests := []struct {
		href string
		want string
	}{
		{"https://example.org/page2", "https://example.org/page2"},
		{"/relative/path", "https://example.com/relative/path"},
		{"../parent/path", "https://example.com/parent/path"},
		{"same-level.html", "https://example.com/articles/same-level.html"},
		{"//cdn.example.net/img.jpg", "https://cdn.example.net/img.jpg"},
		{"#section1", ""},
		{"javascript:void(0)", ""},
		{"mailto:user@example.com", ""},
		{"ftp://example.com/file", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			if got := ResolveURL(base, tt.href); got != tt.want {
				t.Errorf("ResolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestResolveURL_NilBase(t *testing.T) {
	if got := ResolveURL(nil, "/relative"); got != "" {
		t.Errorf("Expected relative URL without base to be rejected, got %q", got)
	}
	if got := ResolveURL(nil, "http://example.com/a"); got != "http://example.com/a" {
		t.Errorf("Expected absolute URL kept, got %q", got)
	}
}

func TestSourceDomain(t *testing.T) {
	tests := map[string]string{
		"https://www.thehindu.com/news/national/article.ece": "thehindu.com",
		"https://indianexpress.com/article/1":                "indianexpress.com",
		"http://WWW.Example.COM:8080/x":                      "example.com",
		"not a url":                                          "",
	}

	for in, want := range tests {
		if got := SourceDomain(in); got != want {
			t.Errorf("SourceDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDedupeURLs(t *testing.T) {
	got := DedupeURLs([]string{"https://a.com", "", "https://b.com", "https://a.com"})
	if len(got) != 2 || got[0] != "https://a.com" || got[1] != "https://b.com" {
		t.Errorf("Unexpected dedupe result: %q", got)
	}
}
