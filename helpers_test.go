package petsite

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Vet Visits!  ", "vet-visits"},
		{"Spring 2025", "spring-2025"},
		{"--a--b--", "a-b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://mochi.example", nil, "https://mochi.example"},
		{"https://mochi.example", []string{"story"}, "https://mochi.example/story/"},
		{"https://mochi.example/", []string{"a", "b"}, "https://mochi.example/a/b/"},
		{"https://mochi.example", []string{"feed.html"}, "https://mochi.example/feed.html"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	if got := AbsoluteURL("https://mochi.example", "/"); got != "https://mochi.example/" {
		t.Errorf("AbsoluteURL root = %q", got)
	}
	if got := AbsoluteURL("https://mochi.example", "/story/"); got != "https://mochi.example/story/" {
		t.Errorf("AbsoluteURL page = %q", got)
	}
}
