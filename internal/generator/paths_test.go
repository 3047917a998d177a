package generator

import "testing"

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		route string
		want  string
	}{
		{route: "/", want: "index.html"},
		{route: "", want: "index.html"},
		{route: "/posts/hello-world/", want: "posts/hello-world/index.html"},
		{route: "tags/go", want: "tags/go/index.html"},
	}
	for _, tc := range cases {
		if got := buildOutputPath(tc.route); got != tc.want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", tc.route, got, tc.want)
		}
	}
}

func TestSafeOutputPathRejectsEscapes(t *testing.T) {
	valid := []string{
		"index.html",
		"posts/hello/index.html",
		"a/b/../c.html",
	}
	for _, rel := range valid {
		if _, err := safeOutputPath(rel); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", rel, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"/etc/passwd",
		"..",
		"../outside.html",
		"posts/../../outside.html",
	}
	for _, rel := range invalid {
		if _, err := safeOutputPath(rel); err == nil {
			t.Fatalf("expected %q to be rejected", rel)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		base  string
		route string
		want  string
	}{
		{base: "https://blog.example.com", route: "/posts/a/", want: "https://blog.example.com/posts/a/"},
		{base: "https://blog.example.com/", route: "/posts/a/", want: "https://blog.example.com/posts/a/"},
		{base: "https://blog.example.com", route: "posts/a/", want: "https://blog.example.com/posts/a/"},
		{base: "", route: "/posts/a/", want: "http://localhost/posts/a/"},
		{base: "https://blog.example.com", route: "", want: "https://blog.example.com"},
	}
	for _, tc := range cases {
		if got := absoluteURL(tc.base, tc.route); got != tc.want {
			t.Fatalf("absoluteURL(%q, %q) = %q, want %q", tc.base, tc.route, got, tc.want)
		}
	}
}

func TestPostAndTagRoutes(t *testing.T) {
	if got := postRoute("hello-world"); got != "/posts/hello-world/" {
		t.Fatalf("postRoute = %q", got)
	}
	if got := tagRoute("go"); got != "/tags/go/" {
		t.Fatalf("tagRoute = %q", got)
	}
}
