package markdown

import "testing"

func TestExtractFencesBasic(t *testing.T) {
	body := []byte("intro\n\n```go\npackage main\n```\n\noutro\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}

	fence := fences[0]
	if fence.Language != "go" {
		t.Fatalf("expected language go, got %q", fence.Language)
	}
	if fence.Body != "package main\n" {
		t.Fatalf("unexpected fence body: %q", fence.Body)
	}
	if fence.Line != 3 {
		t.Fatalf("expected fence on line 3, got %d", fence.Line)
	}
}

func TestExtractFencesInfoString(t *testing.T) {
	body := []byte("```bash title=setup.sh\necho hi\n```\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Language != "bash" {
		t.Fatalf("expected language bash, got %q", fences[0].Language)
	}
	if fences[0].Info != "bash title=setup.sh" {
		t.Fatalf("unexpected info string: %q", fences[0].Info)
	}
}

func TestExtractFencesLongerCloseRule(t *testing.T) {
	// The inner ``` is shorter than the ```` opener, so it is content.
	body := []byte("````md\n```\nnested\n```\n````\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Body != "```\nnested\n```\n" {
		t.Fatalf("unexpected body: %q", fences[0].Body)
	}
}

func TestExtractFencesTilde(t *testing.T) {
	body := []byte("~~~python\nprint(1)\n~~~\n\n```js\nconsole.log(1)\n```\n")

	fences := ExtractFences(body)
	if len(fences) != 2 {
		t.Fatalf("expected 2 fences, got %d", len(fences))
	}
	if fences[0].Language != "python" || fences[1].Language != "js" {
		t.Fatalf("unexpected languages: %q, %q", fences[0].Language, fences[1].Language)
	}
}

func TestExtractFencesMismatchedCharIsContent(t *testing.T) {
	body := []byte("```\n~~~\nstill inside\n```\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Body != "~~~\nstill inside\n" {
		t.Fatalf("unexpected body: %q", fences[0].Body)
	}
}

func TestExtractFencesBacktickInfoRejected(t *testing.T) {
	// A backtick info string means inline code, not a fence opener.
	body := []byte("``` `not a fence`\ntext\n")

	if fences := ExtractFences(body); len(fences) != 0 {
		t.Fatalf("expected no fences, got %#v", fences)
	}
}

func TestExtractFencesUnclosedRunsToEOF(t *testing.T) {
	body := []byte("```yaml\nkey: value\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Language != "yaml" {
		t.Fatalf("expected language yaml, got %q", fences[0].Language)
	}
	if fences[0].Body != "key: value\n" {
		t.Fatalf("unexpected body: %q", fences[0].Body)
	}
}

func TestExtractFencesIndentedOpener(t *testing.T) {
	body := []byte("  ```go\n  code\n  ```\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Body != "code\n" {
		t.Fatalf("expected indent stripped, got %q", fences[0].Body)
	}
}

func TestExtractFencesEmptyLanguage(t *testing.T) {
	body := []byte("```\nplain\n```\n")

	fences := ExtractFences(body)
	if len(fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(fences))
	}
	if fences[0].Language != "" {
		t.Fatalf("expected empty language, got %q", fences[0].Language)
	}
}
