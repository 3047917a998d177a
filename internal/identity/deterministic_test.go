package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	first := UUID("go-press:post:first-post")
	second := UUID("go-press:post:first-post")
	if first != second {
		t.Fatalf("expected stable UUID, got %s vs %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatal("expected non-nil UUID")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("   ") != uuid.Nil {
		t.Fatal("expected nil UUID for blank key")
	}
}

func TestPostUUIDNormalisesSlug(t *testing.T) {
	if PostUUID(" First-Post ") != PostUUID("first-post") {
		t.Fatal("expected case and whitespace insensitive post IDs")
	}
	if PostUUID("first-post") == PostUUID("second-post") {
		t.Fatal("expected distinct IDs for distinct slugs")
	}
}

func TestPostAndTagNamespacesDiffer(t *testing.T) {
	if PostUUID("go") == TagUUID("go") {
		t.Fatal("expected post and tag namespaces to differ")
	}
}
