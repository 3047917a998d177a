package ditesting

import (
	"context"
	"sync"

	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/post"
)

// StaticSource serves a fixed set of posts and records how often builds ask
// for them, so tests can assert the generator pulled from the right source.
type StaticSource struct {
	mu    sync.Mutex
	posts []*post.Post
	err   error
	calls int
}

var _ generator.PostSource = (*StaticSource)(nil)

// NewStaticSource constructs a source that always lists the given posts.
func NewStaticSource(posts ...*post.Post) *StaticSource {
	return &StaticSource{posts: posts}
}

// FailWith makes every List call return err.
func (s *StaticSource) FailWith(err error) *StaticSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// List satisfies generator.PostSource.
func (s *StaticSource) List(context.Context) ([]*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*post.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

// Calls reports how many times List ran.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// NewGeneratorContainer creates a container whose builds read posts from a
// static in-memory source instead of the corpus directory.
func NewGeneratorContainer(cfg runtimeconfig.Config, posts []*post.Post, opts ...di.Option) (*di.Container, *StaticSource, error) {
	source := NewStaticSource(posts...)
	options := append([]di.Option{di.WithPostSource(source)}, opts...)

	container, err := di.NewContainer(cfg, options...)
	if err != nil {
		return nil, nil, err
	}
	return container, source, nil
}
