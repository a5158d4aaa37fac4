package router

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/iliyamo/blog-api/internal/model"
	"github.com/iliyamo/blog-api/internal/queue"
	"github.com/iliyamo/blog-api/internal/repository"
)

// memUsers is an in-memory handler.UserStore.
type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uint64]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.nextID++
	now := time.Now().UTC()
	u.ID, u.CreatedAt, u.UpdatedAt = m.nextID, now, now
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// memBlogs is an in-memory handler.BlogStore with the same filter
// semantics as the SQL repository.
type memBlogs struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Blog
}

func newMemBlogs() *memBlogs {
	return &memBlogs{byID: map[uint64]*model.Blog{}}
}

func (m *memBlogs) Create(_ context.Context, b *model.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	b.ID, b.CreatedAt, b.UpdatedAt = m.nextID, now, now
	if b.Tags == nil {
		b.Tags = []string{}
	}
	m.byID[b.ID] = cloneBlog(b)
	return nil
}

func (m *memBlogs) GetByID(_ context.Context, id uint64) (*model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	return cloneBlog(b), nil
}

func (m *memBlogs) List(_ context.Context, f repository.BlogFilter) ([]*model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Blog{}
	for _, b := range m.byID {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(b.Tags, func(t string) bool { return slices.Contains(f.Tags, t) }) {
			continue
		}
		out = append(out, cloneBlog(b))
	}
	slices.SortFunc(out, func(a, b *model.Blog) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (m *memBlogs) Update(_ context.Context, b *model.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byID[b.ID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	nb := cloneBlog(b)
	nb.AuthorID, nb.CreatedAt, nb.UpdatedAt = old.AuthorID, old.CreatedAt, time.Now().UTC()
	m.byID[b.ID] = nb
	return nil
}

func (m *memBlogs) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(m.byID, id)
	return nil
}

func cloneBlog(b *model.Blog) *model.Blog {
	cp := *b
	cp.Tags = slices.Clone(b.Tags)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	return &cp
}

// recordingPublisher remembers every event it was handed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BlogEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BlogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
