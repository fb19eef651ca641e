// AngelaMos | 2026
// fakes_test.go

package bio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/user"
)

type memRepo struct {
	mu    sync.Mutex
	pages map[string]*Page
	calls *[]string
}

func newMemRepo(calls *[]string) *memRepo {
	return &memRepo{pages: make(map[string]*Page), calls: calls}
}

func (m *memRepo) Create(ctx context.Context, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.pages {
		if existing.OwnerID == p.OwnerID {
			return ErrPageExists
		}
	}

	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.pages[p.ID] = p.clone()
	return nil
}

func (m *memRepo) GetByOwner(ctx context.Context, ownerID string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pages {
		if p.OwnerID == ownerID {
			return p.clone(), nil
		}
	}
	return nil, fmt.Errorf("get bio page: %w", core.ErrNotFound)
}

func (m *memRepo) Update(ctx context.Context, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[p.ID]; !ok {
		return fmt.Errorf("update bio page: %w", core.ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	m.pages[p.ID] = p.clone()
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[id]; !ok {
		return fmt.Errorf("delete bio page: %w", core.ErrNotFound)
	}
	delete(m.pages, id)
	*m.calls = append(*m.calls, "repo.delete")
	return nil
}

func (m *memRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[id]
	if !ok {
		return 0, fmt.Errorf("increment views: %w", core.ErrNotFound)
	}
	p.ViewCount++
	*m.calls = append(*m.calls, "repo.increment")
	return p.ViewCount, nil
}

func (m *memRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages), nil
}

func (m *memRepo) stored(ownerID string) *Page {
	p, _ := m.GetByOwner(context.Background(), ownerID) //nolint:errcheck
	return p
}

type memEvents struct {
	mu     sync.Mutex
	events []analytics.Event
	calls  *[]string
}

func (m *memEvents) RecordBioView(
	ctx context.Context,
	bioPageID string,
	v analytics.Visit,
) (*analytics.Event, error) {
	e, err := analytics.NewBioEvent(bioPageID, v, time.Now())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = fmt.Sprintf("e-%d", len(m.events)+1)
	m.events = append(m.events, *e)
	*m.calls = append(*m.calls, "record")
	return e, nil
}

func (m *memEvents) ListForBio(
	ctx context.Context,
	bioPageID string,
	since time.Time,
) ([]analytics.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []analytics.Event
	for _, e := range m.events {
		if e.BioPageID != nil && *e.BioPageID == bioPageID && !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) RecentForBio(
	ctx context.Context,
	bioPageID string,
	limit int,
) ([]analytics.Event, error) {
	all, _ := m.ListForBio(ctx, bioPageID, time.Time{}) //nolint:errcheck
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memEvents) DeleteForBio(ctx context.Context, bioPageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.events[:0]
	for _, e := range m.events {
		if e.BioPageID == nil || *e.BioPageID != bioPageID {
			kept = append(kept, e)
		}
	}
	m.events = kept
	*m.calls = append(*m.calls, "events.delete")
	return nil
}

type memOwners map[string]*user.User

func (m memOwners) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := m[username]
	if !ok || !u.IsActive {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	return u, nil
}

type fakeUploader struct {
	url string
	err error
	got []byte
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.got = b
	return f.url, nil
}

var errUpload = errors.New("upload failed")

type fixture struct {
	svc    *Service
	repo   *memRepo
	events *memEvents
	calls  *[]string
}

func newFixture(uploader ImageUploader) fixture {
	calls := &[]string{}
	repo := newMemRepo(calls)
	events := &memEvents{calls: calls}
	owners := memOwners{
		"alice": {ID: "u-alice", Username: "alice", IsActive: true},
		"bob":   {ID: "u-bob", Username: "bob", IsActive: false},
		"carol": {ID: "u-carol", Username: "carol", IsActive: true},
	}

	return fixture{
		svc:    NewService(repo, events, events, owners, uploader),
		repo:   repo,
		events: events,
		calls:  calls,
	}
}
