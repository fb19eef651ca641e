// AngelaMos | 2026
// fakes_test.go

package link

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/config"
	"github.com/carterperez-dev/linkbio/internal/core"
)

type memRepo struct {
	mu         sync.Mutex
	links      map[string]*Link
	createHook func(l *Link) error
}

func newMemRepo() *memRepo {
	return &memRepo{links: make(map[string]*Link)}
}

func (m *memRepo) Create(ctx context.Context, l *Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createHook != nil {
		if err := m.createHook(l); err != nil {
			return err
		}
	}

	for _, existing := range m.links {
		if existing.ShortCode == l.ShortCode {
			return ErrCodeTaken
		}
		if l.CustomAlias != nil && existing.CustomAlias != nil &&
			*existing.CustomAlias == *l.CustomAlias {
			return ErrAliasTaken
		}
	}

	now := time.Now()
	l.CreatedAt, l.UpdatedAt = now, now
	cp := *l
	m.links[l.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return nil, fmt.Errorf("get link: %w", core.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (m *memRepo) GetByCode(ctx context.Context, code string) (*Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var byAlias *Link
	for _, l := range m.links {
		if l.ShortCode == code {
			cp := *l
			return &cp, nil
		}
		if l.CustomAlias != nil && *l.CustomAlias == code {
			byAlias = l
		}
	}
	if byAlias != nil {
		cp := *byAlias
		return &cp, nil
	}
	return nil, fmt.Errorf("get link by code: %w", core.ErrNotFound)
}

func (m *memRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	_, err := m.GetByCode(ctx, code)
	return err == nil, nil
}

func (m *memRepo) List(ctx context.Context, p ListParams) ([]Link, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Link
	for _, l := range m.links {
		if l.OwnerID == p.OwnerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, l *Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.ID]; !ok {
		return fmt.Errorf("update link: %w", core.ErrNotFound)
	}
	l.UpdatedAt = time.Now()
	cp := *l
	m.links[l.ID] = &cp
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return fmt.Errorf("delete link: %w", core.ErrNotFound)
	}
	delete(m.links, id)
	return nil
}

func (m *memRepo) IncrementClicks(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return fmt.Errorf("increment clicks: %w", core.ErrNotFound)
	}
	l.ClickCount++
	return nil
}

func (m *memRepo) Totals(ctx context.Context) (int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var clicks int64
	for _, l := range m.links {
		clicks += l.ClickCount
	}
	return len(m.links), clicks, nil
}

type memEvents struct {
	events  []analytics.Event
	deleted []string
	calls   []string
}

func (m *memEvents) ListForLink(ctx context.Context, linkID string, since time.Time) ([]analytics.Event, error) {
	var out []analytics.Event
	for _, e := range m.events {
		if e.LinkID != nil && *e.LinkID == linkID && !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) RecentForLink(ctx context.Context, linkID string, limit int) ([]analytics.Event, error) {
	all, _ := m.ListForLink(ctx, linkID, time.Time{})
	return all[:min(limit, len(all))], nil
}

func (m *memEvents) DeleteForLink(ctx context.Context, linkID string) error {
	m.calls = append(m.calls, "delete-events")
	m.deleted = append(m.deleted, linkID)
	return nil
}

func testLinksConfig() config.LinksConfig {
	return config.LinksConfig{
		BaseURL:         "https://sho.rt",
		CodeLength:      6,
		MaxCodeAttempts: 10,
	}
}

func newTestService() (*Service, *memRepo, *memEvents) {
	repo := newMemRepo()
	events := &memEvents{}
	return NewService(repo, events, testLinksConfig()), repo, events
}
