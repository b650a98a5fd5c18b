package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/internal/repository"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
)

// memStore is an in-memory stand-in for the person, attendance and
// subscription repositories with the same uniqueness and cascade rules.
type memStore struct {
	mu     sync.Mutex
	seq    int
	people []models.Person
	marks  []models.AttendanceMark
	subs   map[string]models.PushSubscription

	listErr   error
	listCalls int
	createErr error
	// deleteBarrier holds every DeleteMark caller until all of them have
	// looked up the key, so concurrent toggles all observe an absent mark.
	deleteBarrier *sync.WaitGroup
}

func newMemStore(people ...models.Person) *memStore {
	return &memStore{people: people, subs: make(map[string]models.PushSubscription)}
}

func (m *memStore) hasPerson(id string) bool {
	for _, p := range m.people {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m *memStore) Create(ctx context.Context, person *models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if person.ID == "" {
		m.seq++
		person.ID = fmt.Sprintf("p%d", m.seq)
	}
	m.people = append(m.people, *person)
	return nil
}

func (m *memStore) List(ctx context.Context) ([]models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Person(nil), m.people...), nil
}

func (m *memStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.marks[:0]
	for _, mk := range m.marks {
		if mk.PersonID != id {
			kept = append(kept, mk)
		}
	}
	m.marks = kept
	delete(m.subs, id)
	for i, p := range m.people {
		if p.ID == id {
			m.people = append(m.people[:i], m.people[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertMark(ctx context.Context, mark *models.AttendanceMark) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasPerson(mark.PersonID) {
		return false, fmt.Errorf("insert attendance mark: %w", repository.ErrPersonNotFound)
	}
	for _, mk := range m.marks {
		if mk.Key() == mark.Key() {
			return false, nil
		}
	}
	m.seq++
	mark.ID = fmt.Sprintf("m%d", m.seq)
	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = time.Now()
	}
	m.marks = append(m.marks, *mark)
	return true, nil
}

func (m *memStore) DeleteMark(ctx context.Context, key models.MarkKey) (bool, error) {
	removed := m.deleteMark(key)
	if m.deleteBarrier != nil {
		m.deleteBarrier.Done()
		m.deleteBarrier.Wait()
	}
	return removed, nil
}

func (m *memStore) deleteMark(key models.MarkKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mk := range m.marks {
		if mk.Key() == key {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mk := range m.marks {
		if mk.ID == id {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByWeek(ctx context.Context, weekID string) ([]models.AttendanceMark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AttendanceMark, 0)
	for _, mk := range m.marks {
		if mk.WeekID == weekID {
			out = append(out, mk)
		}
	}
	return out, nil
}

func (m *memStore) PeopleWithoutMarks(ctx context.Context, weekID string) ([]models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	voted := make(map[string]bool)
	for _, mk := range m.marks {
		if mk.WeekID == weekID {
			voted[mk.PersonID] = true
		}
	}
	out := make([]models.Person, 0)
	for _, p := range m.people {
		if !voted[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasPerson(sub.PersonID) {
		return fmt.Errorf("upsert push subscription: %w", repository.ErrPersonNotFound)
	}
	m.subs[sub.PersonID] = *sub
	return nil
}

func (m *memStore) Recipients(ctx context.Context, personIDs []string) ([]models.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Recipient, 0)
	for _, p := range m.people {
		for _, id := range personIDs {
			if p.ID != id {
				continue
			}
			r := models.Recipient{PersonID: p.ID, FirstName: p.FirstName}
			if sub, ok := m.subs[p.ID]; ok {
				cp := sub
				r.Subscription = &cp
			}
			out = append(out, r)
		}
	}
	return out, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.deletes++
	return nil
}
