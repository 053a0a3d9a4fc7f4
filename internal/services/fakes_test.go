package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"gamecatalog/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeTagRepo is an in-memory TagRepository for tests.
type fakeTagRepo struct {
	byID   map[int64]*domain.Tag
	nextID int64
	err    error // if set, every method returns this error
}

func newFakeTagRepo(tags ...*domain.Tag) *fakeTagRepo {
	f := &fakeTagRepo{byID: make(map[int64]*domain.Tag), nextID: 1}
	for _, t := range tags {
		f.byID[t.ID] = t
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *fakeTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Name, t.Name) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTag, t.Name)
		}
	}
	t.ID = f.nextID
	f.nextID++
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTagRepo) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.NewNotFound(domain.KindTag, id)
}

func (f *fakeTagRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Tag{}
	for _, id := range ids {
		if t, ok := f.byID[id]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTagRepo) List(ctx context.Context) ([]*domain.Tag, error) {
	return f.FindByPrefix(ctx, "")
}

func (f *fakeTagRepo) FindByPrefix(ctx context.Context, prefix string) ([]*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Tag{}
	for _, t := range f.byID {
		if strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(prefix)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NewNotFound(domain.KindTag, id)
	}
	delete(f.byID, id)
	return nil
}

// fakeGameRepo is an in-memory GameRepository for tests. Tags are resolved through tags.
type fakeGameRepo struct {
	byID        map[int64]*domain.Game
	tagIDs      map[int64][]int64
	tags        *fakeTagRepo
	nextID      int64
	err         error
	addTagCalls int
}

func newFakeGameRepo(tags *fakeTagRepo) *fakeGameRepo {
	return &fakeGameRepo{
		byID:   make(map[int64]*domain.Game),
		tagIDs: make(map[int64][]int64),
		tags:   tags,
		nextID: 1,
	}
}

// seed stores a game with the given id, title and tag ids.
func (f *fakeGameRepo) seed(id int64, title string, tagIDs ...int64) {
	f.byID[id] = &domain.Game{ID: id, Title: title}
	f.tagIDs[id] = tagIDs
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

func (f *fakeGameRepo) load(id int64) *domain.Game {
	g := *f.byID[id]
	g.Tags = []*domain.Tag{}
	for _, tid := range f.tagIDs[id] {
		if t, ok := f.tags.byID[tid]; ok {
			g.Tags = append(g.Tags, t)
		}
	}
	return &g
}

func (f *fakeGameRepo) Create(ctx context.Context, g *domain.Game) error {
	if f.err != nil {
		return f.err
	}
	g.ID = f.nextID
	f.nextID++
	stored := *g
	f.byID[g.ID] = &stored
	f.tagIDs[g.ID] = g.TagIDs()
	return nil
}

func (f *fakeGameRepo) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byID[id]; !ok {
		return nil, domain.NewNotFound(domain.KindGame, id)
	}
	return f.load(id), nil
}

func (f *fakeGameRepo) Update(ctx context.Context, g *domain.Game) error {
	if _, ok := f.byID[g.ID]; !ok {
		return domain.NewNotFound(domain.KindGame, g.ID)
	}
	stored := *g
	f.byID[g.ID] = &stored
	f.tagIDs[g.ID] = g.TagIDs()
	return nil
}

func (f *fakeGameRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NewNotFound(domain.KindGame, id)
	}
	delete(f.byID, id)
	delete(f.tagIDs, id)
	return nil
}

func (f *fakeGameRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeGameRepo) hasTag(id, tagID int64) bool {
	for _, t := range f.tagIDs[id] {
		if t == tagID {
			return true
		}
	}
	return false
}

func (f *fakeGameRepo) Search(ctx context.Context, filter domain.GameFilter, p domain.PaginationParams) ([]*domain.Game, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*domain.Game
	for _, id := range f.sortedIDs() {
		g := f.byID[id]
		if filter.Title != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.TagID != nil && !f.hasTag(id, *filter.TagID) {
			continue
		}
		matched = append(matched, f.load(id))
	}
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (f *fakeGameRepo) ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*domain.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Game{}
	for _, id := range f.sortedIDs() {
		for _, tid := range tagIDs {
			if f.hasTag(id, tid) {
				out = append(out, f.load(id))
				break
			}
		}
	}
	return out, nil
}

func (f *fakeGameRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Game, error) {
	out := []*domain.Game{}
	for _, id := range f.sortedIDs() {
		for _, want := range ids {
			if id == want {
				out = append(out, f.load(id))
			}
		}
	}
	return out, nil
}

func (f *fakeGameRepo) AddTag(ctx context.Context, gameID, tagID int64) error {
	f.addTagCalls++
	if !f.hasTag(gameID, tagID) {
		f.tagIDs[gameID] = append(f.tagIDs[gameID], tagID)
	}
	return nil
}

func (f *fakeGameRepo) RemoveTag(ctx context.Context, gameID, tagID int64) error {
	kept := f.tagIDs[gameID][:0]
	for _, t := range f.tagIDs[gameID] {
		if t != tagID {
			kept = append(kept, t)
		}
	}
	f.tagIDs[gameID] = kept
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[int64]*domain.User
	nextID int64
	err    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 1}
	for _, u := range users {
		f.byID[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.NewNotFound(domain.KindUser, username)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.NewNotFound(domain.KindUser, id)
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, username, role string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			u.Role = role
			return u, nil
		}
	}
	return nil, domain.NewNotFound(domain.KindUser, username)
}

type favoriteKey struct {
	kind     domain.FavoriteKind
	userID   int64
	targetID int64
}

// fakeFavoriteRepo is an in-memory FavoriteRepository. Toggles on the same key are
// serialized by a per-key mutex, mirroring the store's advisory lock; records counts
// live records per key so tests can check that a key never holds more than one record.
type fakeFavoriteRepo struct {
	mu        sync.Mutex
	keyLocks  map[favoriteKey]*sync.Mutex
	records   map[favoriteKey]int
	conflicts int // number of upcoming Toggle calls that fail with ErrConflict
	calls     int
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{
		keyLocks: make(map[favoriteKey]*sync.Mutex),
		records:  make(map[favoriteKey]int),
	}
}

func (f *fakeFavoriteRepo) lockFor(k favoriteKey) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.keyLocks[k]
	if !ok {
		l = &sync.Mutex{}
		f.keyLocks[k] = l
	}
	return l
}

func (f *fakeFavoriteRepo) Toggle(ctx context.Context, kind domain.FavoriteKind, userID, targetID int64) (bool, error) {
	f.mu.Lock()
	f.calls++
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return false, fmt.Errorf("%w: serialization failure", domain.ErrConflict)
	}
	f.mu.Unlock()

	k := favoriteKey{kind: kind, userID: userID, targetID: targetID}
	l := f.lockFor(k)
	l.Lock()
	defer l.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[k] > 0 {
		f.records[k]--
		return false, nil
	}
	f.records[k]++
	return true, nil
}

func (f *fakeFavoriteRepo) ListTargetIDs(ctx context.Context, kind domain.FavoriteKind, userID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []int64{}
	for k, n := range f.records {
		if k.kind == kind && k.userID == userID && n > 0 {
			ids = append(ids, k.targetID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeFavoriteRepo) count(kind domain.FavoriteKind, userID, targetID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[favoriteKey{kind: kind, userID: userID, targetID: targetID}]
}

// catalogFixture seeds tags {1 RPG, 2 Souls-like} and games {1 Dark Souls [1], 2 Elden Ring [1,2], 3 Stardew Valley []}.
func catalogFixture() (*fakeTagRepo, *fakeGameRepo) {
	tags := newFakeTagRepo(&domain.Tag{ID: 1, Name: "RPG"}, &domain.Tag{ID: 2, Name: "Souls-like"})
	games := newFakeGameRepo(tags)
	games.seed(1, "Dark Souls", 1)
	games.seed(2, "Elden Ring", 1, 2)
	games.seed(3, "Stardew Valley")
	return tags, games
}
