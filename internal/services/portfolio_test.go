package services

import (
	"context"
	"testing"

	"github.com/dheeraj-kumar123/portfolio/internal/store"
	"github.com/dheeraj-kumar123/portfolio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

// fakePortfolioRepo mimics the store contract in memory: one row per
// owner, sparse-unique handles, atomic reject on collision.
type fakePortfolioRepo struct {
	docs   map[int]types.Portfolio
	nextID int
}

var _ PortfolioRepository = (*fakePortfolioRepo)(nil)

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{docs: make(map[int]types.Portfolio)}
}

func (f *fakePortfolioRepo) GetByOwner(ctx context.Context, userID int) (types.Portfolio, error) {
	doc, ok := f.docs[userID]
	if !ok {
		return types.Portfolio{}, store.ErrNotFound
	}
	return doc, nil
}

func (f *fakePortfolioRepo) GetPublished(ctx context.Context, handle string) (types.Portfolio, error) {
	for _, doc := range f.docs {
		if doc.Handle == handle && doc.Published {
			return doc, nil
		}
	}
	return types.Portfolio{}, store.ErrNotFound
}

func (f *fakePortfolioRepo) Upsert(ctx context.Context, p types.Portfolio) (types.Portfolio, error) {
	if p.Handle != "" {
		for owner, doc := range f.docs {
			if owner != p.UserID && doc.Handle == p.Handle {
				return types.Portfolio{}, store.ErrHandleTaken
			}
		}
	}
	if existing, ok := f.docs[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		p.ID = f.nextID
	}
	f.docs[p.UserID] = p
	return p, nil
}

func (f *fakePortfolioRepo) DeleteByOwner(ctx context.Context, userID int) error {
	if _, ok := f.docs[userID]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, userID)
	return nil
}

// -------- tests --------

func TestSaveThenGetRoundTripsSkillOrder(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	skills := []types.Skill{
		{Name: "Go", Level: 80},
		{Name: "Postgres", Level: 70},
		{Name: "Docker", Level: 60},
	}
	_, err := svc.Save(ctx, 1, types.Portfolio{Handle: "deb", Skills: skills})
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, skills, got.Skills)
}

func TestSaveIsIdempotent(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewPortfolioService(repo)
	ctx := context.Background()

	doc := types.Portfolio{Handle: "deb", Skills: []types.Skill{{Name: "Go", Level: 80}}}
	first, err := svc.Save(ctx, 1, doc)
	require.NoError(t, err)
	second, err := svc.Save(ctx, 1, doc)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.docs, 1)
}

func TestSaveAppliesThemeDefaults(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())

	saved, err := svc.Save(context.Background(), 1, types.Portfolio{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTemplate, saved.Theme.Template)
	assert.Equal(t, types.DefaultPrimaryColor, saved.Theme.PrimaryColor)
	assert.Equal(t, types.DefaultFont, saved.Theme.Font)
}

func TestSaveKeepsExplicitTheme(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())

	saved, err := svc.Save(context.Background(), 1, types.Portfolio{
		Theme: types.Theme{Template: types.TemplateCreative, PrimaryColor: "#123456", Font: "Lora"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.TemplateCreative, saved.Theme.Template)
	assert.Equal(t, "#123456", saved.Theme.PrimaryColor)
	assert.Equal(t, "Lora", saved.Theme.Font)
}

func TestSavePinsOwner(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())

	// A payload cannot claim someone else's ownership: the token side
	// always wins.
	saved, err := svc.Save(context.Background(), 5, types.Portfolio{UserID: 99})
	require.NoError(t, err)
	assert.Equal(t, 5, saved.UserID)
}

func TestHandleConflictLeavesVictimUnchanged(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	original, err := svc.Save(ctx, 1, types.Portfolio{
		Handle: "alice",
		Skills: []types.Skill{{Name: "Go", Level: 80}},
	})
	require.NoError(t, err)

	_, err = svc.Save(ctx, 2, types.Portfolio{Handle: "alice"})
	assert.ErrorIs(t, err, store.ErrHandleTaken)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound, "losing save must write nothing")
}

func TestPublishFlipControlsPublicVisibility(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	doc := types.Portfolio{Handle: "deb", Skills: []types.Skill{{Name: "Go", Level: 80}}}
	_, err := svc.Save(ctx, 1, doc)
	require.NoError(t, err)

	_, err = svc.GetPublic(ctx, "deb")
	assert.ErrorIs(t, err, store.ErrNotFound, "unpublished document must stay hidden")

	doc.Published = true
	_, err = svc.Save(ctx, 1, doc)
	require.NoError(t, err)

	got, err := svc.GetPublic(ctx, "deb")
	require.NoError(t, err)
	assert.Equal(t, 80, got.Skills[0].Level)
}

func TestSaveRejectsURLUnsafeHandles(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewPortfolioService(repo)
	ctx := context.Background()

	// A handle with a slash (or other reserved characters) would be
	// stored fine but could never match the public route segment, so
	// the save is rejected up front.
	for _, handle := range []string{"deb/dev", "deb dev", "deb%20", "deb?x", "deb#1"} {
		_, err := svc.Save(ctx, 1, types.Portfolio{Handle: handle})
		assert.ErrorIs(t, err, ErrInvalidHandle, "handle %q", handle)
	}
	assert.Empty(t, repo.docs, "rejected saves must write nothing")

	for _, handle := range []string{"deb", "deb-dev", "deb_dev", "deb.dev", "Deb42", ""} {
		_, err := svc.Save(ctx, 1, types.Portfolio{Handle: handle})
		assert.NoError(t, err, "handle %q", handle)
	}
}

func TestSavePublishedWithoutHandle(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	// The save is accepted; the document is just unreachable by handle.
	saved, err := svc.Save(ctx, 1, types.Portfolio{Published: true})
	require.NoError(t, err)
	assert.True(t, saved.Published)

	_, err = svc.GetPublic(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, types.Portfolio{Handle: "deb"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))
	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, 1), "second delete must not error")
}

func TestDeleteFreesHandleForReuse(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, types.Portfolio{Handle: "alice"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1))

	_, err = svc.Save(ctx, 2, types.Portfolio{Handle: "alice"})
	assert.NoError(t, err)
}

func TestOwnerIsolation(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, types.Portfolio{Handle: "alice", PersonalInfo: types.PersonalInfo{Name: "Alice"}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, 2, types.Portfolio{Handle: "bob", PersonalInfo: types.PersonalInfo{Name: "Bob"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))

	got, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.PersonalInfo.Name)
}

func TestGetPublicTrimsHandle(t *testing.T) {
	svc := NewPortfolioService(newFakePortfolioRepo())
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, types.Portfolio{Handle: "deb", Published: true})
	require.NoError(t, err)

	got, err := svc.GetPublic(ctx, "  deb ")
	require.NoError(t, err)
	assert.Equal(t, "deb", got.Handle)
}
