package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dheeraj-kumar123/portfolio/internal/store"
	"github.com/dheeraj-kumar123/portfolio/types"
)

// ErrInvalidHandle is returned by Save when the handle contains
// characters that cannot survive a URL path segment.
var ErrInvalidHandle = errors.New("invalid handle")

// Handles live in the /public/{handle} path segment, so anything the
// router would split or escape (slashes, spaces, '%', '?', '#') must
// never be stored. Empty stays allowed: it means "no handle yet".
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._~-]*$`)

// PortfolioRepository defines persistence operations for portfolios.
type PortfolioRepository interface {
	GetByOwner(ctx context.Context, userID int) (types.Portfolio, error)
	GetPublished(ctx context.Context, handle string) (types.Portfolio, error)
	Upsert(ctx context.Context, p types.Portfolio) (types.Portfolio, error)
	DeleteByOwner(ctx context.Context, userID int) error
}

// PortfolioService encapsulates the portfolio document contract: one
// document per owner, sparse-unique handles, and published-only public
// visibility. Saves replace the whole document; publishing is just a
// save with Published set.
type PortfolioService struct {
	repo PortfolioRepository
}

func NewPortfolioService(repo PortfolioRepository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

// Save upserts the caller's document. The stored document is exactly
// what was sent, with the owner pinned to userID, the handle trimmed,
// and theme defaults filled in. Handles with URL-unsafe characters are
// rejected with ErrInvalidHandle. A save with Published=true and an
// empty handle is accepted; the document simply stays unreachable by
// handle until one is set.
func (s *PortfolioService) Save(ctx context.Context, userID int, p types.Portfolio) (types.Portfolio, error) {
	p.UserID = userID
	p.Handle = strings.TrimSpace(p.Handle)
	if !handlePattern.MatchString(p.Handle) {
		return types.Portfolio{}, ErrInvalidHandle
	}
	p.Theme = p.Theme.WithDefaults()
	return s.repo.Upsert(ctx, p)
}

// Get returns the caller's own document regardless of its published
// state.
func (s *PortfolioService) Get(ctx context.Context, userID int) (types.Portfolio, error) {
	return s.repo.GetByOwner(ctx, userID)
}

// Delete removes the caller's document. Deleting a document that does
// not exist is not an error.
func (s *PortfolioService) Delete(ctx context.Context, userID int) error {
	if err := s.repo.DeleteByOwner(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// GetPublic returns the published document matching handle. Empty
// handles never match anything.
func (s *PortfolioService) GetPublic(ctx context.Context, handle string) (types.Portfolio, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return types.Portfolio{}, store.ErrNotFound
	}
	return s.repo.GetPublished(ctx, handle)
}
