package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dheeraj-kumar123/portfolio/types"
)

const portfoliosHandleConstraint = "portfolios_handle_key"

// PortfolioRepository handles persistence for portfolio documents.
// Each user owns at most one row, keyed by user_id.
type PortfolioRepository struct {
	db *sql.DB
}

func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `id, user_id, handle, personal_info, skills, projects, education, experience, contact, theme, published, created_at, updated_at`

// GetByOwner returns the owner's portfolio regardless of its published
// state, or ErrNotFound if the user never saved one.
func (r *PortfolioRepository) GetByOwner(ctx context.Context, userID int) (types.Portfolio, error) {
	const query = `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE user_id = $1`
	return r.scanPortfolio(r.db.QueryRowContext(ctx, query, userID))
}

// GetPublished returns the portfolio matching handle, but only when it
// is published. Unpublished documents are invisible here even with the
// correct handle.
func (r *PortfolioRepository) GetPublished(ctx context.Context, handle string) (types.Portfolio, error) {
	const query = `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE handle = $1 AND published = TRUE`
	return r.scanPortfolio(r.db.QueryRowContext(ctx, query, handle))
}

// Upsert replaces the owner's document wholesale, creating it on first
// save. The whole write is a single statement: a handle collision with
// another owner's row trips the partial unique index and nothing is
// persisted.
func (r *PortfolioRepository) Upsert(ctx context.Context, p types.Portfolio) (types.Portfolio, error) {
	now := time.Now()
	p.UpdatedAt = now

	sections, err := marshalSections(p)
	if err != nil {
		return types.Portfolio{}, err
	}

	const query = `
		INSERT INTO portfolios (user_id, handle, personal_info, skills, projects, education, experience, contact, theme, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			personal_info = EXCLUDED.personal_info,
			skills = EXCLUDED.skills,
			projects = EXCLUDED.projects,
			education = EXCLUDED.education,
			experience = EXCLUDED.experience,
			contact = EXCLUDED.contact,
			theme = EXCLUDED.theme,
			published = EXCLUDED.published,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		p.UserID,
		p.Handle,
		sections.personalInfo,
		sections.skills,
		sections.projects,
		sections.education,
		sections.experience,
		sections.contact,
		sections.theme,
		p.Published,
		now,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		if isUniqueViolation(err, portfoliosHandleConstraint) {
			return types.Portfolio{}, ErrHandleTaken
		}
		return types.Portfolio{}, err
	}
	return p, nil
}

// DeleteByOwner removes the owner's portfolio row entirely, freeing its
// handle for reuse.
func (r *PortfolioRepository) DeleteByOwner(ctx context.Context, userID int) error {
	const query = `DELETE FROM portfolios WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type sectionJSON struct {
	personalInfo []byte
	skills       []byte
	projects     []byte
	education    []byte
	experience   []byte
	contact      []byte
	theme        []byte
}

func marshalSections(p types.Portfolio) (sectionJSON, error) {
	var s sectionJSON
	var err error
	if s.personalInfo, err = json.Marshal(p.PersonalInfo); err != nil {
		return sectionJSON{}, err
	}
	if s.skills, err = json.Marshal(emptySlice(p.Skills)); err != nil {
		return sectionJSON{}, err
	}
	if s.projects, err = json.Marshal(emptySlice(p.Projects)); err != nil {
		return sectionJSON{}, err
	}
	if s.education, err = json.Marshal(emptySlice(p.Education)); err != nil {
		return sectionJSON{}, err
	}
	if s.experience, err = json.Marshal(emptySlice(p.Experience)); err != nil {
		return sectionJSON{}, err
	}
	if s.contact, err = json.Marshal(p.Contact); err != nil {
		return sectionJSON{}, err
	}
	if s.theme, err = json.Marshal(p.Theme); err != nil {
		return sectionJSON{}, err
	}
	return s, nil
}

// emptySlice keeps nil slices stored as [] so the JSON columns never
// hold null and reads round-trip to empty arrays.
func emptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *PortfolioRepository) scanPortfolio(row *sql.Row) (types.Portfolio, error) {
	var p types.Portfolio
	var personalInfoJSON, skillsJSON, projectsJSON, educationJSON, experienceJSON, contactJSON, themeJSON []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Handle,
		&personalInfoJSON,
		&skillsJSON,
		&projectsJSON,
		&educationJSON,
		&experienceJSON,
		&contactJSON,
		&themeJSON,
		&p.Published,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Portfolio{}, ErrNotFound
		}
		return types.Portfolio{}, err
	}

	_ = json.Unmarshal(personalInfoJSON, &p.PersonalInfo)
	_ = json.Unmarshal(skillsJSON, &p.Skills)
	_ = json.Unmarshal(projectsJSON, &p.Projects)
	_ = json.Unmarshal(educationJSON, &p.Education)
	_ = json.Unmarshal(experienceJSON, &p.Experience)
	_ = json.Unmarshal(contactJSON, &p.Contact)
	_ = json.Unmarshal(themeJSON, &p.Theme)
	return p, nil
}
