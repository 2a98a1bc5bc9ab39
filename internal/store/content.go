package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kharelpawan/uaebackend/internal/model"
)

// ---------------------------------------------------------------------------
// Services
// ---------------------------------------------------------------------------

// CreateService inserts a new service. The ID, CreatedAt, and UpdatedAt
// fields on svc are populated after a successful insert.
func (s *Store) CreateService(ctx context.Context, svc *model.Service) error {
	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	const q = `INSERT INTO services
		(title_en, title_ar, description_en, description_ar, icon, is_active, sort_order, created_at, updated_at)
		VALUES
		(:title_en, :title_ar, :description_en, :description_ar, :icon, :is_active, :sort_order, :created_at, :updated_at)`

	id, err := s.insertID(ctx, q, svc)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	svc.ID = id
	return nil
}

// GetService returns a service by ID.
func (s *Store) GetService(ctx context.Context, id int64) (*model.Service, error) {
	var svc model.Service
	q := s.rebind("SELECT * FROM services WHERE id = ?")
	if err := s.db.GetContext(ctx, &svc, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &svc, nil
}

// ListServices returns services ordered for display. When activeOnly is
// set, inactive rows are filtered out (the public site view).
func (s *Store) ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	q := "SELECT * FROM services ORDER BY sort_order ASC, id ASC"
	if activeOnly {
		q = s.rebind("SELECT * FROM services WHERE is_active = ? ORDER BY sort_order ASC, id ASC")
	}

	var services []model.Service
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &services, q, true)
	} else {
		err = s.db.SelectContext(ctx, &services, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// UpdateService replaces the editable fields of an existing service. The
// UpdatedAt field on svc is refreshed automatically.
func (s *Store) UpdateService(ctx context.Context, svc *model.Service) error {
	svc.UpdatedAt = time.Now().UTC()

	const q = `UPDATE services SET
		title_en = :title_en, title_ar = :title_ar,
		description_en = :description_en, description_ar = :description_ar,
		icon = :icon, is_active = :is_active, sort_order = :sort_order,
		updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, svc)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update service rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteService removes a service by ID.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM services WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

// ListPages returns all pages ordered by id.
func (s *Store) ListPages(ctx context.Context) ([]model.Page, error) {
	var pages []model.Page
	if err := s.db.SelectContext(ctx, &pages, "SELECT * FROM pages ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// GetPageBySlug returns a page by its unique slug.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	var page model.Page
	q := s.rebind("SELECT * FROM pages WHERE slug = ?")
	if err := s.db.GetContext(ctx, &page, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return &page, nil
}

// UpdatePage replaces the title and content pairs of the page identified by
// page.Slug. The UpdatedAt field on page is refreshed automatically.
func (s *Store) UpdatePage(ctx context.Context, page *model.Page) error {
	page.UpdatedAt = time.Now().UTC()

	const q = `UPDATE pages SET
		title_en = :title_en, title_ar = :title_ar,
		content_en = :content_en, content_ar = :content_ar,
		updated_at = :updated_at
		WHERE slug = :slug`

	result, err := s.db.NamedExecContext(ctx, q, page)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update page rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Highlights
// ---------------------------------------------------------------------------

// CreateHighlight inserts a new highlight. The ID and CreatedAt fields on
// h are populated after a successful insert.
func (s *Store) CreateHighlight(ctx context.Context, h *model.Highlight) error {
	h.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO highlights (text_en, text_ar, icon, is_active, sort_order, created_at)
		VALUES (:text_en, :text_ar, :icon, :is_active, :sort_order, :created_at)`

	id, err := s.insertID(ctx, q, h)
	if err != nil {
		return fmt.Errorf("insert highlight: %w", err)
	}
	h.ID = id
	return nil
}

// GetHighlight returns a highlight by ID.
func (s *Store) GetHighlight(ctx context.Context, id int64) (*model.Highlight, error) {
	var h model.Highlight
	q := s.rebind("SELECT * FROM highlights WHERE id = ?")
	if err := s.db.GetContext(ctx, &h, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get highlight: %w", err)
	}
	return &h, nil
}

// ListHighlights returns highlights ordered for display. When activeOnly
// is set, inactive rows are filtered out.
func (s *Store) ListHighlights(ctx context.Context, activeOnly bool) ([]model.Highlight, error) {
	var highlights []model.Highlight
	var err error
	if activeOnly {
		q := s.rebind("SELECT * FROM highlights WHERE is_active = ? ORDER BY sort_order ASC, id ASC")
		err = s.db.SelectContext(ctx, &highlights, q, true)
	} else {
		err = s.db.SelectContext(ctx, &highlights, "SELECT * FROM highlights ORDER BY sort_order ASC, id ASC")
	}
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	return highlights, nil
}

// UpdateHighlight replaces the editable fields of an existing highlight.
func (s *Store) UpdateHighlight(ctx context.Context, h *model.Highlight) error {
	const q = `UPDATE highlights SET
		text_en = :text_en, text_ar = :text_ar, icon = :icon,
		is_active = :is_active, sort_order = :sort_order
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, h)
	if err != nil {
		return fmt.Errorf("update highlight: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update highlight rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHighlight removes a highlight by ID.
func (s *Store) DeleteHighlight(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM highlights WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete highlight rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
