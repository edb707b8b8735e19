package repository

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-api/internal/domain"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListPage(ctx context.Context, page domain.PageRequest) ([]*domain.Category, int64, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type categoryRepository struct {
	conn
}

const categoryColumns = `id, code, name, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	category := &domain.Category{}
	err := row.Scan(
		&category.ID,
		&category.Code,
		&category.Name,
		timestamp{&category.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID returns nil, nil when no category has the id
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1`

	category, err := scanCategory(r.queryRow(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.exists(ctx, `SELECT 1 FROM category WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return ok, nil
}

// ListPage returns one window of categories ordered by id and the total row count
func (r *categoryRepository) ListPage(ctx context.Context, page domain.PageRequest) ([]*domain.Category, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM category`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM category
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}

// Create inserts the category and fills in its generated id and timestamp
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO category (code, name, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	now, bindNow := r.stamp()
	err := r.queryRow(ctx, query, category.Code, category.Name, bindNow).Scan(&category.ID)
	if err != nil {
		return classifyWriteError(err, "code", "create category")
	}
	category.UpdatedAt = now
	return nil
}

// Update replaces code and name; false when the row does not exist
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (bool, error) {
	query := `
		UPDATE category
		SET code = $2, name = $3, updated_at = $4
		WHERE id = $1
	`

	now, bindNow := r.stamp()
	result, err := r.exec(ctx, query, category.ID, category.Code, category.Name, bindNow)
	if err != nil {
		return false, classifyWriteError(err, "code", "update category")
	}

	ok, err := r.affected(result)
	if err != nil || !ok {
		return false, err
	}
	category.UpdatedAt = now
	return true, nil
}

// Delete removes the category; its items go with it through the cascading foreign key
func (r *categoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return r.affected(result)
}
