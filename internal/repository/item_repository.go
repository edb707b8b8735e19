package repository

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-api/internal/domain"
)

// ItemRepository defines the interface for item data access.
// Listing by category has two strategies with identical results: the plain one
// leaves Item.Category unset, the join-fetch one attaches it from the same query.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListPage(ctx context.Context, page domain.PageRequest) ([]*domain.Item, int64, error)
	ListByCategoryPage(ctx context.Context, categoryID int64, page domain.PageRequest) ([]*domain.Item, int64, error)
	ListByCategoryPageJoinFetch(ctx context.Context, categoryID int64, page domain.PageRequest) ([]*domain.Item, int64, error)
	ResolveCategory(ctx context.Context, item *domain.Item) (*domain.Category, error)
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type itemRepository struct {
	conn
	categories *categoryRepository
}

const itemColumns = `i.id, i.sku, i.name, i.price, i.stock, i.category_id, i.description, i.updated_at`

func itemDest(item *domain.Item, description *sql.NullString) []any {
	return []any{
		&item.ID,
		&item.SKU,
		&item.Name,
		&item.Price,
		&item.Stock,
		&item.CategoryID,
		description,
		timestamp{&item.UpdatedAt},
	}
}

func finishItem(item *domain.Item, description sql.NullString) *domain.Item {
	if description.Valid {
		d := description.String
		item.Description = &d
	}
	return item
}

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	item := &domain.Item{}
	var description sql.NullString
	if err := row.Scan(itemDest(item, &description)...); err != nil {
		return nil, err
	}
	return finishItem(item, description), nil
}

func scanItemWithCategory(row interface{ Scan(...any) error }) (*domain.Item, error) {
	item := &domain.Item{}
	category := &domain.Category{}
	var description sql.NullString

	dest := append(itemDest(item, &description),
		&category.ID,
		&category.Code,
		&category.Name,
		timestamp{&category.UpdatedAt},
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	item.Category = category
	return finishItem(item, description), nil
}

func collectItems(rows *sql.Rows, scan func(interface{ Scan(...any) error }) (*domain.Item, error)) ([]*domain.Item, error) {
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// FindByID returns nil, nil when no item has the id
func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item i WHERE i.id = $1`

	item, err := scanItem(r.queryRow(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return item, nil
}

func (r *itemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.exists(ctx, `SELECT 1 FROM item WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check item: %w", err)
	}
	return ok, nil
}

// ListPage returns one window of all items ordered by id
func (r *itemRepository) ListPage(ctx context.Context, page domain.PageRequest) ([]*domain.Item, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM item`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := `
		SELECT ` + itemColumns + `
		FROM item i
		ORDER BY i.id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	items, err := collectItems(rows, scanItem)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itemRepository) countByCategory(ctx context.Context, categoryID int64) (int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM item WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to count items by category: %w", err)
	}
	return total, nil
}

// ListByCategoryPage reads the item rows alone, filtered on the indexed category_id.
// The owning category is left for ResolveCategory.
func (r *itemRepository) ListByCategoryPage(ctx context.Context, categoryID int64, page domain.PageRequest) ([]*domain.Item, int64, error) {
	total, err := r.countByCategory(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + itemColumns + `
		FROM item i
		WHERE i.category_id = $1
		ORDER BY i.id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.query(ctx, query, categoryID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items by category: %w", err)
	}

	items, err := collectItems(rows, scanItem)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByCategoryPageJoinFetch reads items together with their category in one query
func (r *itemRepository) ListByCategoryPageJoinFetch(ctx context.Context, categoryID int64, page domain.PageRequest) ([]*domain.Item, int64, error) {
	total, err := r.countByCategory(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + itemColumns + `, c.id, c.code, c.name, c.updated_at
		FROM item i
		JOIN category c ON c.id = i.category_id
		WHERE i.category_id = $1
		ORDER BY i.id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.query(ctx, query, categoryID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to join-fetch items by category: %w", err)
	}

	items, err := collectItems(rows, scanItemWithCategory)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ResolveCategory returns the attached category or loads it by CategoryID.
// A loaded category is attached to the item; nil, nil means it no longer exists.
func (r *itemRepository) ResolveCategory(ctx context.Context, item *domain.Item) (*domain.Category, error) {
	if item.Category != nil {
		return item.Category, nil
	}
	if item.CategoryID == 0 {
		return nil, nil
	}

	category, err := r.categories.FindByID(ctx, item.CategoryID)
	if err != nil {
		return nil, err
	}
	item.Category = category
	return category, nil
}

// Create inserts the item and fills in its generated id and timestamp
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO item (sku, name, price, stock, category_id, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now, bindNow := r.stamp()
	err := r.queryRow(ctx, query,
		item.SKU,
		item.Name,
		item.Price,
		item.Stock,
		item.CategoryID,
		item.Description,
		bindNow,
	).Scan(&item.ID)
	if err != nil {
		return classifyWriteError(err, "sku", "create item")
	}
	item.UpdatedAt = now
	return nil
}

// Update replaces every mutable column; false when the row does not exist
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) (bool, error) {
	query := `
		UPDATE item
		SET sku = $2, name = $3, price = $4, stock = $5,
		    category_id = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	now, bindNow := r.stamp()
	result, err := r.exec(ctx, query,
		item.ID,
		item.SKU,
		item.Name,
		item.Price,
		item.Stock,
		item.CategoryID,
		item.Description,
		bindNow,
	)
	if err != nil {
		return false, classifyWriteError(err, "sku", "update item")
	}

	ok, err := r.affected(result)
	if err != nil || !ok {
		return false, err
	}
	item.UpdatedAt = now
	if item.Category != nil && item.Category.ID != item.CategoryID {
		item.Category = nil
	}
	return true, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.exec(ctx, `DELETE FROM item WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	return r.affected(result)
}
