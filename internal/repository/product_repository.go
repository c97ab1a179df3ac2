package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shopwise-web/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// statusExpr derives the display status in SQL so listings can filter on it.
// It must stay in line with service.Status.
const statusExpr = `CASE
	WHEN status IS NOT NULL AND status <> '' THEN status
	WHEN min_stock_level IS NOT NULL AND current_stock <= min_stock_level THEN 'low_stock'
	WHEN max_stock_level IS NOT NULL AND current_stock >= max_stock_level THEN 'overstock'
	ELSE 'healthy' END`

const productColumns = `id, user_id, product_id, name, category, unit_price, cost_price,
	current_stock, min_stock_level, max_stock_level, status, anomaly, dead_stock, created_at, updated_at`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListProductIDs returns the business keys the owner already has.
func (r *ProductRepository) ListProductIDs(ctx context.Context, owner string) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT product_id FROM products WHERE user_id = ?", owner); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// InsertProduct stores a new product. A product_id the owner already has
// returns ErrDuplicateProduct.
func (r *ProductRepository) InsertProduct(ctx context.Context, owner string, p *models.Product) error {
	p.ID = uuid.NewString()
	p.UserID = owner

	query := `INSERT INTO products (id, user_id, product_id, name, category, unit_price, cost_price,
	          current_stock, min_stock_level, max_stock_level, status, anomaly, dead_stock)
	          VALUES (:id, :user_id, :product_id, :name, :category, :unit_price, :cost_price,
	          :current_stock, :min_stock_level, :max_stock_level, :status, :anomaly, :dead_stock)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateProduct
		}
		return err
	}
	return nil
}

// UpdateProduct overwrites the imported columns of (owner, productID). Status
// and the anomaly and dead stock flags are left as they are.
func (r *ProductRepository) UpdateProduct(ctx context.Context, owner, productID string, p *models.Product) error {
	query := `UPDATE products SET name = ?, category = ?, unit_price = ?, cost_price = ?,
	          current_stock = ?, min_stock_level = ?, max_stock_level = ?
	          WHERE user_id = ? AND product_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Category, p.UnitPrice, p.CostPrice,
		p.CurrentStock, p.MinStockLevel, p.MaxStockLevel,
		owner, productID,
	)
	if err != nil {
		return err
	}
	return requireAffected(ctx, r.db, result, "SELECT COUNT(*) FROM products WHERE user_id = ? AND product_id = ?", owner, productID)
}

func (r *ProductRepository) FindByID(ctx context.Context, owner, id string) (*models.Product, error) {
	var p models.Product
	query := "SELECT " + productColumns + " FROM products WHERE user_id = ? AND id = ? LIMIT 1"
	if err := r.db.GetContext(ctx, &p, query, owner, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll returns every product of the owner by name.
func (r *ProductRepository) FindAll(ctx context.Context, owner string) ([]models.Product, error) {
	products := []models.Product{}
	query := "SELECT " + productColumns + " FROM products WHERE user_id = ? ORDER BY name ASC"
	if err := r.db.SelectContext(ctx, &products, query, owner); err != nil {
		return nil, err
	}
	return products, nil
}

// List returns one page of the owner's products and the filtered total.
func (r *ProductRepository) List(ctx context.Context, owner string, filter models.ProductFilter) ([]models.Product, int64, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{owner}

	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR category LIKE ? OR product_id LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "("+statusExpr+") = ?")
		args = append(args, filter.Status)
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products"+whereClause, args...); err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	query := "SELECT " + productColumns + " FROM products" + whereClause + " ORDER BY created_at DESC, name ASC LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &products, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update saves a manual edit of every column.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `UPDATE products SET product_id = :product_id, name = :name, category = :category,
	          unit_price = :unit_price, cost_price = :cost_price, current_stock = :current_stock,
	          min_stock_level = :min_stock_level, max_stock_level = :max_stock_level,
	          status = :status, anomaly = :anomaly, dead_stock = :dead_stock
	          WHERE id = :id AND user_id = :user_id`
	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateProduct
		}
		return err
	}
	return requireAffected(ctx, r.db, result, "SELECT COUNT(*) FROM products WHERE user_id = ? AND id = ?", p.UserID, p.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, owner, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE user_id = ? AND id = ?", owner, id)
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

// Categories returns the owner's distinct categories.
func (r *ProductRepository) Categories(ctx context.Context, owner string) ([]string, error) {
	categories := []string{}
	query := "SELECT DISTINCT category FROM products WHERE user_id = ? AND category IS NOT NULL AND category <> '' ORDER BY category"
	if err := r.db.SelectContext(ctx, &categories, query, owner); err != nil {
		return nil, err
	}
	return categories, nil
}

// requireAffected maps a zero row update to ErrNotFound. MySQL reports zero
// affected rows when nothing changed, so existence is checked separately.
func requireAffected(ctx context.Context, db *sqlx.DB, result sql.Result, existsQuery string, args ...interface{}) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var count int
	if err := db.GetContext(ctx, &count, existsQuery, args...); err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
