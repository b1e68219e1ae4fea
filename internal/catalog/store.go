package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/quickview/internal/db"
)

// Store manages persistence of catalog products.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts or replaces a product together with its images,
// attributes and variations.
func (s *Store) Upsert(ctx context.Context, p Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", p.ID)
	}
	if p.Type == "" {
		p.Type = TypeSimple
	}
	if !p.Type.Valid() {
		return fmt.Errorf("product %d: invalid type %q", p.ID, p.Type)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning product upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (id, type, name, slug, sku, price, regular_price, sale_price,
			short_description, description, purchasable, in_stock, has_addons, external_url,
			button_text, menu_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type = excluded.type, name = excluded.name, slug = excluded.slug, sku = excluded.sku,
			price = excluded.price, regular_price = excluded.regular_price, sale_price = excluded.sale_price,
			short_description = excluded.short_description, description = excluded.description,
			purchasable = excluded.purchasable, in_stock = excluded.in_stock, has_addons = excluded.has_addons,
			external_url = excluded.external_url, button_text = excluded.button_text,
			menu_order = excluded.menu_order, updated_at = excluded.updated_at`,
		p.ID, p.Type, p.Name, p.Slug, p.SKU, p.Price, p.RegularPrice, p.SalePrice,
		p.ShortDescription, p.Description, p.Purchasable, p.InStock, p.HasAddons, p.ExternalURL,
		p.ButtonText, p.MenuOrder, now, now,
	)
	if err != nil {
		return fmt.Errorf("writing product %d: %w", p.ID, err)
	}

	for _, table := range []string{"product_images", "product_attributes", "product_variations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE product_id = ?", p.ID); err != nil {
			return fmt.Errorf("clearing %s for product %d: %w", table, p.ID, err)
		}
	}

	for i, img := range p.Images {
		pos := img.Position
		if pos == 0 {
			pos = i
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, src, alt, position) VALUES (?, ?, ?, ?)`,
			p.ID, img.Src, img.Alt, pos,
		); err != nil {
			return fmt.Errorf("writing image for product %d: %w", p.ID, err)
		}
	}

	for i, attr := range p.Attributes {
		opts, err := json.Marshal(attr.Options)
		if err != nil {
			return fmt.Errorf("marshalling attribute %s: %w", attr.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_attributes (product_id, name, options, position) VALUES (?, ?, ?, ?)`,
			p.ID, attr.Name, string(opts), i,
		); err != nil {
			return fmt.Errorf("writing attribute %s for product %d: %w", attr.Name, p.ID, err)
		}
	}

	for _, v := range p.Variations {
		attrs, err := json.Marshal(v.Attributes)
		if err != nil {
			return fmt.Errorf("marshalling variation %d: %w", v.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_variations (id, product_id, attributes, price, image_src, in_stock)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET product_id = excluded.product_id, attributes = excluded.attributes,
				price = excluded.price, image_src = excluded.image_src, in_stock = excluded.in_stock`,
			v.ID, p.ID, string(attrs), v.Price, v.ImageSrc, v.InStock,
		); err != nil {
			return fmt.Errorf("writing variation %d for product %d: %w", v.ID, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing product %d: %w", p.ID, err)
	}
	return nil
}

const productColumns = `id, type, name, slug, sku, price, regular_price, sale_price,
	short_description, description, purchasable, in_stock, has_addons, external_url,
	button_text, menu_order, created_at, updated_at`

// Get retrieves a product by id. It returns nil when no product has id.
func (s *Store) Get(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	if err := s.loadRelations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns products in menu order.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}

	query += " ORDER BY menu_order ASC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	rows.Close()

	for i := range products {
		if err := s.loadRelations(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Count returns the number of products in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

// Delete removes a product. Images, attributes and variations go with it
// through the schema's cascades. It reports whether the product existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting product %d: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) loadRelations(ctx context.Context, p *Product) error {
	if err := s.loadImages(ctx, p); err != nil {
		return err
	}
	if err := s.loadAttributes(ctx, p); err != nil {
		return err
	}
	return s.loadVariations(ctx, p)
}

func (s *Store) loadImages(ctx context.Context, p *Product) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, src, alt, position FROM product_images WHERE product_id = ? ORDER BY position, id`, p.ID)
	if err != nil {
		return fmt.Errorf("loading images for product %d: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.Src, &img.Alt, &img.Position); err != nil {
			return fmt.Errorf("scanning image: %w", err)
		}
		p.Images = append(p.Images, img)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading images for product %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) loadAttributes(ctx context.Context, p *Product) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, options FROM product_attributes WHERE product_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("loading attributes for product %d: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var attr Attribute
		var opts string
		if err := rows.Scan(&attr.Name, &opts); err != nil {
			return fmt.Errorf("scanning attribute: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &attr.Options); err != nil {
			attr.Options = nil
		}
		p.Attributes = append(p.Attributes, attr)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading attributes for product %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) loadVariations(ctx context.Context, p *Product) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attributes, price, image_src, in_stock FROM product_variations WHERE product_id = ? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("loading variations for product %d: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Variation
		var attrs string
		if err := rows.Scan(&v.ID, &attrs, &v.Price, &v.ImageSrc, &v.InStock); err != nil {
			return fmt.Errorf("scanning variation: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &v.Attributes); err != nil {
			v.Attributes = nil
		}
		p.Variations = append(p.Variations, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading variations for product %d: %w", p.ID, err)
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (*Product, error) {
	var p Product
	err := sc.Scan(
		&p.ID, &p.Type, &p.Name, &p.Slug, &p.SKU, &p.Price, &p.RegularPrice, &p.SalePrice,
		&p.ShortDescription, &p.Description, &p.Purchasable, &p.InStock, &p.HasAddons, &p.ExternalURL,
		&p.ButtonText, &p.MenuOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
