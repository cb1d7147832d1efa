package repos

import (
	"github.com/jmoiron/sqlx"

	"invtrack/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id, name, created_at FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM categories`)
	return n, err
}

// CountsByName maps category name to its active product count, for the
// dashboard distribution view.
func (r *CategoryRepo) CountsByName() (map[string]int, error) {
	var rows []struct {
		Name string `db:"name"`
		N    int    `db:"n"`
	}
	err := r.db.Select(&rows, `
		SELECT c.name AS name, COUNT(p.id) AS n
		FROM categories c
		JOIN products p ON p.category_id = c.id AND p.status = 'ACTIVE'
		GROUP BY c.name
	`)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Name] = row.N
	}
	return out, nil
}
