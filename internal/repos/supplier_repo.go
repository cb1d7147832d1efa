package repos

import (
	"github.com/jmoiron/sqlx"

	"invtrack/internal/domain"
)

type SupplierRepo struct{ db *sqlx.DB }

func NewSupplierRepo(db *sqlx.DB) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) List() ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := r.db.Select(&out, `SELECT id, name, COALESCE(contact,'') AS contact, created_at FROM suppliers ORDER BY name`)
	return out, err
}

func (r *SupplierRepo) Get(id string) (domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.Get(&s, `SELECT id, name, COALESCE(contact,'') AS contact, created_at FROM suppliers WHERE id = ?`, id)
	return s, err
}

func (r *SupplierRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM suppliers`)
	return n, err
}
