package repos

import (
	"github.com/jmoiron/sqlx"

	"invtrack/internal/domain"
)

// ActorRepo resolves acting identities for audit rows. Authentication and
// sessions live outside this service; callers hand us an already-resolved
// actor id.
type ActorRepo struct{ db *sqlx.DB }

func NewActorRepo(db *sqlx.DB) *ActorRepo { return &ActorRepo{db: db} }

func (r *ActorRepo) Get(id string) (domain.Actor, error) {
	var a domain.Actor
	err := r.db.Get(&a, `SELECT id, username, name, role FROM actors WHERE id = ?`, id)
	return a, err
}

func (r *ActorRepo) GetByUsername(username string) (domain.Actor, error) {
	var a domain.Actor
	err := r.db.Get(&a, `SELECT id, username, name, role FROM actors WHERE username = ?`, username)
	return a, err
}

func (r *ActorRepo) List() ([]domain.Actor, error) {
	var out []domain.Actor
	err := r.db.Select(&out, `SELECT id, username, name, role FROM actors ORDER BY username`)
	return out, err
}
