package repository

import (
	"shopwise-web/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE email = ? LIMIT 1"
	if err := r.db.Get(&user, query, email); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE id = ? LIMIT 1"
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Create assigns the owner uuid and stores the user.
func (r *UserRepository) Create(user *models.User) error {
	user.ID = uuid.NewString()
	query := `INSERT INTO users (id, email, full_name, password, role, is_active)
	          VALUES (:id, :email, :full_name, :password, :role, :is_active)`
	_, err := r.db.NamedExec(query, user)
	return err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM users WHERE email = ?", email); err != nil {
		return false, err
	}
	return count > 0, nil
}
