package stores

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avagner/authcore/password"
)

// UserRecord is the persisted identity row.
type UserRecord struct {
	Email             string
	PasswordHash      string
	RequiresTwoFactor bool
}

type userRow struct {
	Email             string `gorm:"column:email;primaryKey"`
	PasswordHash      string `gorm:"column:password_hash;not null"`
	RequiresTwoFactor bool   `gorm:"column:requires_2fa;not null"`
}

func (userRow) TableName() string { return "users" }

// PostgresUserStore keeps identity records in a SQL table with the email
// as primary key, so uniqueness is enforced by the database at insert
// time. Password hashing runs through the shared bounded pool.
type PostgresUserStore struct {
	db        *gorm.DB
	passwords *password.Pool
}

func NewPostgresUserStore(db *gorm.DB, passwords *password.Pool) (*PostgresUserStore, error) {
	if db == nil {
		return nil, errors.New("db required")
	}
	if passwords == nil {
		return nil, errors.New("password pool required")
	}
	return &PostgresUserStore{db: db, passwords: passwords}, nil
}

// Migrate creates or updates the users table.
func (s *PostgresUserStore) Migrate() error {
	return s.db.AutoMigrate(&userRow{})
}

// Add hashes secret and inserts the row. A primary-key conflict maps to
// [ErrDuplicate]; the insert itself is the uniqueness check, there is no
// read-then-write race.
func (s *PostgresUserStore) Add(ctx context.Context, email, secret string, requiresTwoFactor bool) error {
	hash, err := s.passwords.Hash(ctx, secret)
	if err != nil {
		return err
	}

	row := userRow{
		Email:             email,
		PasswordHash:      hash,
		RequiresTwoFactor: requiresTwoFactor,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// Get returns the record for email or [ErrNotFound].
func (s *PostgresUserStore) Get(ctx context.Context, email string) (UserRecord, error) {
	var row userRow
	err := s.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return UserRecord{
		Email:             row.Email,
		PasswordHash:      row.PasswordHash,
		RequiresTwoFactor: row.RequiresTwoFactor,
	}, nil
}

// Validate verifies candidate against the stored hash. It returns
// [ErrNotFound] for an unknown email and [ErrSecretMismatch] for a wrong
// secret; the caller collapses both before they reach an API response.
func (s *PostgresUserStore) Validate(ctx context.Context, email, candidate string) error {
	record, err := s.Get(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.passwords.Verify(ctx, candidate, record.PasswordHash)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if !ok {
		return ErrSecretMismatch
	}
	return nil
}

// Delete removes the record for email or returns [ErrNotFound].
func (s *PostgresUserStore) Delete(ctx context.Context, email string) error {
	res := s.db.WithContext(ctx).Delete(&userRow{}, "email = ?", email)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrBackend, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
