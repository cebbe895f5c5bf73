package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/google/uuid"
)

type UserQueries struct {
	DB *sql.DB
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	user := models.User{}
	query := `SELECT id, first_name, last_name, user_role, email, phone, avatar, password_hash, verified, created_at, updated_at
			  FROM users WHERE id = $1`
	var lastName, phone, avatar sql.NullString
	err := q.DB.QueryRow(query, id).Scan(
		&user.ID,
		&user.FirstName,
		&lastName,
		&user.UserRole,
		&user.Email,
		&phone,
		&avatar,
		&user.PasswordHash,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, errors.New("user not found")
		}
		return user, fmt.Errorf("unable to get user: %w", err)
	}
	user.LastName = lastName.String
	user.Phone = phone.String
	user.Avatar = avatar.String
	return user, nil
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	user := models.User{}
	query := `SELECT id, first_name, last_name, user_role, email, password_hash, verified, created_at, updated_at
			  FROM users WHERE email = $1`
	var lastName sql.NullString
	err := q.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.FirstName,
		&lastName,
		&user.UserRole,
		&user.Email,
		&user.PasswordHash,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, errors.New("user not found")
		}
		return user, fmt.Errorf("unable to get user: %w", err)
	}
	user.LastName = lastName.String
	return user, nil
}

func (q *UserQueries) CreateUser(u *models.User) error {
	query := `INSERT INTO users (id, first_name, last_name, user_role, email, password_hash, phone, avatar, verified, otp, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := q.DB.Exec(query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.UserRole,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Avatar,
		u.Verified,
		u.OTP,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("unable to create user: %w", err)
	}
	return nil
}

func (q *UserQueries) VerifyOTPByEmail(email string, otp string) error {
	query := `UPDATE users SET verified = TRUE, updated_at = now() WHERE email = $1 AND otp = $2 AND verified = FALSE`
	res, err := q.DB.Exec(query, email, otp)
	if err != nil {
		return fmt.Errorf("unable to verify OTP: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("invalid otp or already verified")
	}
	return nil
}

func (q *UserQueries) UpdateOTPByEmail(email string, otp string) error {
	query := `UPDATE users SET otp = $1, updated_at = now() WHERE email = $2`
	res, err := q.DB.Exec(query, otp, email)
	if err != nil {
		return fmt.Errorf("unable to update otp: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("no user updated")
	}
	return nil
}
