package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/utils"
)

// UserRepo persists user records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,contact,country,dob,gender,profile_picture,device_token,otp,otp_expires_at,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u      model.User
		otp    sql.NullString
		otpExp sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Contact, &u.Country, &u.DOB, &u.Gender, &u.ProfilePicture,
		&u.DeviceToken, &otp, &otpExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if otp.Valid {
		u.OTP = &otp.String
	}
	if otpExp.Valid {
		t := otpExp.Time
		u.OTPExpiresAt = &t
	}
	return u, nil
}

// Create hashes the password and inserts a new user, returning its ID.
// The caller controls the role; client input never reaches this parameter
// directly.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = utils.NormalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		// 1062 = MySQL duplicate key, the unique index on email
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = utils.NormalizeEmail(email)
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ProfilePatch carries the mutable profile fields of an update.  Picture is
// applied only when non-empty so an update without a new image keeps the
// existing reference.
type ProfilePatch struct {
	Name    string
	Contact string
	Country string
	DOB     string
	Gender  string
	Picture string
}

// UpdateProfile overwrites the mutable profile fields and returns the
// updated record.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfilePatch) (model.User, error) {
	var err error
	if p.Picture != "" {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, contact=?, country=?, dob=?, gender=?, profile_picture=? WHERE id=?",
			p.Name, p.Contact, p.Country, p.DOB, p.Gender, p.Picture, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, contact=?, country=?, dob=?, gender=? WHERE id=?",
			p.Name, p.Contact, p.Country, p.DOB, p.Gender, id)
	}
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateRole sets the role of the target user and returns the updated record.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=?", role, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword re-hashes and overwrites the secret of the user with the
// given email.  ErrNotFound when the identity is unknown.
func (r *UserRepo) UpdatePassword(ctx context.Context, email, password string, cost int) error {
	email = utils.NormalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE email=?", hash, email)
	if err != nil {
		return err
	}
	// A fresh bcrypt hash always differs, so zero affected rows means the
	// email did not match.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOTP stores a one-time code and its expiry on the user record,
// superseding any active code.  ErrNotFound when the email is unknown.
func (r *UserRepo) SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	email = utils.NormalizeEmail(email)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp=?, otp_expires_at=? WHERE email=?",
		code, expiresAt.UTC(), email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Could also mean the identical code and expiry were already set;
		// callers verify existence beforehand so treat as missing.
		if _, gerr := r.GetByEmail(ctx, email); gerr != nil {
			return gerr
		}
	}
	return nil
}

// ConsumeOTP atomically clears the stored code if and only if it matches and
// has not expired.  The single conditional UPDATE closes the race between
// concurrent verifications of the same identity: at most one caller observes
// an affected row.  Returns ErrOTPInvalid on mismatch or expiry and
// ErrNotFound when the email is unknown.
func (r *UserRepo) ConsumeOTP(ctx context.Context, email, code string, now time.Time) error {
	email = utils.NormalizeEmail(email)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp=NULL, otp_expires_at=NULL WHERE email=? AND otp=? AND otp_expires_at > ?",
		email, code, now.UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := r.GetByEmail(ctx, email); gerr != nil {
			return gerr
		}
		return ErrOTPInvalid
	}
	return nil
}

// ClearOTP removes any stored code, used to roll back when dispatch fails.
func (r *UserRepo) ClearOTP(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp=NULL, otp_expires_at=NULL WHERE email=?", email)
	return err
}

// Count returns the total number of user records.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// List returns all user records ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			u      model.User
			otp    sql.NullString
			otpExp sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.Contact, &u.Country, &u.DOB, &u.Gender, &u.ProfilePicture,
			&u.DeviceToken, &otp, &otpExp, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if otp.Valid {
			u.OTP = &otp.String
		}
		if otpExp.Valid {
			t := otpExp.Time
			u.OTPExpiresAt = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
