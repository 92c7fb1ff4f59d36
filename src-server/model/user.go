package model

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID          string `bun:"id,pk,notnull,unique"`
	Email       string `bun:"email,notnull,unique"`
	DisplayName string `bun:"display_name"`

	PasswordSalt   string `bun:"password_salt,notnull"`
	PasswordDigest string `bun:"password_digest,notnull"`

	CreatedAt int64 `bun:"created_at,notnull"`
}

func (u *User) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case u.ID == "":
		return fmt.Errorf("(*User).Upsert: user id is blank")
	case u.Email == "":
		return fmt.Errorf("(*User).Upsert: email is blank")
	case u.PasswordDigest == "":
		return fmt.Errorf("(*User).Upsert: password not set")
	}

	_, err := db.
		NewInsert().
		Model(u).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("display_name = EXCLUDED.display_name").
		Set("password_salt = EXCLUDED.password_salt").
		Set("password_digest = EXCLUDED.password_digest").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("(*User).Upsert: %w", err)
	}

	return nil
}

// SetPassword salts and digests the plaintext password.
func (u *User) SetPassword(password string) error {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("(*User).SetPassword: %w", err)
	}
	u.PasswordSalt = hex.EncodeToString(salt)
	u.PasswordDigest = digestPassword(password, u.PasswordSalt)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
func (u *User) CheckPassword(password string) bool {
	digest := digestPassword(password, u.PasswordSalt)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(u.PasswordDigest)) == 1
}

func digestPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}
