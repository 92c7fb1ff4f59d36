package model

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/uptrace/bun"
)

type Contact struct {
	bun.BaseModel `bun:"table:contacts"`

	ID      string `bun:"id,pk"`            // required
	OwnerID string `bun:"owner_id,notnull"` // required
	Name    string `bun:"name,notnull"`     // required
	Email   string `bun:"email"`
	Phone   string `bun:"phone"`
	Address string `bun:"address"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (c *Contact) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("(*Contact).Upsert: contact id is blank")
	case c.OwnerID == "":
		return fmt.Errorf("(*Contact).Upsert: owner id is blank")
	case c.Name == "":
		return fmt.Errorf("(*Contact).Upsert: name is blank")
	case c.Email != "":
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("(*Contact).Upsert: email is invalid: %w", err)
		}
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Contact)(nil)).
		Where("id = ?", c.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Contact).Upsert: %w", err)
	}

	switch exists {
	case true:
		c.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(c).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Contact).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(c).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Contact).Upsert: %w", err)
		}
	}

	return nil
}
