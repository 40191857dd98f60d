package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	// Username = unique @handle (used for login and as the messaging address)
	Username string `bun:",unique,notnull"`

	// Name = display name shown in chats (can be changed freely)
	Name string `bun:",notnull"`

	PasswordHash string `bun:",notnull"`

	// Opaque client-supplied public key. Empty until the owner uploads one;
	// identities without a key are not listed as messageable contacts.
	PublicKey string `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
