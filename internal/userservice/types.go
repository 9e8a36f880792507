package userservice

import (
	"database/sql"
	"time"

	"github.com/amikrop/blawg/internal/common"
)

type tokenScope string

const TokenScopeActivate tokenScope = "token:activate"

// Token lifetimes. The activation token is single-use; access and refresh
// tokens live in auth_tokens and die together on logout.
const (
	ActivationTokenTime = 3 * 24 * time.Hour
	AccessTokenTime     = 7 * 24 * time.Hour
	RefreshTokenTime    = 30 * 24 * time.Hour
)

type Permission string

type Permissions []Permission

// PermissionWriteBlog gates every blog-mutating endpoint. Granted on account
// activation.
const PermissionWriteBlog Permission = "blog:write"

// AnonymousUser stands in for an unauthenticated requester. Identified by
// pointer, never by field values.
var AnonymousUser = User{}

type UserService struct {
	m  *DBModel
	mb common.MessageProducer
	c  *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`

	Permissions Permissions `json:"permissions"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Token is a single-purpose opaque token; only its SHA-256 hash is stored.
type Token struct {
	Plain  string     `json:"token"`
	Hash   []byte     `json:"-"`
	UserID int        `json:"-"`
	Expiry time.Time  `json:"expiry"`
	Scope  tokenScope `json:"-"`
}

type AuthToken struct {
	AccessTokenPlain   string    `json:"access_token"`
	AccessTokenHash    []byte    `json:"-"`
	RefreshTokenPlain  string    `json:"refresh_token"`
	RefreshTokenHash   []byte    `json:"-"`
	UserID             int       `json:"user_id"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}
