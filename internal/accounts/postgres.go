package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	DB *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{DB: db} }

func (p *Postgres) Create(ctx context.Context, email, displayName, passwordHash string) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Account
	err := p.DB.QueryRow(ctx, `
		insert into accounts (email, display_name, password_hash)
		values ($1, $2, $3)
		returning id::text, email, display_name, password_hash, created_at
	`, NormalizeEmail(email), displayName, passwordHash).
		Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, fmt.Errorf("%q: %w", email, ErrExists)
		}
		return Account{}, err
	}
	return a, nil
}

func (p *Postgres) ByEmail(ctx context.Context, email string) (Account, error) {
	return p.one(ctx, `where email = $1`, NormalizeEmail(email))
}

func (p *Postgres) ByID(ctx context.Context, id string) (Account, error) {
	return p.one(ctx, `where id::text = $1`, id)
}

func (p *Postgres) one(ctx context.Context, where string, arg any) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a Account
	err := p.DB.QueryRow(ctx, `
		select id::text, email, display_name, password_hash, created_at
		from accounts `+where, arg).
		Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}
