package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Scope wraps a connection carrying the caller's identity and ensures cleanup.
// The connection has app.current_user_id set; column defaults such as
// students.created_by read it.
type Scope struct {
	Conn *pgxpool.Conn
}

// Close resets the user context and releases the connection to the pool.
// This MUST be called to prevent the identity from leaking to the next request.
func (s *Scope) Close() {
	if s.Conn == nil {
		return
	}
	_, _ = s.Conn.Exec(context.Background(), "RESET app.current_user_id")
	s.Conn.Release()
}

// WithUser acquires a connection and sets app.current_user_id.
// The returned Scope MUST be closed with defer scope.Close().
func (db *DB) WithUser(ctx context.Context, userID string) (*Scope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_user_id', $1, false)", userID)
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &Scope{Conn: conn}, nil
}

// WithoutUser acquires a connection without identity context.
// Use this for operator tasks such as catalog seeding.
// The returned Scope MUST be closed with defer scope.Close().
func (db *DB) WithoutUser(ctx context.Context) (*Scope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &Scope{Conn: conn}, nil
}
