package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darmiel/tokenkeep/internal/core"
)

var _ core.TokenRepository = (*TokenStore)(nil)

// TokenStore persists tokens in SQLite. Status is not stored.
type TokenStore struct {
	db *DB
}

func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) All(ctx context.Context) ([]core.Token, error) {
	const query = `SELECT id, service_name, value, expiry_date FROM tokens ORDER BY seq`
	rows, err := s.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]core.Token, 0)
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

func (s *TokenStore) Get(ctx context.Context, id string) (core.Token, error) {
	const query = `SELECT id, service_name, value, expiry_date FROM tokens WHERE id = ?`
	tok, err := scanToken(s.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Token{}, core.ErrNotFound
	}
	if err != nil {
		return core.Token{}, err
	}
	return tok, nil
}

func (s *TokenStore) Insert(ctx context.Context, token core.Token) error {
	const query = `INSERT INTO tokens (id, service_name, value, expiry_date) VALUES (?, ?, ?, ?)`
	_, err := s.db.Writer.ExecContext(ctx, query,
		token.ID, token.ServiceName, token.Value, formatTime(token.ExpiryDate))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateID
		}
		return fmt.Errorf("insert token %q: %w", token.ID, err)
	}
	return nil
}

func (s *TokenStore) Update(ctx context.Context, token core.Token) error {
	const query = `UPDATE tokens
		SET service_name = ?, value = ?, expiry_date = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?`
	res, err := s.db.Writer.ExecContext(ctx, query,
		token.ServiceName, token.Value, formatTime(token.ExpiryDate), token.ID)
	if err != nil {
		return fmt.Errorf("update token %q: %w", token.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update token %q: rows affected: %w", token.ID, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM tokens WHERE id = ?`
	res, err := s.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete token %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete token %q: rows affected: %w", id, err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(row scanner) (core.Token, error) {
	var tok core.Token
	var expiry string
	if err := row.Scan(&tok.ID, &tok.ServiceName, &tok.Value, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Token{}, err
		}
		return core.Token{}, fmt.Errorf("scan token: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, expiry)
	if err != nil {
		return core.Token{}, fmt.Errorf("parse expiry_date for token %q: %w", tok.ID, err)
	}
	tok.ExpiryDate = t
	return tok, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
