package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrTokenRejected = errors.New("could not refresh")

// StoreToken records an issued refresh token until expiration.
func (s *Store) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)",
		username,
		tokenID,
		refreshTokenID,
		expiration.UTC(),
	)
	return err
}

// ConsumeToken deletes a stored refresh token, failing with
// ErrTokenRejected when it is unknown or expired.
func (s *Store) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var expiration time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT expiration FROM token
		WHERE username = ?
			AND token_id = ?
			AND refresh_token_id = ?`,
		username,
		tokenID,
		refreshTokenID,
	).Scan(&expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTokenRejected
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM token
		WHERE username = ?
			AND token_id = ?
			AND refresh_token_id = ?`,
		username,
		tokenID,
		refreshTokenID,
	)
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	if expiration.Before(s.now()) {
		return ErrTokenRejected
	}
	return nil
}
