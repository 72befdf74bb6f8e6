package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists the session record as a JSON blob in a single row keyed
// by namespace. Works against sqlite and postgres via database/sql.
type SQLStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLStore(db *sql.DB, namespace string) *SQLStore {
	return &SQLStore{db: db, namespace: namespace}
}

func (s *SQLStore) Load(ctx context.Context) (Session, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT state_json FROM sessions WHERE namespace=$1`, s.namespace)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// corrupt record: treat as absent, next Save overwrites it
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *SQLStore) Save(ctx context.Context, sess Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (namespace,state_json,updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (namespace) DO UPDATE SET state_json=EXCLUDED.state_json, updated_at=EXCLUDED.updated_at`,
		s.namespace, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE namespace=$1`, s.namespace)
	return err
}
