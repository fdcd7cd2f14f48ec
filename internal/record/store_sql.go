package record

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps entries in the record_kv table created by db.Open. Both
// sqlite and postgres accept the $n placeholders used here.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Put(ctx context.Context, scope, key, value string, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `INSERT INTO record_kv (scope,key,value,updated_at,expires_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (scope,key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at, expires_at=EXCLUDED.expires_at`,
		scope, key, value, now.Unix(), now.Add(ttl).Unix())
	return err
}

func (s *SQLStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM record_kv WHERE scope=$1 AND key=$2 AND expires_at > $3`,
		scope, key, s.now().Unix()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Purge deletes expired rows.
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM record_kv WHERE expires_at <= $1`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
