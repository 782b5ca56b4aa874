package db

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

// GetDocument returns the raw document stored under key. The boolean is
// false when no document exists.
func (db *DB) GetDocument(key string) ([]byte, bool, error) {
	query, args, err := db.sb.Select("value").From("documents").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, err
	}

	var value string
	err = db.QueryRow(query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// PutDocument stores data under key, replacing any previous document
func (db *DB) PutDocument(key string, data []byte) error {
	query, args, err := db.sb.Insert("documents").
		Columns("key", "value").
		Values(key, string(data)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}

// DeleteDocuments removes the documents stored under keys. Missing keys are
// ignored.
func (db *DB) DeleteDocuments(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := db.sb.Delete("documents").Where(sq.Eq{"key": keys}).ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}

// DocumentKeys lists the keys that currently hold a document
func (db *DB) DocumentKeys() ([]string, error) {
	query, args, err := db.sb.Select("key").From("documents").OrderBy("key").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
