//spellchecker:words store
package store

//spellchecker:words database errors glebarez sqlite huandu sqlbuilder
import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/glebarez/go-sqlite"
	"github.com/huandu/go-sqlbuilder"
)

// cspell:words pragma

const (
	// SQLiteSuffix is appended to a store name to form the sqlite database file.
	SQLiteSuffix = ".sqlite"

	sqliteDriver = "sqlite"
	sqliteTable  = "mhindex"

	keyColumn   = "key"
	valueColumn = "value"
)

// SQLiteEngine stores each index as a single-table sqlite database file.
type SQLiteEngine struct{}

var (
	_ Engine = SQLiteEngine{}
	_ Store  = (*SQLiteStore)(nil)
)

// Path returns the database file used for the store with the given name.
func (SQLiteEngine) Path(name string) string {
	return name + SQLiteSuffix
}

func (se SQLiteEngine) Exists(name string) (bool, error) {
	return exists(se.Path(name))
}

func (se SQLiteEngine) Open(name string, readOnly bool) (Store, error) {
	path := se.Path(name)

	dsn := path
	if readOnly {
		// the driver would happily create a missing file
		ok, err := exists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("failed to open database file %q: %w", path, os.ErrNotExist)
		}
		dsn += "?_pragma=query_only(1)"
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}

	// a single connection keeps the sqlite file handle count at one
	db.SetMaxOpenConns(1)

	ss := &SQLiteStore{DB: db, readOnly: readOnly}
	if !readOnly {
		if err := ss.createTable(); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}
	return ss, nil
}

func (se SQLiteEngine) Remove(name string) error {
	err := os.Remove(se.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove database file: %w", err)
	}
	return nil
}

// SQLiteStore implements Store on top of a sqlite database.
type SQLiteStore struct {
	DB *sql.DB

	readOnly bool
}

// exec executes a single built statement.
func (ss *SQLiteStore) exec(query string, args []any) (sql.Result, error) {
	return ss.DB.Exec(query, args...)
}

// createTable creates the key-value table unless it exists.
func (ss *SQLiteStore) createTable() error {
	table := sqlbuilder.SQLite.NewCreateTableBuilder()
	table.CreateTable(sqliteTable).IfNotExists()
	table.Define(keyColumn, "BLOB", "PRIMARY KEY")
	table.Define(valueColumn, "BLOB", "NOT NULL")

	if _, err := ss.exec(table.Build()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (ss *SQLiteStore) Put(key, value []byte, mode Mode) error {
	if ss.DB == nil {
		return ErrClosed
	}
	if ss.readOnly {
		return ErrReadOnly
	}

	insert := sqlbuilder.SQLite.NewInsertBuilder()
	if mode == Insert {
		insert.InsertIgnoreInto(sqliteTable)
	} else {
		insert.ReplaceInto(sqliteTable)
	}
	insert.Cols(keyColumn, valueColumn)
	insert.Values(key, value)

	res, err := ss.exec(insert.Build())
	if err != nil {
		return fmt.Errorf("failed to set value for key: %w", err)
	}
	if mode != Insert {
		return nil
	}

	// an ignored insert affects no rows
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count affected rows: %w", err)
	}
	if count == 0 {
		return ErrDuplicate
	}
	return nil
}

// Get returns the given value if it exists.
func (ss *SQLiteStore) Get(key []byte) ([]byte, bool, error) {
	if ss.DB == nil {
		return nil, false, ErrClosed
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(valueColumn).From(sqliteTable).Where(sb.Equal(keyColumn, key))
	query, args := sb.Build()

	var value []byte
	err := ss.DB.QueryRow(query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key from database: %w", err)
	}
	return value, true, nil
}

// Delete deletes the given key from this storage.
func (ss *SQLiteStore) Delete(key []byte) error {
	if ss.DB == nil {
		return ErrClosed
	}
	if ss.readOnly {
		return ErrReadOnly
	}

	del := sqlbuilder.SQLite.NewDeleteBuilder()
	del.DeleteFrom(sqliteTable).Where(del.Equal(keyColumn, key))

	if _, err := ss.exec(del.Build()); err != nil {
		return fmt.Errorf("failed to delete key from database: %w", err)
	}
	return nil
}

// Iterate calls f for all entries in the database, in ascending key order.
func (ss *SQLiteStore) Iterate(f func(key, value []byte) error) error {
	if ss.DB == nil {
		return ErrClosed
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(keyColumn, valueColumn).From(sqliteTable).OrderBy(keyColumn)
	query, args := sb.Build()

	rows, err := ss.DB.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to iterate database: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if err := f(key, value); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate database: %w", err)
	}
	return nil
}

func (ss *SQLiteStore) Close() error {
	if ss.DB == nil {
		return ErrClosed
	}

	err := ss.DB.Close()
	ss.DB = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
