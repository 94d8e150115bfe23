package storage

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/store/domain/model"
)

// MySQLStorage keeps records in the kv_store table created by MigrateMySQL.
type MySQLStorage struct {
	db *sqlx.DB
}

// OpenMySQL connects with a DSN such as "user:pass@tcp(host:3306)/storefront".
func OpenMySQL(dsn string) (*sqlx.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse mysql dsn")
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true

	db, err := sqlx.Connect("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	return db, nil
}

func NewMySQLStorage(db *sqlx.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (s *MySQLStorage) Load(key string) ([]byte, error) {
	var value []byte
	err := s.db.Get(&value, `SELECT v FROM kv_store WHERE k = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "load %s", key)
	}
	return value, nil
}

func (s *MySQLStorage) Save(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`, key, value)
	return errors.Wrapf(err, "save %s", key)
}
