package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Item{},
	)
}

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// uniqueViolation reports whether err is a duplicate-key error and which constraint was hit.
// sqlite has no constraint names, so its "table.column" is turned into "table_column".
func uniqueViolation(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true, pgErr.ConstraintName
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		column := strings.TrimPrefix(sqliteErr.Error(), sqliteUniquePrefix)
		return true, strings.ReplaceAll(column, ".", "_")
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, ""
	}

	return false, ""
}

func constraintOn(constraint, column string) bool {
	return strings.HasSuffix(constraint, "_"+column)
}
