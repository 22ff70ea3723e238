package repository

import (
	"database/sql"
	"fmt"
)

// expectAffected returns notFound when the statement touched no rows
func expectAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
