package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	sqlfiles "kwallo/pkg/database/sql"

	"kwallo/pkg/logging"
)

// ApplySchema executes the embedded schema files in lexical order. The
// statements are idempotent, so running this on every startup is safe.
func ApplySchema(db *sql.DB, logger logging.Logger) error {
	entries, err := fs.ReadDir(sqlfiles.Content, "schema")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(sqlfiles.Content, "schema/"+name)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", name, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("apply schema file %s: %w", name, err)
		}
		logger.WithField("file", name).Debug("Applied schema file")
	}

	return nil
}
