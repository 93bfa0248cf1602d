package models

// PartialIndexes are the indexes gorm tags cannot express. The SQL is
// valid on both Postgres and SQLite; migrations/ carries the same statements.
var PartialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_active_dog
		ON entries (dog_id, show_id)
		WHERE status NOT IN ('withdrawn', 'cancelled', 'transferred') AND dog_id IS NOT NULL`,
}
