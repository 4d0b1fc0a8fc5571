// Package store persists the production pipeline in SQLite: products, ICPs,
// concepts, script versions, production requirements, tasks, and team
// members. The schema is embedded and versioned; timestamps are stored as
// RFC3339Nano UTC text. Writes retry briefly on SQLITE_BUSY.
package store
