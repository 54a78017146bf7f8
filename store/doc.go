// Package store persists the study graph produced by an import.
//
// The importer depends only on [Repository]. Each document is written in a
// single [Tx] obtained from a [Store], so a document that fails part way
// leaves nothing behind.
//
// Two stores are provided:
//
//   - [Memory] keeps everything in process; used for dry runs and tests.
//   - [SQL] writes through database/sql to sqlite (modernc.org/sqlite),
//     MySQL (go-sql-driver/mysql) or PostgreSQL (lib/pq).
//
//	s, err := store.OpenSQL(ctx, "sqlite", "srdr.db")
//	tx, err := s.Begin(ctx)
//	defer tx.Rollback()
//	...
//	err = tx.Commit()
package store
