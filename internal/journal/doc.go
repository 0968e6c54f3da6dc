// Package journal records generated statements in an append-only SQLite
// database.
//
// Every Journal handle belongs to one session (a UUIDv7 unless set with
// WithSession). Each recorded statement is stamped with the next value of a
// logical clock that resumes from the highest seq already stored, and gets a
// content-addressed id:
//
//	id = ir.StatementID(session, seq, statement)
//
// Appends use ON CONFLICT(id) DO NOTHING, so writing the same entry twice is
// a no-op. Reads are ordered by seq ASC, id ASC COLLATE BINARY.
//
// Journal implements object.Executor, so a tracked object can be pointed at
// it to keep a log of its lifecycle statements. The journal never executes
// the statements it stores.
package journal
