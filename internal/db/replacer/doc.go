// Package replacer writes a table.Table into PostgreSQL with
// drop-and-recreate semantics.
//
// Each Replace call runs in its own transaction:
//
//	BEGIN;
//	DROP TABLE IF EXISTS <name>;
//	CREATE TABLE <name> (<columns>);
//	COPY <name> FROM STDIN (binary);
//	COMMIT;
//
// so a failed write leaves the previous table in place. Identifiers are
// quoted with pgx.Identifier.Sanitize(); a name containing one dot is taken
// as schema.table.
//
// # Example Usage
//
//	r := replacer.New()
//	rows, err := r.Replace(ctx, conn, "train_transactions", tbl)
//
// # Thread Safety
//
// Replacer is stateless. The connection it is given is not safe for
// concurrent use.
package replacer
