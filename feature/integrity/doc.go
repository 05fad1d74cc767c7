// Package integrity provides preflight checks for comparisons.
//
// # Checks Provided
//
//   - Structure: the storage bucket exists and holds the snapshots/, rules/ and
//     reports/ folders. Fixing creates the bucket and folder markers.
//   - Table: a database table exposes every column the comparison schema requires,
//     so it can be read as a db:// snapshot.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (?table=name adds the table check).
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/table/:name : Runs the table check.
package integrity
