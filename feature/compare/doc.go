// Package compare runs snapshot comparisons and serves them over HTTP.
//
// Service.Compare loads the previous snapshot, the current snapshot and the scrub
// rules concurrently; the first failure cancels the other loads. Snapshots lacking a
// required column abort the run before anything is classified. The plan is then
// reconciled and annotated. Service.Report additionally renders the plan and
// publishes the file.
//
// # HTTP Endpoints
//
//   - POST /compare : JSON plan, or a report download with ?format=xlsx|csv|json.
//   - POST /compare/report : publishes the report and returns its location.
//   - GET /compare/schema : the configured columns.
package compare
