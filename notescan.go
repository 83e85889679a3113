// Package notescan extracts per-article engagement metrics from the text of
// note.com dashboard screenshots. Text recognition, storage, the HTTP
// boundary and the feed tooling are external collaborators described here
// by interfaces.
//
// This package contains domain types, interfaces and pure functions
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., gemini/,
// sqlite/, echo/).
package notescan
