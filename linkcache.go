// Package linkcache aggregates bookmarks and history from desktop
// browsers into a single locally-queryable, fuzzy-searchable index.
// Adapters read point-in-time snapshots of each browser's storage and
// feed Link records into a persistent cache; a separate query path
// searches the cache interactively.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency or role
// (e.g., sqlite/, arc/, chrome/, firefox/).
package linkcache
