// Package sqlite provides a SQLite-backed dialogue storage implementation.
package sqlite
