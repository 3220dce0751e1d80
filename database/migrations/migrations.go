// Package migrations contains the schema history. Each migration registers
// itself from init(); blank-import this package wherever migrations run.
package migrations
