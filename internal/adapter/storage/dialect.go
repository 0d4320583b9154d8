package storage

import (
	"io/fs"
)

// Dialect captures what differs between the supported SQL engines. All
// queries use '?' placeholders, which both engines accept.
type Dialect struct {
	Name string
	// Migrations holds the dialect's *.sql files, applied in name order.
	Migrations fs.FS
	// InsertionOrder is the expression rows are listed by so that listings
	// follow storage order rather than the random order of UUID keys.
	InsertionOrder string
	// Classify maps a driver error onto a domain error kind, or returns nil.
	Classify func(err error) error
}
