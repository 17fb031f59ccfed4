package repository

import "gorm.io/gorm"

// Source hands out the gorm handle an operation should run on. The live
// store implements it, and the unit of work wraps a transaction in it, so
// every repository resolves the handle per call and a store swapped during
// restore is picked up by the very next operation.
type Source interface {
	DB() *gorm.DB
}

// txSource pins repositories inside a unit of work to one transaction
type txSource struct {
	tx *gorm.DB
}

func (s txSource) DB() *gorm.DB { return s.tx }
