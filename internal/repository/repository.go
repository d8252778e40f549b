// Package repository contains data access abstractions. Implementations live in
// subpackages (postgres) and contain no business logic.
package repository

import "errors"

// Sentinel errors returned (optionally wrapped) by implementations so services can
// translate them into domain errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
