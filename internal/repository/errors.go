// Package repository holds the MySQL persistence layer: the
// transactional WorkshopStore used by the domain services plus
// read-side repositories that back the listing and catalog endpoints.
// Sentinel errors defined here let higher layers such as handlers
// distinguish between different failure scenarios. For example,
// ErrForbidden indicates that the current user is not authorized to
// touch a resource in another branch, while ErrConflict signals that
// an operation cannot proceed due to existing dependent records
// (e.g. deleting a booth that still holds a job).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource outside their branch. Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as removing a booth that is
// currently occupied. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// ErrServiceNotFound is returned when a catalog service lookup finds
// no row.
var ErrServiceNotFound = errors.New("service not found")
