package domain

import "errors"

var ErrPackageNotFound = errors.New("package not found")

// Package is a service plan sold to customers. Packages are reference data
// seeded at startup; there is no update path.
type Package struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
