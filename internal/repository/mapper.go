// Package repository provides a store-agnostic generic repository over
// GORM, parameterized by entity, identifier, and persisted-record types.
package repository

// Mapper converts between the persisted record shape and the domain
// entity. Implementations must be pure: no validation, no side effects.
// ToRecord excludes the identifier; the store is the sole assigner of
// identifiers on creation.
type Mapper[E any, ID comparable, R any] interface {
	ToEntity(record *R) *E
	ToRecord(entity *E) *R
	ExtractID(entity *E) ID
}
