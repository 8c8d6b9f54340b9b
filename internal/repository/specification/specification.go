package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories apply every
// spec they receive in order, so callers stack ownership, filtering, and
// paging without the repository knowing the combination.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
