package value

import "github.com/google/uuid"

// Identity is the uuid-backed identifier used for Object ids,
// resolver.Class ids and Program ids (an Object's class id is a separate
// int), grounded on google/uuid the same
// way the teacher stamps generated DDL with a UUID changeset (schema/generator.go).
type Identity = uuid.UUID

// NewIdentity allocates a fresh random identity.
func NewIdentity() Identity { return uuid.New() }
