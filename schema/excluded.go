package schema

import "strings"

// Audit and bookkeeping columns kept out of every field set. Names are
// compared after normalizeName, so createdAt and created_at are the same
// entry.
var excludedNames = newNameSet(
	"create_at",
	"create_date",
	"created_at",
	"created_by",
	"created_by_user",
	"created_by_user_id",
	"created_date",
	"creation_date",
	"deleted_at",
	"deleted_by",
	"deleted_by_user",
	"deleted_by_user_id",
	"deleted_date",
	"deletion_date",
	"last_modified_date",
	"modification_date",
	"modified_at",
	"modified_by",
	"modified_by_user",
	"modified_by_user_id",
	"modified_date",
	"record_creation_date",
	"removed_date",
	"updated_at",
	"user_created_at",
	"user_created_date",
	"user_creation_date",
	"user_creation_date_id",
	"user_deleted_by_user_id",
	"user_deletion_date",
	"user_modified_by_user_id",
	"user_modification_date",
)

// Last-modified timestamps refreshed by every generated update.
var updatedAtNames = newNameSet(
	"last_modified_date",
	"modification_date",
	"modified_at",
	"modified_date",
	"updated_at",
)

type nameSet map[string]struct{}

func newNameSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[normalizeName(n)] = struct{}{}
	}
	return s
}

func (s nameSet) has(name string) bool {
	_, ok := s[normalizeName(name)]
	return ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
}

// IsExcluded reports whether name follows an audit-column convention.
func IsExcluded(name string) bool {
	return excludedNames.has(name)
}

// IsUpdatedAtName reports whether name follows a last-modified convention.
func IsUpdatedAtName(name string) bool {
	return updatedAtNames.has(name)
}
