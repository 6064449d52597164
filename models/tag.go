package models

import (
	"strings"
	"time"
)

// Tag is a named snippet of free text with usage tracking. A tag can have
// several names (aliases); the first is canonical.
type Tag struct {
	ID        int64     `db:"id"`
	Names     []string  `db:"names"`
	Content   string    `db:"content"`
	Uses      int       `db:"uses"`
	CreatedAt time.Time `db:"created_at"`
}

// HasName reports whether name matches any of the tag's names,
// case-insensitively.
func (t *Tag) HasName(name string) bool {
	for _, n := range t.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (t *Tag) String() string {
	if len(t.Names) == 0 {
		return ""
	}
	return t.Names[0]
}
