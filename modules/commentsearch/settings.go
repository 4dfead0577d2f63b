// Package commentsearch provides the Searcher command, which scans the
// changeset history of a version-controlled project for comments containing a
// keyword and prints the matching changesets with their files and work items.
package commentsearch

import (
	"time"

	"github.com/google/uuid"
)

// RecursionType controls how deep below ProjectPath history is collected.
type RecursionType int

const (
	// RecursionFull includes the whole subtree.
	RecursionFull RecursionType = iota
	// RecursionOneLevel includes the path and its direct children.
	RecursionOneLevel
	// RecursionNone includes the path itself only.
	RecursionNone
)

// EnumMembers makes RecursionType configurable by member name.
func (RecursionType) EnumMembers() map[string]int64 {
	return map[string]int64{
		"Full":     int64(RecursionFull),
		"OneLevel": int64(RecursionOneLevel),
		"None":     int64(RecursionNone),
	}
}

func (r RecursionType) String() string {
	switch r {
	case RecursionFull:
		return "Full"
	case RecursionOneLevel:
		return "OneLevel"
	case RecursionNone:
		return "None"
	default:
		return "RecursionType(?)"
	}
}

// Settings are the configured properties of a Searcher command. Zero values
// fall back to the defaults applied in Invoke.
type Settings struct {
	ProjectPath   string
	DateFrom      time.Time
	DateTo        time.Time
	Recursion     RecursionType
	MaxResults    int
	WorkItemType  string
	Timeout       time.Duration
	CollectionID  uuid.UUID
	ExcludeOwners []string
}

const (
	defaultProjectPath  = "$/"
	defaultWorkItemType = "Task"
	defaultLookback     = 6 // months
)
