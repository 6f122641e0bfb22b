// Package problem defines the practice problem model and ordering rules.
package problem

import "time"

// Pool identifies the provenance of a problem set.
type Pool string

const (
	// PoolSystem selects problems authored by the system.
	PoolSystem Pool = "system"
	// PoolUser selects problems authored by the user.
	PoolUser Pool = "user"
	// PoolMixed selects the union of system and user problems.
	PoolMixed Pool = "mixed"
)

// Valid reports whether p is a known pool.
func (p Pool) Valid() bool {
	switch p {
	case PoolSystem, PoolUser, PoolMixed:
		return true
	}
	return false
}

// OrderRule selects how a fetched pool is ordered before a session.
type OrderRule string

const (
	RuleRandom         OrderRule = "random"
	RuleNewestFirst    OrderRule = "newest-first"
	RuleOldestFirst    OrderRule = "oldest-first"
	RuleWeakPriority   OrderRule = "weak-priority"
	RuleStrongPriority OrderRule = "strong-priority"
)

// Valid reports whether r is a known ordering rule.
func (r OrderRule) Valid() bool {
	switch r {
	case RuleRandom, RuleNewestFirst, RuleOldestFirst, RuleWeakPriority, RuleStrongPriority:
		return true
	}
	return false
}

// Problem is a single practice problem. Immutable once fetched.
type Problem struct {
	ID          string
	Language    string
	Question    string
	Explanation string
	Category    string
	Difficulty  int
	CreatedAt   time.Time
}
