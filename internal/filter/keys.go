// Package filter narrows a size table to the attribution keys of interest.
// Filters are built from glob patterns and composed into a chain, every
// predicate of which must accept a key for it to be reported.
package filter

import (
	"path"

	"mapsize/internal/errors"
	"mapsize/internal/parser"
)

// KeyPredicate reports whether an attribution key should be kept.
type KeyPredicate func(key string) bool

// KeyFilter applies include and exclude patterns to attribution keys.
type KeyFilter struct {
	predicates []KeyPredicate
}

// NewKeyFilter builds a filter from path.Match style patterns. An empty
// include list admits every key; an exclude match always rejects.
func NewKeyFilter(include, exclude []string) (*KeyFilter, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, errors.NewConfigError("invalid key pattern "+pattern, err)
		}
	}

	var predicates []KeyPredicate
	if len(include) > 0 {
		predicates = append(predicates, includePredicate(include))
	}
	if len(exclude) > 0 {
		predicates = append(predicates, excludePredicate(exclude))
	}
	return &KeyFilter{predicates: predicates}, nil
}

// Allows reports whether key passes every predicate.
func (f *KeyFilter) Allows(key string) bool {
	for _, predicate := range f.predicates {
		if !predicate(key) {
			return false
		}
	}
	return true
}

// Apply returns the entries of table whose keys are allowed. The input
// table is returned as is when there is nothing to filter.
func (f *KeyFilter) Apply(table parser.SizeTable) parser.SizeTable {
	if len(f.predicates) == 0 {
		return table
	}

	filtered := make(parser.SizeTable, len(table))
	for key, size := range table {
		if f.Allows(key) {
			filtered[key] = size
		}
	}
	return filtered
}

func includePredicate(patterns []string) KeyPredicate {
	return func(key string) bool {
		return matchAny(patterns, key)
	}
}

func excludePredicate(patterns []string) KeyPredicate {
	return func(key string) bool {
		return !matchAny(patterns, key)
	}
}

// Patterns were validated in NewKeyFilter, so Match cannot fail here.
func matchAny(patterns []string, key string) bool {
	for _, pattern := range patterns {
		if matched, _ := path.Match(pattern, key); matched {
			return true
		}
	}
	return false
}
