package filter

import (
	"fmt"
	"time"
)

// MaxValuesPerField is the maximum number of values per filter field.
const MaxValuesPerField = 32

// Filter is a closed set of context filter fields. A zero Filter matches
// every document. Within a field, values are OR-ed; across fields, AND-ed.
type Filter struct {
	types         []string
	tags          []string
	ownerID       string
	updatedAfter  time.Time
	updatedBefore time.Time
}

// New validates and creates a Filter.
func New(types, tags []string, ownerID string, updatedAfter, updatedBefore time.Time) (Filter, error) {
	if len(types) > MaxValuesPerField {
		return Filter{}, fmt.Errorf("too many type values (max %d)", MaxValuesPerField)
	}
	if len(tags) > MaxValuesPerField {
		return Filter{}, fmt.Errorf("too many tag values (max %d)", MaxValuesPerField)
	}
	if !updatedAfter.IsZero() && !updatedBefore.IsZero() && updatedBefore.Before(updatedAfter) {
		return Filter{}, fmt.Errorf("updated_before precedes updated_after")
	}
	return Filter{
		types: types, tags: tags, ownerID: ownerID,
		updatedAfter: updatedAfter, updatedBefore: updatedBefore,
	}, nil
}

// Types returns the accepted context types.
func (f Filter) Types() []string { return f.types }

// Tags returns the required tags (any-of).
func (f Filter) Tags() []string { return f.tags }

// OwnerID returns the owner constraint.
func (f Filter) OwnerID() string { return f.ownerID }

// UpdatedAfter returns the lower bound on UpdatedAt.
func (f Filter) UpdatedAfter() time.Time { return f.updatedAfter }

// UpdatedBefore returns the upper bound on UpdatedAt.
func (f Filter) UpdatedBefore() time.Time { return f.updatedBefore }

// IsEmpty reports whether the filter has no constraints.
func (f Filter) IsEmpty() bool {
	return len(f.types) == 0 && len(f.tags) == 0 && f.ownerID == "" &&
		f.updatedAfter.IsZero() && f.updatedBefore.IsZero()
}

// HasType reports whether the filter selects the given type.
func (f Filter) HasType(t string) bool {
	for _, v := range f.types {
		if v == t {
			return true
		}
	}
	return false
}

// HasTag reports whether the filter selects the given tag.
func (f Filter) HasTag(tag string) bool {
	for _, v := range f.tags {
		if v == tag {
			return true
		}
	}
	return false
}

// Matches reports whether a document with the given fields passes the filter.
func (f Filter) Matches(ctxType string, tags []string, ownerID string, updatedAt time.Time) bool {
	if len(f.types) > 0 && !f.HasType(ctxType) {
		return false
	}
	if f.ownerID != "" && f.ownerID != ownerID {
		return false
	}
	if !f.updatedAfter.IsZero() && updatedAt.Before(f.updatedAfter) {
		return false
	}
	if !f.updatedBefore.IsZero() && updatedAt.After(f.updatedBefore) {
		return false
	}
	if len(f.tags) > 0 {
		found := false
		for _, t := range tags {
			if f.HasTag(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
