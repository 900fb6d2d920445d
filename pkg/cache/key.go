package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Separators used when assembling a cache key. Scope suffixes use a
// separator distinct from the query separator so the two namespaces
// cannot collide.
const (
	querySeparator = "&"
	scopeSeparator = "|"
)

// CacheKey represents a unique identifier for a cached HTTP response.
type CacheKey struct {
	// Method is the HTTP method (e.g., "GET")
	Method string

	// Path is the request path (e.g., "/api/projects")
	Path string

	// Query are the request query parameters
	Query url.Values

	// Scopes are already-formed scoping suffixes appended to the key
	// (e.g., "user:42", "org:7") for private or tag-scoped configs
	Scopes []string
}

// String generates a deterministic cache key string.
// Format: METHOD:path?query1=val1&query2=val2|scope1|scope2
//
// Query parameters are sorted lexicographically by name (then value), so
// equal parameter sets in any order collapse to the same key.
//
// Example:
//
//	GET:/api/projects?limit=10&sort=name|user:42
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString(k.Method)
	b.WriteString(":")
	b.WriteString(k.Path)

	// Add query params (sorted for determinism)
	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, 0, len(k.Query))
		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			for _, value := range values {
				pairs = append(pairs, fmt.Sprintf("%s=%s", name, value))
			}
		}

		b.WriteString("?")
		b.WriteString(strings.Join(pairs, querySeparator))
	}

	// Add scope suffixes
	for _, scope := range k.Scopes {
		b.WriteString(scopeSeparator)
		b.WriteString(scope)
	}

	return b.String()
}

// SubjectScope formats a per-subject scoping suffix for private configs.
func SubjectScope(subjectID string) string {
	return "user:" + subjectID
}

// OrganizationScope formats a per-organization scoping suffix.
func OrganizationScope(orgID string) string {
	return "org:" + orgID
}
