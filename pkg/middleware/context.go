package middleware

import "context"

// Context keys for request scoping. Authentication middleware is expected
// to populate these before the executor runs; the executor only reads them.
type contextKey int

const (
	subjectKey contextKey = iota
	organizationKey
)

// WithSubject returns a context carrying the authenticated subject ID.
// Private cache configs scope their keys by it.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey, subjectID)
}

// SubjectFrom extracts the authenticated subject ID, if any.
func SubjectFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectKey).(string)
	return id, ok && id != ""
}

// WithOrganization returns a context carrying the organization ID.
// Organization-tagged cache configs scope their keys by it.
func WithOrganization(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, organizationKey, orgID)
}

// OrganizationFrom extracts the organization ID, if any.
func OrganizationFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(organizationKey).(string)
	return id, ok && id != ""
}
