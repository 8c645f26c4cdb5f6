package models

// Principal is the authenticated caller. It is either a FullAccessPrincipal
// (interactive, primary credential) or a ScopedPrincipal (API key).
type Principal interface {
	Owner() string
	EmailAddress() string
	Allows(scope Scope) bool
	principal()
}

type FullAccessPrincipal struct {
	OwnerID string
	Email   string
}

func (p FullAccessPrincipal) Owner() string { return p.OwnerID }
func (p FullAccessPrincipal) EmailAddress() string { return p.Email }
func (p FullAccessPrincipal) Allows(Scope) bool { return true }
func (FullAccessPrincipal) principal() {}

type ScopedPrincipal struct {
	OwnerID string
	Email   string
	Scopes  ScopeSet
}

func (p ScopedPrincipal) Owner() string { return p.OwnerID }
func (p ScopedPrincipal) EmailAddress() string { return p.Email }
func (p ScopedPrincipal) Allows(scope Scope) bool { return p.Scopes.Has(scope) }
func (ScopedPrincipal) principal() {}
