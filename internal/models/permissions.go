package models

// Scope names a capability an API key may carry.
type Scope string

const (
	ScopeDeposit  Scope = "deposit"
	ScopeTransfer Scope = "transfer"
	ScopeRead     Scope = "read"
)

// ScopeSet is an allow-list of scopes.
type ScopeSet map[Scope]struct{}

func NewScopeSet(scopes ...string) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[Scope(s)] = struct{}{}
	}
	return set
}

func (s ScopeSet) Has(scope Scope) bool {
	_, ok := s[scope]
	return ok
}

// ValidScope reports whether name is a scope the ledger knows about.
func ValidScope(name string) bool {
	switch Scope(name) {
	case ScopeDeposit, ScopeTransfer, ScopeRead:
		return true
	}
	return false
}
