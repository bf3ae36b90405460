package geo

import "sync"

// ResolverSet keeps one resolver per contributor token for the duration
// of a capture flow. Resolvers live in memory only: after a restart the
// sources simply report again.
type ResolverSet struct {
	mu        sync.Mutex
	resolvers map[string]*Resolver
}

func NewResolverSet() *ResolverSet {
	return &ResolverSet{resolvers: make(map[string]*Resolver)}
}

// For returns the token's resolver, creating it on first use.
func (s *ResolverSet) For(token string) *Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resolvers[token]
	if !ok {
		r = NewResolver()
		s.resolvers[token] = r
	}
	return r
}

// Drop forgets the token's resolver, e.g. after a submission.
func (s *ResolverSet) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resolvers, token)
}
