package resolver

// scope is a persistent stack of name sets used by freeVars and localTag to
// track which names are currently shadowed by an enclosing let or lambda.
// push copies the current set so that mutating the child doesn't affect the
// parent, matching the code generator's own envStack semantics for let.
type scope struct {
	sets []map[string]bool
}

func newScope() *scope {
	return &scope{sets: []map[string]bool{{}}}
}

func (s *scope) top() map[string]bool { return s.sets[len(s.sets)-1] }

func (s *scope) has(name string) bool { return s.top()[name] }

// push returns a new scope with a fresh top set seeded from a copy of the
// current one.
func (s *scope) push() *scope {
	cur := s.top()
	next := make(map[string]bool, len(cur))
	for k, v := range cur {
		next[k] = v
	}
	return &scope{sets: []map[string]bool{next}}
}
