package keyvalue

// Keyword is one keyword and its values, in the order written.
type Keyword struct {
	Name   string
	Values []string
}

// Result is a parsed reply body. Keywords are in order of first appearance.
type Result struct {
	Keywords    []Keyword
	Diagnostics []Diagnostic

	index map[string]int
}

func (r *Result) set(name string, values []string) {
	if values == nil {
		values = []string{}
	}
	if r.index == nil {
		r.index = map[string]int{}
	}
	if i, ok := r.index[name]; ok {
		r.Keywords[i].Values = values
		return
	}
	r.index[name] = len(r.Keywords)
	r.Keywords = append(r.Keywords, Keyword{Name: name, Values: values})
}

// Get returns the values of the named keyword. Names are case-sensitive.
func (r *Result) Get(name string) ([]string, bool) {
	if r == nil {
		return nil, false
	}
	if r.index == nil {
		for _, kw := range r.Keywords {
			if kw.Name == name {
				return kw.Values, true
			}
		}
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.Keywords[i].Values, true
}

// Names returns the keyword names in order.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		out[i] = kw.Name
	}
	return out
}

// Len returns the number of distinct keywords.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Keywords)
}

// Degraded reports whether the parse recovered from malformed input.
func (r *Result) Degraded() bool { return r != nil && len(r.Diagnostics) > 0 }
