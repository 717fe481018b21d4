package vectorizer

// CountDocument adds one occurrence of every token to the column named
// context. Repeated tokens are counted each time they occur.
func (a *Accumulator) CountDocument(context string, tokens []string) error {
	counts := make(map[string]float64, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := counts[t]; !ok {
			order = append(order, t)
		}
		counts[t]++
	}
	for _, t := range order {
		if err := a.Accumulate(t, context, counts[t]); err != nil {
			return err
		}
	}
	return nil
}

// CountWindow tallies symmetric co-occurrences: each token is counted in the
// context of every other token at most window positions away. With window
// 0, all tokens of the document co-occur. When weighted, a co-occurrence at
// distance d counts 1/d.
func (a *Accumulator) CountWindow(tokens []string, window int, weighted bool) error {
	if err := a.Observe(tokens); err != nil {
		return err
	}
	for i := range tokens {
		for j := i - 1; j >= 0 && (window == 0 || j >= i-window); j-- {
			weight := 1.0
			if weighted {
				weight = 1 / float64(i-j)
			}
			if err := a.Accumulate(tokens[i], tokens[j], weight); err != nil {
				return err
			}
			if err := a.Accumulate(tokens[j], tokens[i], weight); err != nil {
				return err
			}
		}
	}
	return nil
}

// Column builds a raw count column over the frozen term basis. Tokens that
// are not in the basis are ignored and never registered.
func Column(terms *Basis, tokens []string) SparseVector {
	col := NewSparseVector(terms.Len())
	for _, t := range tokens {
		if id, ok := terms.ID(t); ok {
			col.Add(id, 1)
		}
	}
	return col
}

// Observe registers tokens as terms in order of appearance without counting
// anything.
func (a *Accumulator) Observe(tokens []string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.frozen != nil {
		return ErrFrozen
	}
	for _, t := range tokens {
		a.terms.Add(t)
	}
	return nil
}
