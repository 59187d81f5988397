package rules

// Default is the stock rule set: camelCase, snake_case and kebab-case
// splitting, atomic digit runs, and '#' and '%' kept attached to their
// neighbours.
type Default struct{}

// ResolutionPassRules implements RuleSet.
func (Default) ResolutionPassRules() []Rule {
	return DefaultRules()
}

// DefaultRules returns a fresh copy of the default resolution pass.
func DefaultRules() []Rule {
	return []Rule{
		Remove(Punct, Middle(FullInput)),
		Remove(Char(' '), All()),
		BoundStart(CaseChange),
		BoundEnd(Acronym),
		BoundStart(Punct),
		BoundEnd(Punct),
		BoundStart(Numerics),
		BoundEnd(Numerics),
		BoundStart(Char('#')),
		BoundEnd(Char('%')),
		BoundStart(NonPunctSpecial),
		BoundEnd(NonPunctSpecial),
	}
}
