package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "golang.org/x/net/html"

// Matcher decides whether a style rule applies to a document node.
// Implementations wrap a parsed selector; this package does not depend on
// any selector engine.
type Matcher interface {
	Match(n *html.Node) bool
	Specificity() [3]int
	PseudoElement() string // "before", "after" or empty
}

// Rule is one compiled style rule: a selector, the compiled declaration
// program, and the rule's rank inputs for the cascade.
type Rule struct {
	Match  Matcher
	Prog   *Program
	Origin Origin
	Seq    uint32
}

// ApplyRule runs a rule's program if the rule's selector matches the
// node. Rules with a pseudo-element selector never match the node itself;
// box generation queries them separately. A rule without a matcher
// applies unconditionally, with zero specificity.
func (c *Cascaded) ApplyRule(rule Rule, n *html.Node) error {
	spec := [3]int{}
	if rule.Match != nil {
		if rule.Match.PseudoElement() != "" || !rule.Match.Match(n) {
			return nil
		}
		spec = rule.Match.Specificity()
	}
	return c.Apply(rule.Prog, rule.Origin, spec, rule.Seq)
}
