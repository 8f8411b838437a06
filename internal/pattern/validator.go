package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/scamguard/internal/common"
)

// MaxExpressionsPerRule bounds the number of match expressions in one rule.
const MaxExpressionsPerRule = 6

// Validation errors.
var (
	ErrEmptyRuleName     = errors.New("rule name cannot be empty")
	ErrDuplicateRule     = errors.New("duplicate rule name")
	ErrInvalidSeverity   = errors.New("invalid severity")
	ErrEmptyCategory     = errors.New("rule category cannot be empty")
	ErrExpressionCount   = errors.New("rule must have between 1 and 6 expressions")
	ErrInvalidExpression = errors.New("invalid match expression")
)

// compiledRule pairs a rule with its compiled expressions.
type compiledRule struct {
	expressions []*regexp.Regexp
	Rule
}

// Catalog is an immutable, ordered set of validated rules.
type Catalog struct {
	rules []compiledRule
}

// NewCatalog validates rules and compiles their expressions once.
func NewCatalog(rules []Rule) (*Catalog, error) {
	seen := make(map[string]bool, len(rules))
	compiled := make([]compiledRule, 0, len(rules))

	for i, rule := range rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("rule at index %d: %w", i, err)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Name)
		}
		seen[rule.Name] = true

		cr := compiledRule{
			Rule:        cloneRule(rule),
			expressions: make([]*regexp.Regexp, 0, len(rule.Expressions)),
		}
		for _, expr := range rule.Expressions {
			re, err := common.CompileFold(expr)
			if err != nil {
				return nil, fmt.Errorf("%w in rule %s: %q: %v", ErrInvalidExpression, rule.Name, expr, err)
			}
			cr.expressions = append(cr.expressions, re)
		}
		compiled = append(compiled, cr)
	}

	return &Catalog{rules: compiled}, nil
}

// DefaultCatalog returns the catalog built from DefaultRules.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("default pattern catalog is invalid: %v", err))
	}
	return c
}

func validateRule(rule Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return ErrEmptyRuleName
	}
	if !rule.Severity.Valid() {
		return fmt.Errorf("%w %q in rule %s", ErrInvalidSeverity, rule.Severity, rule.Name)
	}
	if strings.TrimSpace(rule.Category) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyCategory, rule.Name)
	}
	if n := len(rule.Expressions); n == 0 || n > MaxExpressionsPerRule {
		return fmt.Errorf("%w: %s has %d", ErrExpressionCount, rule.Name, n)
	}
	return nil
}

func cloneRule(rule Rule) Rule {
	rule.Expressions = append([]string(nil), rule.Expressions...)
	return rule
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Rules returns a copy of the rules in evaluation order.
func (c *Catalog) Rules() []Rule {
	rules := make([]Rule, 0, len(c.rules))
	for _, cr := range c.rules {
		rules = append(rules, cloneRule(cr.Rule))
	}
	return rules
}

// Categories returns the distinct rule categories, sorted.
func (c *Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, cr := range c.rules {
		set[cr.Category] = struct{}{}
	}
	categories := make([]string, 0, len(set))
	for category := range set {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// HasCategory reports whether any rule carries the category.
func (c *Catalog) HasCategory(category string) bool {
	for _, cr := range c.rules {
		if cr.Category == category {
			return true
		}
	}
	return false
}
