// Package categorize assigns spend categories to narrations using ordered
// keyword rules.
package categorize

import (
	"strings"

	"github.com/finsight-dev/finsight/internal/model"
)

// Rule maps a set of substrings to a category label.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// matches reports whether any keyword occurs in the lower-cased narration.
func (r Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Categorizer evaluates rules in declaration order; the first match wins.
type Categorizer struct {
	rules []Rule
}

// New returns a Categorizer over rules. An empty slice yields the default table.
func New(rules []Rule) *Categorizer {
	if len(rules) == 0 {
		return Default()
	}
	return &Categorizer{rules: rules}
}

var defaultCategorizer = &Categorizer{rules: DefaultRules()}

// Default returns the categorizer for the built-in rule table.
func Default() *Categorizer {
	return defaultCategorizer
}

// Rules returns a copy of the rule table.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Categorize returns the label for narration, or Others.
func (c *Categorizer) Categorize(narration string) string {
	if narration == "" {
		return model.CategoryOthers
	}
	lower := strings.ToLower(narration)
	for _, r := range c.rules {
		if r.matches(lower) {
			return r.Label
		}
	}
	return model.CategoryOthers
}

// Categorize uses the built-in rule table.
func Categorize(narration string) string {
	return defaultCategorizer.Categorize(narration)
}

// DefaultRules returns the built-in table. Order is significant: keyword
// sets overlap, so earlier rules shadow later ones.
func DefaultRules() []Rule {
	return []Rule{
		{Label: model.CategorySalary, Keywords: []string{"salary"}},
		{Label: model.CategoryRent, Keywords: []string{"rent", "landlord"}},
		{Label: model.CategoryEMI, Keywords: []string{"emi", "loan"}},
		{Label: model.CategoryInvestment, Keywords: []string{"investment", "sip", "mutual fund"}},
		{Label: model.CategoryFood, Keywords: []string{"food", "restaurant", "swiggy", "zomato"}},
		{Label: model.CategoryTransport, Keywords: []string{"transport", "uber", "ola", "taxi"}},
		{Label: model.CategoryShopping, Keywords: []string{"shopping", "amazon", "flipkart", "myntra"}},
		{Label: model.CategoryBills, Keywords: []string{"bills", "electricity", "water", "internet"}},
		{Label: model.CategoryCreditCard, Keywords: []string{"credit card"}},
		{Label: model.CategoryEntertainment, Keywords: []string{"entertainment", "movie", "netflix", "spotify"}},
	}
}
