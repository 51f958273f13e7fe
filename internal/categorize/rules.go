package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk shape of a categorization rules file.
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rules file. Rules are evaluated in file order.
func LoadRules(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	for i, r := range rf.Rules {
		if r.Label == "" {
			return nil, fmt.Errorf("rule %d: missing label", i+1)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i+1, r.Label)
		}
	}
	return New(rf.Rules), nil
}

// SaveRules writes rules to a YAML file.
func SaveRules(path string, rules []Rule) error {
	data, err := yaml.Marshal(RuleFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
