package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PatternSet holds user-supplied regular expressions from banned_phrases.yaml.
type PatternSet struct {
	BannedRegex []string `json:"banned_regex" yaml:"banned_regex"`
	WarnRegex   []string `json:"warn_regex" yaml:"warn_regex"`
}

// RuleCategory is one named group of rule statements.
type RuleCategory struct {
	Name  string
	Rules []string
}

// RuleGroups is an ordered set of rule categories. In YAML it is a mapping whose
// values are either a single string or a list of strings; key order is kept.
type RuleGroups []RuleCategory

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *RuleGroups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("rule groups: expected mapping, got %s", kindName(node.Kind))
	}
	groups := make(RuleGroups, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		cat := RuleCategory{Name: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				cat.Rules = []string{val.Value}
			}
		case yaml.SequenceNode:
			if err := val.Decode(&cat.Rules); err != nil {
				return fmt.Errorf("rule group %q: %w", key.Value, err)
			}
		default:
			return fmt.Errorf("rule group %q: expected string or list, got %s", key.Value, kindName(val.Kind))
		}
		groups = append(groups, cat)
	}
	*g = groups
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g RuleGroups) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, cat := range g {
		val := &yaml.Node{}
		if err := val.Encode(cat.Rules); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cat.Name},
			val,
		)
	}
	return node, nil
}

// OutputTargets bounds the length of generated prose.
type OutputTargets struct {
	// LengthWords is [min, max].
	LengthWords             []int `json:"length_words,omitempty" yaml:"length_words,omitempty"`
	IncludeContinuityFooter bool  `json:"include_continuity_footer" yaml:"include_continuity_footer"`
}

// WordRange returns the min/max word targets and whether both are set.
func (o *OutputTargets) WordRange() (int, int, bool) {
	if o == nil || len(o.LengthWords) < 2 {
		return 0, 0, false
	}
	return o.LengthWords[0], o.LengthWords[1], true
}

// StyleRules is the descriptive rule collection fed to the prompt composer.
type StyleRules struct {
	HardRules       RuleGroups     `yaml:"hard_rules"`
	SoftPreferences RuleGroups     `yaml:"soft_preferences"`
	OutputTargets   *OutputTargets `yaml:"output_targets,omitempty"`
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
