package flow

import "gopkg.in/yaml.v3"

// Selector represents element selection criteria. Pure data structure:
// each driver decides how to translate it into its backend's locators.
type Selector struct {
	// Text to match (contains, case-insensitive on most backends)
	Text string `yaml:"text"`
	// Resource ID or accessibility ID
	ID string `yaml:"id"`
}

// selectorRaw captures inline step fields so a selector can be parsed
// from the same YAML mapping as the step body.
type selectorRaw struct {
	Text     string `yaml:"text"`
	Element  string `yaml:"element"` // Shorthand for text
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timeout  int    `yaml:"timeout"`
	AppID    string `yaml:"appId"`
	Optional bool   `yaml:"optional"`
	Label    string `yaml:"label"`
}

// UnmarshalYAML allows Selector to be unmarshaled from a scalar (text
// shorthand) or a mapping.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Text = node.Value
		return nil
	}

	var raw selectorRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.Text = raw.Text
	s.ID = raw.ID

	if raw.Element != "" && s.Text == "" {
		s.Text = raw.Element
	}

	return nil
}

// IsEmpty returns true if no selector properties are set.
func (s Selector) IsEmpty() bool {
	return s.Text == "" && s.ID == ""
}

// Describe returns a human-readable description.
func (s Selector) Describe() string {
	switch {
	case s.Text != "":
		return s.Text
	case s.ID != "":
		return "#" + s.ID
	default:
		return ""
	}
}

// DescribeQuoted returns a quoted description like text="value" or id="value".
func (s Selector) DescribeQuoted() string {
	switch {
	case s.Text != "":
		return "text=\"" + s.Text + "\""
	case s.ID != "":
		return "id=\"" + s.ID + "\""
	default:
		return ""
	}
}
