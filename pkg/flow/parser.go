package flow

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a single YAML flow file.
func ParseFile(path string) (*Flow, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided flow file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses YAML flow content. A flow file is either a bare list of
// steps, or a config document followed by "---" and the step list.
func Parse(data []byte, sourcePath string) (*Flow, error) {
	parts := splitYAMLDocuments(string(data))

	flow := &Flow{
		SourcePath: sourcePath,
	}

	if len(parts) == 0 {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    1,
			Message: "empty flow file",
		}
	}

	if len(parts) == 1 {
		if err := parseSteps(parts[0], flow); err != nil {
			return nil, err
		}
	} else {
		if err := parseConfig(parts[0], flow); err != nil {
			return nil, err
		}
		if err := parseSteps(parts[1], flow); err != nil {
			return nil, err
		}
	}

	if len(flow.Steps) == 0 {
		return nil, &ParseError{
			Path:    sourcePath,
			Message: "flow has no steps",
		}
	}

	return flow, nil
}

func splitYAMLDocuments(content string) []string {
	var parts []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "---" && strings.TrimLeft(line, " \t") == "---" {
			if strings.TrimSpace(current.String()) != "" {
				parts = append(parts, current.String())
			}
			current.Reset()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}

	if strings.TrimSpace(current.String()) != "" {
		parts = append(parts, current.String())
	}

	return parts
}

func parseConfig(content string, flow *Flow) error {
	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return &ParseError{
			Path:    flow.SourcePath,
			Message: fmt.Sprintf("invalid config: %v", err),
		}
	}
	flow.Config = config
	return nil
}

func parseSteps(content string, flow *Flow) error {
	var rawSteps []yaml.Node
	if err := yaml.Unmarshal([]byte(content), &rawSteps); err != nil {
		return &ParseError{
			Path:    flow.SourcePath,
			Message: fmt.Sprintf("invalid steps: %v", err),
		}
	}

	for _, node := range rawSteps {
		step, err := parseStep(&node, flow.SourcePath)
		if err != nil {
			return err
		}
		flow.Steps = append(flow.Steps, step)
	}

	return nil
}

func parseStep(node *yaml.Node, sourcePath string) (Step, error) {
	// Handle scalar nodes like "- launchApp" (no colon, no params)
	if node.Kind == yaml.ScalarNode {
		kind := StepKind(node.Value)
		if !isStepKind(kind) {
			return Step{}, &ParseError{
				Path:    sourcePath,
				Line:    node.Line,
				Message: fmt.Sprintf("unknown step kind: %s", node.Value),
			}
		}
		return Step{Kind: kind}, nil
	}

	if node.Kind != yaml.MappingNode {
		return Step{}, &ParseError{
			Path:    sourcePath,
			Line:    node.Line,
			Message: "step must be a mapping or command name",
		}
	}

	kind, valueNode := extractStepKind(node)
	if kind == "" || valueNode == nil {
		return Step{}, &ParseError{
			Path:    sourcePath,
			Line:    node.Line,
			Message: "unknown step kind",
		}
	}

	return decodeStep(kind, valueNode, sourcePath)
}

func extractStepKind(node *yaml.Node) (StepKind, *yaml.Node) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := StepKind(node.Content[i].Value)
		if isStepKind(key) {
			return key, node.Content[i+1]
		}
	}
	return "", nil
}

func isStepKind(key StepKind) bool {
	switch key {
	case StepLaunchApp, StepLocate, StepTap, StepType, StepWait:
		return true
	}
	return false
}

func decodeStep(kind StepKind, valueNode *yaml.Node, sourcePath string) (Step, error) {
	step := Step{Kind: kind}

	if valueNode.Kind == yaml.ScalarNode {
		switch kind {
		case StepLaunchApp:
			step.AppID = valueNode.Value
		case StepType:
			step.Text = valueNode.Value
		default:
			step.Selector.Text = valueNode.Value
		}
		return step, nil
	}

	if valueNode.Kind != yaml.MappingNode {
		return Step{}, &ParseError{
			Path:    sourcePath,
			Line:    valueNode.Line,
			Message: fmt.Sprintf("%s: step body must be a scalar or mapping", kind),
		}
	}

	var raw selectorRaw
	if err := valueNode.Decode(&raw); err != nil {
		return Step{}, &ParseError{
			Path:    sourcePath,
			Line:    valueNode.Line,
			Message: err.Error(),
		}
	}

	step.Name = raw.Name
	step.TimeoutMs = raw.Timeout
	step.AppID = raw.AppID
	step.Optional = raw.Optional
	step.Label = raw.Label
	step.Selector = Selector{Text: raw.Text, ID: raw.ID}

	if raw.Element != "" && step.Selector.Text == "" {
		step.Selector.Text = raw.Element
	}

	// For type steps "text" is the text to send, not a selector.
	if kind == StepType {
		step.Text = raw.Text
		step.Selector.Text = raw.Element
	}

	return step, nil
}

// Validate checks that every step carries what its kind requires. It
// returns the first problem found as a ParseError.
func (f *Flow) Validate() error {
	for i, step := range f.Steps {
		if step.Kind.NeedsSelector() && step.Selector.IsEmpty() {
			return &ParseError{
				Path:    f.SourcePath,
				Message: fmt.Sprintf("step %d (%s): missing selector", i+1, step.Kind),
			}
		}
		if step.Kind == StepLaunchApp && step.AppID == "" && f.Config.AppID == "" {
			return &ParseError{
				Path:    f.SourcePath,
				Message: fmt.Sprintf("step %d (launchApp): missing appId", i+1),
			}
		}
		if step.TimeoutMs < 0 {
			return &ParseError{
				Path:    f.SourcePath,
				Message: fmt.Sprintf("step %d (%s): negative timeout", i+1, step.Kind),
			}
		}
	}
	return nil
}

// ApplyEnv expands ${VAR} references in step text, selectors and app
// IDs. Overrides take priority over the flow's own env block; unknown
// variables expand to the empty string.
func (f *Flow) ApplyEnv(overrides map[string]string) {
	lookup := func(key string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return f.Config.Env[key]
	}

	f.Config.AppID = os.Expand(f.Config.AppID, lookup)
	for i := range f.Steps {
		s := &f.Steps[i]
		s.Text = os.Expand(s.Text, lookup)
		s.AppID = os.Expand(s.AppID, lookup)
		s.Selector.Text = os.Expand(s.Selector.Text, lookup)
		s.Selector.ID = os.Expand(s.Selector.ID, lookup)
	}
}
