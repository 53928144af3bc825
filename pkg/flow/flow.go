// Package flow handles parsing and representation of humanflow YAML flow files.
package flow

// Flow represents a parsed flow file.
type Flow struct {
	SourcePath string // Path to the source file
	Config     Config // Flow configuration (appId, name, env)
	Steps      []Step // Steps to execute, in order
}

// Config represents flow-level configuration.
type Config struct {
	AppID     string            `yaml:"appId"`
	Name      string            `yaml:"name"`
	Env       map[string]string `yaml:"env"`
	TimeoutMs int               `yaml:"timeout"` // Run-level deadline in ms (0 = none)
}
