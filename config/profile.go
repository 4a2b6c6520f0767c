package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var builtinProfiles []byte

// Profile bundles the prompt, tools and limits of one agent flavour.
type Profile struct {
	Name           string   `yaml:"-"`
	Description    string   `yaml:"description"`
	Greeting       string   `yaml:"greeting"`
	SystemPrompt   string   `yaml:"system_prompt"`
	Tools          []string `yaml:"tools"`
	Temperature    *float64 `yaml:"temperature"`
	MaxSteps       int      `yaml:"max_steps"`
	ShellTimeoutMs int      `yaml:"shell_timeout_ms"`
	Verbose        bool     `yaml:"verbose"`
}

type profilesFile struct {
	Profiles map[string]*Profile `yaml:"profiles"`
}

// Profiles is a set of named profiles.
type Profiles map[string]*Profile

// LoadProfiles returns the built-in profiles merged with the ones in path, if any.
// A profile in path replaces the set fields of the built-in profile with the same name.
func LoadProfiles(path string) (Profiles, error) {
	profiles, err := parseProfiles(builtinProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in profiles: %w", err)
	}
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	overrides, err := parseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for name, o := range overrides {
		base, ok := profiles[name]
		if !ok {
			profiles[name] = o
			continue
		}
		base.merge(o)
	}
	return profiles, nil
}

func parseProfiles(data []byte) (Profiles, error) {
	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	profiles := make(Profiles, len(f.Profiles))
	for name, p := range f.Profiles {
		if p == nil {
			p = &Profile{}
		}
		p.Name = name
		profiles[name] = p
	}
	return profiles, nil
}

func (p *Profile) merge(o *Profile) {
	if o.Description != "" {
		p.Description = o.Description
	}
	if o.Greeting != "" {
		p.Greeting = o.Greeting
	}
	if o.SystemPrompt != "" {
		p.SystemPrompt = o.SystemPrompt
	}
	if o.Tools != nil {
		p.Tools = o.Tools
	}
	if o.Temperature != nil {
		p.Temperature = o.Temperature
	}
	if o.MaxSteps > 0 {
		p.MaxSteps = o.MaxSteps
	}
	if o.ShellTimeoutMs > 0 {
		p.ShellTimeoutMs = o.ShellTimeoutMs
	}
	if o.Verbose {
		p.Verbose = true
	}
}

// Get returns the named profile.
func (ps Profiles) Get(name string) (*Profile, error) {
	p, ok := ps[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (available: %v)", name, ps.Names())
	}
	return p, nil
}

// Names returns the profile names, sorted.
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EffectiveMaxSteps resolves the step limit: config first, then profile, then DefaultMaxSteps.
func (c *Config) EffectiveMaxSteps(p *Profile) int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	if p != nil && p.MaxSteps > 0 {
		return p.MaxSteps
	}
	return DefaultMaxSteps
}

// EffectiveShellTimeout resolves the shell timeout: config first, then profile, then DefaultShellTimeout.
func (c *Config) EffectiveShellTimeout(p *Profile) time.Duration {
	if c.ShellTimeout > 0 {
		return c.ShellTimeout
	}
	if p != nil && p.ShellTimeoutMs > 0 {
		return time.Duration(p.ShellTimeoutMs) * time.Millisecond
	}
	return DefaultShellTimeout
}
