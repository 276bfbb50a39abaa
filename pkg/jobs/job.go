// Package jobs loads job files and runs their steps against the bridge one
// at a time.
package jobs

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/teei/idctl/pkg/bridge"
)

// Step is one command of a job.
type Step struct {
	Name            string         `json:"name" yaml:"name" toml:"name"`
	Action          string         `json:"action" yaml:"action" toml:"action"`
	Options         bridge.Options `json:"options,omitempty" yaml:"options,omitempty" toml:"options"`
	ContinueOnError bool           `json:"continue_on_error,omitempty" yaml:"continue_on_error,omitempty" toml:"continue_on_error"`
}

// Job is an ordered list of steps sent to one application.
type Job struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Application string            `json:"application" yaml:"application" toml:"application"`
	Vars        map[string]string `json:"vars,omitempty" yaml:"vars,omitempty" toml:"vars"`
	Steps       []Step            `json:"steps" yaml:"steps" toml:"steps"`
}

// Load reads a job file. Files ending in .toml are TOML, anything else YAML.
func Load(fs afero.Fs, path string) (*Job, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read job file %s: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	job, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return job, nil
}

// Parse decodes a job in the given format, "yaml" or "toml".
func Parse(data []byte, format string) (*Job, error) {
	job := &Job{}
	switch format {
	case "toml":
		meta, err := toml.Decode(string(data), job)
		if err != nil {
			return nil, err
		}
		if !meta.IsDefined("application") {
			job.Application = bridge.DefaultApplication
		}
		for _, key := range meta.Undecoded() {
			log.Warnf("Ignoring unknown job key %s", key)
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(job); err != nil {
			return nil, err
		}
		if job.Application == "" {
			job.Application = bridge.DefaultApplication
		}
	default:
		return nil, fmt.Errorf("unsupported job format %q", format)
	}
	for i := range job.Steps {
		if job.Steps[i].Name == "" {
			job.Steps[i].Name = fmt.Sprintf("step %d", i+1)
		}
		if job.Steps[i].Options == nil {
			job.Steps[i].Options = bridge.Options{}
		}
	}
	return job, nil
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces ${VAR} in every string option with set, falling back
// to the job's own vars. Placeholders that resolve to nothing are an error.
func (j *Job) Substitute(set map[string]string) error {
	vars := map[string]string{}
	for k, v := range j.Vars {
		vars[k] = v
	}
	for k, v := range set {
		vars[k] = v
	}

	missing := map[string]struct{}{}
	for i := range j.Steps {
		j.Steps[i].Options = substituteMap(j.Steps[i].Options, vars, missing)
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for k := range missing {
			names = append(names, k)
		}
		sort.Strings(names)
		return fmt.Errorf("unresolved variables: %s (use --set NAME=VALUE)", strings.Join(names, ", "))
	}
	return nil
}

func substituteMap(m map[string]interface{}, vars map[string]string, missing map[string]struct{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = substituteValue(v, vars, missing)
	}
	return out
}

func substituteValue(v interface{}, vars map[string]string, missing map[string]struct{}) interface{} {
	switch t := v.(type) {
	case string:
		return placeholder.ReplaceAllStringFunc(t, func(m string) string {
			name := placeholder.FindStringSubmatch(m)[1]
			if val, ok := vars[name]; ok {
				return val
			}
			missing[name] = struct{}{}
			return m
		})
	case map[string]interface{}:
		return substituteMap(t, vars, missing)
	case bridge.Options:
		return bridge.Options(substituteMap(t, vars, missing))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = substituteValue(e, vars, missing)
		}
		return out
	default:
		return v
	}
}

// Validate checks the job can be run. Unknown actions are allowed but logged.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Application) == "" {
		return fmt.Errorf("job %s has no application", j.Name)
	}
	if len(j.Steps) == 0 {
		return fmt.Errorf("job %s has no steps", j.Name)
	}
	for i, s := range j.Steps {
		if strings.TrimSpace(s.Action) == "" {
			return fmt.Errorf("step %d (%s) has no action", i+1, s.Name)
		}
		if !bridge.IsKnownAction(s.Action) {
			log.Warnf("Step %q uses action %s, which idctl does not know", s.Name, s.Action)
		}
		if s.Action == bridge.ActionExecuteExtendScript {
			code, _ := s.Options["code"].(string)
			if _, err := bridge.ExtendScriptOptions(code); err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, s.Name, err)
			}
		}
	}
	return nil
}

// Commands builds the bridge commands for every step, in order.
func (j *Job) Commands() []bridge.Command {
	cmds := make([]bridge.Command, 0, len(j.Steps))
	for _, s := range j.Steps {
		cmd := bridge.NewCommand(s.Action, s.Options)
		cmd.Application = j.Application
		cmds = append(cmds, cmd)
	}
	return cmds
}
