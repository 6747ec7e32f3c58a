//go:build !windows

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/runcap/runcap"
	"gopkg.in/yaml.v3"
)

// Task is the YAML task-file schema: what to run and how to route it.
//
//	command: make
//	args: [test, -j4]
//	dir: /srv/build
//	env:
//	  CI: "1"
//	capture: all
//	passthrough: stderr
//	timeout: 5m
//	stdin: input.txt
type Task struct {
	Command     string            `yaml:"command"`
	Args        []string          `yaml:"args"`
	Dir         string            `yaml:"dir"`
	Env         map[string]string `yaml:"env"`
	Capture     string            `yaml:"capture"`
	Passthrough string            `yaml:"passthrough"`
	Timeout     time.Duration     `yaml:"timeout"`
	StdinFile   string            `yaml:"stdin"`
}

func defaultTask() Task {
	return Task{Capture: "all", Passthrough: "none"}
}

// loadTask reads and validates a YAML task file. Fields absent from the
// file keep the defaults.
func loadTask(path string) (Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{}, fmt.Errorf("task file: %w", err)
	}
	task := defaultTask()
	if err := yaml.Unmarshal(data, &task); err != nil {
		return Task{}, fmt.Errorf("task file %s: %w", path, err)
	}
	return task, nil
}

// argv returns the full argument vector, or nil when no command is set.
func (t Task) argv() []string {
	if t.Command == "" {
		return nil
	}
	return append([]string{t.Command}, t.Args...)
}

// policy resolves the capture/passthrough fields into a RoutingPolicy.
func (t Task) policy() (runcap.Policy, error) {
	capture, ok := runcap.ParseStreamSet(t.Capture)
	if !ok {
		return runcap.Policy{}, fmt.Errorf("bad capture set %q", t.Capture)
	}
	passthrough, ok := runcap.ParseStreamSet(t.Passthrough)
	if !ok {
		return runcap.Policy{}, fmt.Errorf("bad passthrough set %q", t.Passthrough)
	}
	return runcap.Policy{Capture: capture, Passthrough: passthrough}, nil
}
