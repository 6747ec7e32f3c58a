//go:build !windows

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/runcap/runcap"
	"github.com/runcap/runcap/proc"
	"github.com/spf13/cobra"
)

// exitTimeout is the shell convention for a timed-out command.
const exitTimeout = 124

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command under a routing policy",
	Long: `Runs a command, capturing and/or passing through each output
stream per the routing policy. Captured output is printed after the
child terminates; passthrough output streams live. Exits with the
child's exit code, or 124 on timeout.

A task file (--task) supplies the command and settings in YAML; flags
and positional arguments override it.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		task := defaultTask()
		if path, _ := cmd.Flags().GetString("task"); path != "" {
			loaded, err := loadTask(path)
			if err != nil {
				fatal(err)
			}
			task = loaded
		}
		applyFlags(cmd, args, &task)

		if len(task.argv()) == 0 {
			fatal(errors.New("no command given: pass one after --, or use --task"))
		}

		code, err := runTask(cmd, task)
		if err != nil {
			if runcap.IsTimeout(err) {
				fmt.Fprintf(os.Stderr, "runcap: %v\n", err)
				os.Exit(exitTimeout)
			}
			fatal(err)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("task", "", "YAML task file supplying command and settings")
	runCmd.Flags().String("capture", "", "Streams to capture: none, stdout, stderr, all")
	runCmd.Flags().String("passthrough", "", "Streams to pass through: none, stdout, stderr, all")
	runCmd.Flags().DurationP("timeout", "t", 0, "Kill the child after this long (0 = no limit)")
	runCmd.Flags().StringP("dir", "C", "", "Working directory for the child")
	runCmd.Flags().StringArrayP("env", "e", nil, "Environment override KEY=VALUE (repeatable)")
	runCmd.Flags().String("stdin", "", "File to feed the child's standard input")
}

// applyFlags overlays command-line flags onto a task.
func applyFlags(cmd *cobra.Command, args []string, task *Task) {
	if len(args) > 0 {
		task.Command = args[0]
		task.Args = args[1:]
	}
	if cmd.Flags().Changed("capture") {
		v, _ := cmd.Flags().GetString("capture")
		task.Capture = v
	}
	if cmd.Flags().Changed("passthrough") {
		v, _ := cmd.Flags().GetString("passthrough")
		task.Passthrough = v
	}
	if cmd.Flags().Changed("timeout") {
		v, _ := cmd.Flags().GetDuration("timeout")
		task.Timeout = v
	}
	if cmd.Flags().Changed("dir") {
		v, _ := cmd.Flags().GetString("dir")
		task.Dir = v
	}
	if envs, _ := cmd.Flags().GetStringArray("env"); len(envs) > 0 {
		if task.Env == nil {
			task.Env = make(map[string]string, len(envs))
		}
		for _, kv := range envs {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				fatal(fmt.Errorf("malformed --env %q: want KEY=VALUE", kv))
			}
			task.Env[name] = value
		}
	}
	if cmd.Flags().Changed("stdin") {
		v, _ := cmd.Flags().GetString("stdin")
		task.StdinFile = v
	}
}

// runTask executes the task and returns the child's exit code.
func runTask(cmd *cobra.Command, task Task) (int, error) {
	policy, err := task.policy()
	if err != nil {
		return -1, err
	}

	command := runcap.Command{
		Args: task.argv(),
		Env:  task.Env,
		Dir:  task.Dir,
	}
	if task.StdinFile != "" {
		f, err := os.Open(task.StdinFile)
		if err != nil {
			return -1, err
		}
		defer f.Close()
		command.Stdin = f
	}

	engOpts := []proc.EngineOption{}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		engOpts = append(engOpts, proc.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	eng := proc.NewEngine(engOpts...)

	opts := []runcap.Option{runcap.WithPolicy(policy)}
	if task.Timeout > 0 {
		opts = append(opts, runcap.WithTimeout(task.Timeout))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, err := proc.Run(ctx, eng, command, runcap.RawParser, opts...)
	if err != nil {
		return -1, err
	}
	if policy.Capture != runcap.NoStreams {
		os.Stdout.Write(resp.Output(runcap.Stdout))
		os.Stderr.Write(resp.Output(runcap.Stderr))
	}
	return resp.ExitCode, nil
}

// fatal reports a usage or runtime error and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "runcap: %v\n", err)
	os.Exit(1)
}
