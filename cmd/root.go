// Package cmd implements the CLI command structure for taskmgr.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskmgr/internal/config"
	"github.com/nibzard/taskmgr/internal/menu"
	"github.com/nibzard/taskmgr/internal/store"
	"github.com/nibzard/taskmgr/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the resolved configuration and I/O for one invocation.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *store.Store
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Run executes the taskmgr CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// RunWithIO executes the taskmgr CLI on the given streams.
func RunWithIO(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	logger := cfg.Logger(stderr)
	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  cfg.Store(logger),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	// No subcommand runs the interactive menu
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	logger.Debug("command", "name", subcommand, "file", cfg.TasksFile)

	switch subcommand {
	case "menu":
		return a.menuCommand(ctx, remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "done", "complete":
		return a.doneCommand(remainingArgs)
	case "rm", "remove":
		return a.rmCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "schema":
		return a.schemaCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func (a *app) dispatcher() *menu.Dispatcher {
	return menu.NewDispatcher(a.store, a.logger)
}

// menuCommand runs the numbered menu on stdin and stdout.
func (a *app) menuCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return menu.NewSession(a.dispatcher(), a.stdin, a.stdout).Run(ctx)
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return ui.RunTUI(ctx, a.dispatcher(), a.cfg.TasksFile)
}

// addCommand adds one task whose description is the joined arguments.
func (a *app) addCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("add requires a description")
	}
	result := a.dispatcher().Dispatch(menu.Command{Action: menu.ActionAdd, Arg: strings.Join(args, " ")})
	return a.report(result)
}

// lsCommand lists tasks as text, JSON or YAML.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("taskmgr ls", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "text", "Output format (text, json, yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	switch *format {
	case "text":
		return a.report(a.dispatcher().Dispatch(menu.Command{Action: menu.ActionView}))
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a.store.Load())
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(a.store.Load()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, json, yaml", *format)
	}
}

// doneCommand marks one task complete.
func (a *app) doneCommand(args []string) error {
	if len(args) != 1 {
		return errors.New("done requires exactly one task id")
	}
	result := a.dispatcher().Dispatch(menu.Command{Action: menu.ActionComplete, Arg: args[0]})
	if result.Kind == menu.KindNotFound {
		return fmt.Errorf("task %s: %w", strings.TrimSpace(args[0]), store.ErrNotFound)
	}
	return a.report(result)
}

// rmCommand removes every task with the given id.
func (a *app) rmCommand(args []string) error {
	if len(args) != 1 {
		return errors.New("rm requires exactly one task id")
	}
	return a.report(a.dispatcher().Dispatch(menu.Command{Action: menu.ActionRemove, Arg: args[0]}))
}

// report prints the result lines and surfaces store failures.
func (a *app) report(result menu.Result) error {
	if result.Kind == menu.KindError {
		return result.Err
	}
	for _, l := range result.Lines {
		fmt.Fprintln(a.stdout, l)
	}
	return nil
}

// doctorCommand checks the configuration and the tasks file.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("taskmgr doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.stdout
	fmt.Fprintln(w, "Task Manager Doctor")
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config files:")
	files := config.ConfigFiles()
	if len(files) == 0 {
		fmt.Fprintln(w, "  (none, using defaults)")
	}
	for _, f := range files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintf(w, "  Id policy: %s\n", a.cfg.IDPolicy)
	fmt.Fprintln(w)

	// Tasks file
	tasksPath := a.cfg.TasksFile
	fmt.Fprintf(w, "Tasks file: %s\n", tasksPath)
	info, statErr := os.Stat(tasksPath)
	switch {
	case statErr != nil && os.IsNotExist(statErr):
		fmt.Fprintln(w, "  ⚠️  Not found (created on first add)")
	case statErr != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", statErr)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		result := store.Validate(tasksPath, store.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
		if result.UsedSchema != "" {
			fmt.Fprintf(w, "  Schema: %s\n", result.UsedSchema)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			tasks := a.store.Load()
			fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", len(tasks))
			if *verbose {
				for _, t := range tasks {
					fmt.Fprintf(w, "    - %s\n", t.Entry())
				}
			}
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// schemaCommand prints the embedded task file schema.
func (a *app) schemaCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	_, err := a.stdout.Write(store.Schema())
	return err
}

// configCommand prints the effective configuration, or an example file.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("taskmgr config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}
	if err := toml.NewEncoder(a.stdout).Encode(a.cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskmgr version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskmgr - A small persistent task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskmgr [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu               Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  tui                Launch terminal UI")
	fmt.Fprintln(w, "  add <description>  Add a task")
	fmt.Fprintln(w, "  ls                 List tasks")
	fmt.Fprintln(w, "  done <id>          Mark a task as complete")
	fmt.Fprintln(w, "  rm <id>            Remove a task")
	fmt.Fprintln(w, "  doctor             Check config and tasks file validity")
	fmt.Fprintln(w, "  schema             Print the tasks file JSON Schema")
	fmt.Fprintln(w, "  config             Print the effective configuration")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text, json, yaml (default \"text\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options:")
	fmt.Fprintln(w, "  -v    Show tasks after validation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
