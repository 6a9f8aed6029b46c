package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"commitcraft/cli/internal/config"
	"commitcraft/cli/internal/conventional"
	"commitcraft/cli/internal/erruser"
	"commitcraft/cli/internal/git"
	"commitcraft/cli/internal/ollama"
	"commitcraft/cli/internal/run"
	"commitcraft/cli/internal/trace"
	"commitcraft/cli/internal/ui"
	"commitcraft/cli/internal/version"
)

// errExit is an error that carries an exit code for the CLI. Use errors.As to detect it.
type errExit int

func (e errExit) Error() string {
	return "exit " + strconv.Itoa(int(e))
}

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUnavailable = 2
)

// stdOut and errOut receive command output and error messages. Tests may replace them to capture output.
var (
	stdOut io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// newUI builds the interactive front-end. Tests replace it to script answers.
var newUI = func(debug bool) run.UI {
	return ui.Terminal(os.Stdin, os.Stdout, debug)
}

// newInference builds the model client for cfg.
var newInference = func(cfg config.Config) run.Inference {
	return ollama.NewClient(cfg.OllamaURL, nil)
}

// onInterrupt runs when SIGINT arrives; prompts block on stdin, so the process exits.
var onInterrupt = func() {
	fmt.Fprintln(errOut, "\n🚫 Operation cancelled by user")
	os.Exit(exitOK)
}

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI. It is exported for testing.
func Run() int {
	return runCLI(os.Args[1:])
}

func runCLI(args []string) int {
	rootCmd := &cobra.Command{
		Use:   "commitcraft [repo-path]",
		Short: "Generate conventional commit messages for staged changes with a local model",
		Long: "commitcraft summarizes the staged changes of a git repository, asks a local\n" +
			"Ollama model for conventional commit messages, lets you pick one and commits it.",
		Version: version.String(),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCommit,
	}
	rootCmd.Flags().String("model", "", "Ollama model name (overrides OLLAMA_MODEL and config)")
	rootCmd.Flags().String("ollama-url", "", "Ollama server URL (overrides OLLAMA_URL and config)")
	rootCmd.Flags().BoolP("yes", "y", false, "Commit the chosen message without asking for confirmation")
	rootCmd.Flags().Bool("debug", false, "Show rejected suggestions and commit details")
	rootCmd.Flags().Bool("trace", false, "Print internal steps to stderr (summary, prompt, model response)")
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(stdOut)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			select {
			case <-done:
				// stop() after return, not a signal.
			default:
				onInterrupt()
			}
		case <-done:
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr errExit
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		return reportError(errOut, err)
	}
	return exitOK
}

// reportError prints err with its cause and hints and returns the exit code.
// Cancellation is not an error: nothing was committed and the user chose so.
func reportError(w io.Writer, err error) int {
	kind := erruser.KindOf(err)
	if kind == erruser.Cancelled {
		return exitOK
	}
	fmt.Fprintln(w, err)
	if u := errors.Unwrap(err); u != nil {
		fmt.Fprintf(w, "Details: %v\n", u)
	}
	if hints := erruser.HintsOf(err); len(hints) > 0 {
		fmt.Fprintln(w, "To fix this:")
		for _, h := range hints {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}
	if kind == erruser.InferenceUnavailable {
		return exitUnavailable
	}
	return exitError
}

// overridesFromFlags returns Overrides for the flags that were set.
func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	set := false
	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("model")
		o.Model = &v
		set = true
	}
	if f := cmd.Flags().Lookup("ollama-url"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("ollama-url")
		o.OllamaURL = &v
		set = true
	}
	if f := cmd.Flags().Lookup("yes"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("yes")
		o.AutoConfirm = &v
		set = true
	}
	if f := cmd.Flags().Lookup("debug"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("debug")
		o.Debug = &v
		set = true
	}
	if !set {
		return nil
	}
	return o
}

// loadConfig resolves the repository root for repo-level config files. A
// path outside any repository still loads global and env config; the run
// reports the repository error itself.
func loadConfig(cmd *cobra.Command, repoPath string) (config.Config, string, error) {
	root := ""
	if r, err := git.RepoRoot(repoPath); err == nil {
		root = r
	}
	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		RepoRoot:  root,
		Overrides: overridesFromFlags(cmd),
	})
	return cfg, root, err
}

func repoPathArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

func runCommit(cmd *cobra.Command, args []string) error {
	repoPath := repoPathArg(args)
	cfg, root, err := loadConfig(cmd, repoPath)
	if err != nil {
		return err
	}
	var traceOut io.Writer
	if t, _ := cmd.Flags().GetBool("trace"); t {
		traceOut = os.Stderr
	}
	tr := trace.New(traceOut, cfg.Debug)
	tr.Debug("configuration loaded", "model", cfg.Model, "ollama_url", cfg.OllamaURL, "repo_root", root)

	return run.Commit(cmd.Context(), run.Options{
		RepoPath:  repoPath,
		Config:    cfg,
		UI:        newUI(cfg.Debug),
		Inference: newInference(cfg),
		Tracer:    tr,
	})
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [repo-path]",
		Short: "Verify environment (Ollama, model, configuration)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd, repoPathArg(args))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration:")
	for _, e := range cfg.Entries() {
		fmt.Fprintf(out, "  %-26s %s\n", e.Key, e.Value)
	}
	if root != "" {
		fmt.Fprintf(out, "Repository: %s\n", root)
	} else {
		fmt.Fprintln(out, "Repository: none (not inside a git repository)")
	}

	st := newInference(cfg).Check(cmd.Context(), cfg.Model)
	switch s := st.(type) {
	case ollama.Connected:
		fmt.Fprintln(out, "Ollama OK")
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		return nil
	case ollama.Unreachable:
		fmt.Fprintf(errOut, "Ollama unreachable at %s. Is the server running? For local: ollama serve.\n", cfg.OllamaURL)
		fmt.Fprintf(errOut, "Details: %s\n", s.Detail)
		return errExit(exitUnavailable)
	case ollama.ModelMissing:
		fmt.Fprintf(errOut, "Model %q not found. Pull it with: ollama pull %s\n", cfg.Model, cfg.Model)
		if len(s.Available) > 0 {
			fmt.Fprintf(errOut, "Available models: %v\n", s.Available)
		}
		return errExit(exitError)
	}
	return errExit(exitError)
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the accepted conventional commit types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range conventional.Types() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", t.Type, t.Description)
			}
			return nil
		},
	}
}
