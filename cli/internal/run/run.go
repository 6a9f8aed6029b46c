// Package run implements the commit flow: validate the repository, check the
// inference server, summarize the staged changes, generate suggestions, let
// the user pick one and create the commit. Used by the CLI and by tests.
package run

import (
	"context"
	"errors"
	"fmt"

	"commitcraft/cli/internal/changes"
	"commitcraft/cli/internal/commitmsg"
	"commitcraft/cli/internal/config"
	"commitcraft/cli/internal/erruser"
	"commitcraft/cli/internal/git"
	"commitcraft/cli/internal/ollama"
	"commitcraft/cli/internal/prompt"
	"commitcraft/cli/internal/tokens"
	"commitcraft/cli/internal/trace"
)

const (
	totalSteps = 5
	// recentCommitCount is how many commits are shown as context before generating.
	recentCommitCount = 3
)

// Inference is the model server. *ollama.Client implements it.
type Inference interface {
	Check(ctx context.Context, model string) ollama.Status
	commitmsg.Generator
}

// UI is the interactive front-end. *ui.UI implements it.
type UI interface {
	Header()
	Step(i, n int, msg string)
	Success(msg string)
	Error(msg string)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
	ShowStatus(st ollama.Status, model string)
	ShowChanges(set changes.Set)
	ShowRecentCommits(commits []git.CommitSummary)
	ChooseSuggestion(suggestions []string) (string, error)
	ConfirmCommit(msg string, auto bool) (bool, error)
	ShowCommitResult(info *git.CommitInfo)
}

// Options configures Commit. RepoPath defaults to "." when empty; UI and
// Inference are required. Tracer may be nil.
type Options struct {
	RepoPath  string
	Config    config.Config
	UI        UI
	Inference Inference
	Tracer    *trace.Tracer
}

// Commit runs the five steps. It returns an erruser error on failure; a
// Cancelled error means the user declined and nothing was committed.
func Commit(ctx context.Context, opts Options) error {
	if opts.UI == nil || opts.Inference == nil {
		return erruser.New("Run failed: UI and inference client are required.", nil)
	}
	if opts.RepoPath == "" {
		opts.RepoPath = "."
	}
	u, cfg, tr := opts.UI, opts.Config, opts.Tracer

	u.Header()

	u.Step(1, totalSteps, "Validating git repository...")
	root, err := git.RepoRoot(opts.RepoPath)
	if err != nil {
		return err
	}
	if err := git.RequireStaged(ctx, root); err != nil {
		return err
	}
	u.Success("Git repository validated")

	u.Step(2, totalSteps, "Checking AI model availability...")
	st := opts.Inference.Check(ctx, cfg.Model)
	u.ShowStatus(st, cfg.Model)
	if err := StatusError(st, cfg.Model); err != nil {
		return err
	}

	u.Step(3, totalSteps, "Analyzing staged changes...")
	set, err := git.StagedChanges(ctx, root)
	if err != nil {
		return erruser.NewKind(erruser.RepositoryError, "Failed to analyze git changes.", err)
	}
	if set.Len() == 0 {
		return git.ErrNoStagedChanges
	}
	u.ShowChanges(set)
	recent, err := git.RecentCommits(root, recentCommitCount)
	if err != nil {
		// Context only; a repository go-git cannot read still commits fine.
		tr.Warn("could not read recent commits", "error", err.Error())
	} else {
		u.ShowRecentCommits(recent)
	}
	summary := changes.Summarize(set)
	if tr.Enabled() {
		tr.Section("Summary")
		tr.Printf("%s\n", summary)
	}

	u.Step(4, totalSteps, "Generating AI commit suggestions...")
	suggestions, err := generate(ctx, u, cfg, opts.Inference, tr, summary)
	if err != nil {
		return err
	}

	u.Step(5, totalSteps, "Processing user selection...")
	chosen, err := u.ChooseSuggestion(suggestions)
	if err != nil {
		return err
	}
	ok, err := u.ConfirmCommit(chosen, cfg.AutoConfirm)
	if err != nil {
		return err
	}
	if !ok {
		u.Info("Commit cancelled")
		return erruser.NewKind(erruser.Cancelled, "Commit cancelled.", nil)
	}
	if err := ctx.Err(); err != nil {
		return erruser.NewKind(erruser.Cancelled, "Operation cancelled.", err)
	}
	info, err := git.Commit(ctx, root, chosen)
	if err != nil {
		return err
	}
	u.ShowCommitResult(info)
	return nil
}

func generate(ctx context.Context, u UI, cfg config.Config, gen commitmsg.Generator, tr *trace.Tracer, summary string) ([]string, error) {
	u.Info("Generating commit message suggestions...")

	est, warning := tokens.CheckPrompt(prompt.Build(summary, cfg.MaxSuggestions), cfg.MaxTokens, cfg.ContextLimit)
	tr.Debug("prompt size", "estimated_tokens", est, "context_limit", cfg.ContextLimit)
	if warning != "" {
		u.Warn(warning)
	}

	genCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	res, err := commitmsg.Suggest(genCtx, gen, commitmsg.Request{
		Summary:        summary,
		Model:          cfg.Model,
		MaxSuggestions: cfg.MaxSuggestions,
		Options: ollama.GenerateOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
		},
	})
	if res != nil {
		traceResult(tr, res)
		for _, r := range res.Rejected {
			u.Debug(fmt.Sprintf("Invalid suggestion filtered: %s (%s)", r.Message, r.Reason))
		}
	}
	if err != nil {
		return nil, err
	}
	u.Success(fmt.Sprintf("Generated %d commit suggestions", len(res.Suggestions)))
	return res.Suggestions, nil
}

func traceResult(tr *trace.Tracer, res *commitmsg.Result) {
	if !tr.Enabled() {
		return
	}
	tr.Section("Prompt")
	tr.Printf("%s\n", res.Prompt)
	tr.Section("Model response")
	tr.Printf("%s\n", res.Raw)
	tr.Section("Parsed")
	for _, p := range res.Parsed {
		tr.Printf("  %s\n", p)
	}
	for _, r := range res.Rejected {
		tr.Debug("rejected suggestion", "message", r.Message, "reason", r.Reason.String())
	}
}

// StatusError converts a non-Connected status into an InferenceUnavailable
// error with remediation hints. Connected returns nil.
func StatusError(st ollama.Status, model string) error {
	switch s := st.(type) {
	case ollama.Connected:
		return nil
	case ollama.ModelMissing:
		return erruser.NewKind(erruser.InferenceUnavailable,
			fmt.Sprintf("Model %s is not installed.", model), nil,
			"Install the model: ollama pull "+model)
	case ollama.Unreachable:
		return erruser.NewKind(erruser.InferenceUnavailable,
			"Cannot connect to Ollama.", errors.New(s.Detail),
			"Start Ollama: ollama serve",
			"Install model: ollama pull "+model)
	default:
		return erruser.NewKind(erruser.InferenceUnavailable, "Unknown inference server status.", nil)
	}
}
