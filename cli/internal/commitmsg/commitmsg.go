// Package commitmsg turns a staged-change summary into conventional commit
// message suggestions: prompt, one generate call, parse, validate, select.
package commitmsg

import (
	"context"
	"errors"
	"fmt"

	"commitcraft/cli/internal/conventional"
	"commitcraft/cli/internal/erruser"
	"commitcraft/cli/internal/ollama"
	"commitcraft/cli/internal/prompt"
)

// Generator is the inference call. *ollama.Client implements it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, opts ollama.GenerateOptions) (*ollama.GenerateResult, error)
}

// Request describes one generation.
type Request struct {
	Summary        string
	Model          string
	MaxSuggestions int
	Options        ollama.GenerateOptions
}

// Rejection is a parsed candidate that failed validation.
type Rejection struct {
	Message string
	Reason  conventional.Reason
}

// Result holds every intermediate value of a generation, for tracing.
type Result struct {
	Prompt      string
	Raw         string
	Parsed      []string
	Rejected    []Rejection
	Suggestions []string
}

// Suggest builds the prompt, calls gen once and returns the validated
// suggestions. It fails with GenerationEmpty when nothing could be parsed
// and NoValidSuggestions when nothing passed validation. The partial Result
// is returned alongside those errors.
func Suggest(ctx context.Context, gen Generator, req Request) (*Result, error) {
	if gen == nil {
		return nil, errors.New("commitmsg: nil generator")
	}
	res := &Result{Prompt: prompt.Build(req.Summary, req.MaxSuggestions)}
	out, err := gen.Generate(ctx, req.Model, res.Prompt, req.Options)
	if err != nil {
		return nil, classify(err)
	}
	res.Raw = out.Response
	res.Parsed = Parse(out.Response, req.MaxSuggestions)
	if len(res.Parsed) == 0 {
		return res, erruser.NewKind(erruser.GenerationEmpty, "Failed to generate commit suggestions.", nil,
			"The model answered without any commit-message lines.",
			"Run the command again; a different sampling usually helps.")
	}
	valid := func(msg string) bool {
		ok, reason := conventional.Validate(msg)
		if !ok {
			res.Rejected = append(res.Rejected, Rejection{Message: msg, Reason: reason})
		}
		return ok
	}
	res.Suggestions = Select(res.Parsed, valid, req.MaxSuggestions)
	if len(res.Suggestions) == 0 {
		return res, erruser.NewKind(erruser.NoValidSuggestions, "No valid commit suggestions generated.", nil,
			fmt.Sprintf("All %d candidates failed conventional-commit validation.", len(res.Parsed)),
			"Run the command again; a different sampling usually helps.")
	}
	return res, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ollama.ErrTimeout):
		return erruser.NewKind(erruser.InferenceTimeout, "The model did not answer in time.", err,
			"Run the command again, or raise REQUEST_TIMEOUT.")
	case errors.Is(err, context.Canceled):
		return erruser.NewKind(erruser.Cancelled, "Operation cancelled.", err)
	case errors.Is(err, ollama.ErrUnreachable):
		return erruser.NewKind(erruser.InferenceUnavailable, "Failed to generate commit suggestions.", err,
			"Check that Ollama is running: ollama serve")
	default:
		return erruser.NewKind(erruser.InferenceUnavailable, "Failed to generate commit suggestions.", err)
	}
}
