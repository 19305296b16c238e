// Package pipeline runs the draft and revise passes over a workspace.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/writer-harness/internal/generate"
	"github.com/rcliao/writer-harness/internal/lint"
	"github.com/rcliao/writer-harness/internal/lore"
	"github.com/rcliao/writer-harness/internal/model"
	"github.com/rcliao/writer-harness/internal/prompt"
	"github.com/rcliao/writer-harness/internal/workspace"
)

// ErrNoGenerator is returned when a generating pass has no Generator.
var ErrNoGenerator = errors.New("no generator configured")

// Env is everything a pass needs besides its own inputs.
type Env struct {
	Root      string
	Generator generate.Generator
	MaxTokens int
	Logger    *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Inputs is the workspace state loaded for one pass.
type Inputs struct {
	Ledger  *model.Ledger
	Rules   *model.StyleRules
	Checker *lint.StyleChecker
}

// LoadInputs reads the ledger, style rules and pattern set from root.
func LoadInputs(root string, logger *slog.Logger) (*Inputs, error) {
	ws := workspace.Open(root)
	ledger, err := ws.LoadLedger()
	if err != nil {
		return nil, err
	}
	rules, err := ws.LoadStyleRules()
	if err != nil {
		return nil, err
	}
	set, err := ws.LoadPatternSet()
	if err != nil {
		return nil, err
	}
	return &Inputs{
		Ledger:  ledger,
		Rules:   rules,
		Checker: lint.NewStyleChecker(set, logger),
	}, nil
}

// Lint checks text against the workspace's ledger and patterns.
func Lint(root, text string, logger *slog.Logger) (lint.Report, error) {
	in, err := LoadInputs(root, logger)
	if err != nil {
		return lint.Report{}, err
	}
	return lint.Run(text, in.Checker, in.Ledger), nil
}

// DraftParams holds parameters for a draft pass.
type DraftParams struct {
	ScenePath string
	// LoreK caps retrieved lore snippets; 0 uses lore.DefaultTopK.
	LoreK  int
	NoLore bool
}

// DraftResult is the outcome of a draft pass.
type DraftResult struct {
	Seed     string
	Keywords []string
	Lore     []string
	Prompt   string
	Text     string
	Report   lint.Report
}

// Draft generates prose from a scene file's seed and lints it.
func Draft(ctx context.Context, env Env, p DraftParams) (*DraftResult, error) {
	if env.Generator == nil {
		return nil, ErrNoGenerator
	}
	log := env.logger()

	content, err := os.ReadFile(p.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	in, err := LoadInputs(env.Root, log)
	if err != nil {
		return nil, err
	}

	res := &DraftResult{Seed: workspace.ExtractSeed(string(content))}

	if !p.NoLore {
		res.Keywords = lore.ExtractKeywords(res.Seed + " " + in.Ledger.LocationCurrent)
		entries, err := lore.NewLoader(nil, log).Load(workspace.Open(env.Root).Path(workspace.LoreDir))
		if err != nil {
			return nil, fmt.Errorf("load lore: %w", err)
		}
		opts := lore.DefaultOptions()
		if p.LoreK > 0 {
			opts.TopK = p.LoreK
		}
		res.Lore = lore.Retrieve(res.Keywords, entries, opts)
		log.Debug("Retrieved lore", "keywords", res.Keywords, "entries", len(entries), "snippets", len(res.Lore))
	}

	res.Prompt, err = prompt.BuildDraft(in.Ledger, in.Rules, res.Seed, res.Lore)
	if err != nil {
		return nil, err
	}

	log.Info("Generating draft", "scene", p.ScenePath, "provider", env.Generator.Name(), "model", env.Generator.Model())
	res.Text, err = env.Generator.Generate(ctx, res.Prompt, env.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	res.Report = lint.Run(res.Text, in.Checker, in.Ledger)
	log.Info("Draft linted", "style", len(res.Report.Style), "continuity", len(res.Report.Continuity))
	return res, nil
}

// ReviseParams holds parameters for a revise pass.
type ReviseParams struct {
	DraftText string
}

// ReviseResult is the outcome of a revise pass.
type ReviseResult struct {
	// Before is the lint report of the input draft.
	Before lint.Report
	Prompt string
	Text   string
	// Report is the lint report of the revised text.
	Report lint.Report
}

// Revise lints a draft, asks the generator to fix what was found, and lints
// the result.
func Revise(ctx context.Context, env Env, p ReviseParams) (*ReviseResult, error) {
	if env.Generator == nil {
		return nil, ErrNoGenerator
	}
	log := env.logger()

	in, err := LoadInputs(env.Root, log)
	if err != nil {
		return nil, err
	}

	res := &ReviseResult{Before: lint.Run(p.DraftText, in.Checker, in.Ledger)}
	res.Prompt, err = prompt.BuildRevise(p.DraftText,
		lint.Messages(res.Before.Style), lint.Messages(res.Before.Continuity),
		in.Ledger, in.Rules)
	if err != nil {
		return nil, err
	}

	log.Info("Generating revision", "violations", res.Before.Total(), "provider", env.Generator.Name(), "model", env.Generator.Model())
	res.Text, err = env.Generator.Generate(ctx, res.Prompt, env.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate revision: %w", err)
	}

	res.Report = lint.Run(res.Text, in.Checker, in.Ledger)
	log.Info("Revision linted", "style", len(res.Report.Style), "continuity", len(res.Report.Continuity))
	return res, nil
}
