package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/reinhart/loopagent/internal/assistant"
	"github.com/reinhart/loopagent/internal/configuration"
	"github.com/reinhart/loopagent/internal/logger"
	"github.com/reinhart/loopagent/internal/ui"
)

const limitNotice = "Max tool iterations exceeded."

var errNoPrompt = errors.New("a prompt is required")

type options struct {
	prompt     string
	configPath string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("loopagent", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.prompt, "p", "", "prompt to send to the model")
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.prompt == "" {
		return nil, errNoPrompt
	}
	return opts, nil
}

func newRegistry(cfg *configuration.Config) *assistant.ToolRegistry {
	registry := assistant.NewToolRegistry()
	registry.Register(&assistant.ReadFileTool{MaxBytes: cfg.Limits.MaxReadBytes})
	registry.Register(&assistant.WriteFileTool{MaxBytes: cfg.Limits.MaxWriteBytes})
	registry.Register(&assistant.BashTool{MaxOutputBytes: cfg.Limits.MaxOutputBytes})
	return registry
}

// run executes one prompt and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	report := ui.NewReporter(stderr)

	opts, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			report.Error(err)
			report.Hint("usage: loopagent -p <prompt> [-config <file>]")
		}
		return 1
	}

	cfg, cfgPath, err := configuration.LoadConfig(opts.configPath)
	if err != nil {
		report.Error(fmt.Errorf("loading config: %w", err))
		return 1
	}

	logger.Init(cfg.Agent.Debug)
	if logger.DebugMode {
		runID := uuid.NewString()[:8]
		f, err := tea.LogToFile(cfg.Agent.LogFile, "loopagent "+runID)
		if err != nil {
			report.Error(fmt.Errorf("could not open %s: %w", cfg.Agent.LogFile, err))
			return 1
		}
		defer f.Close()
		logger.SetOutput(f)
		logger.Debug("Logger initialized (config: %q, model: %s, base url: %s)", cfgPath, cfg.LLM.Model, cfg.LLM.BaseURL)
	}

	provider := assistant.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.RequestTimeout.Duration)
	agent := assistant.NewAgent(provider, newRegistry(cfg),
		assistant.WithMaxIterations(cfg.Agent.MaxIterations),
		assistant.WithMaxMessages(cfg.Agent.MaxMessages),
	)

	result, err := agent.Run(context.Background(), opts.prompt)
	if err != nil {
		report.Error(err)
		return 1
	}
	if result.LimitReached {
		report.Warn(limitNotice)
		return 0
	}
	if result.Content != "" {
		fmt.Fprintln(stdout, result.Content)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
