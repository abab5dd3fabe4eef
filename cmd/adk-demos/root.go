// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-a2a/adk-demos/agents/adcampaign"
	"github.com/go-a2a/adk-demos/agents/equityresearch"
	"github.com/go-a2a/adk-demos/agents/retaillocation"
	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/codeexec"
	"github.com/go-a2a/adk-demos/config"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/seed"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "adk-demos",
		Short:         "Demo conversational agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCampaignCommand(), newEquityCommand(), newRetailCommand())
	return root
}

// turnFunc is the shared shape of every agent's ProcessTurn.
type turnFunc func(ctx context.Context, sess *session.Session, userMessage string) (string, error)

// runtime bundles the dependencies the agents share.
type runtime struct {
	cfg       *config.Config
	model     model.Model
	store     *seed.Store
	executor  *tool.CodeExecutionTool
	artifacts artifact.Service
	closers   []func() error
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i]()
	}
}

func buildRuntime(ctx context.Context) (*runtime, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	ctx = logging.NewContext(ctx, logger)

	r := &runtime{cfg: cfg}

	m, err := model.NewRegistry().NewModel(ctx, cfg.GoogleAPIKey, cfg.ModelName)
	if err != nil {
		return nil, nil, fmt.Errorf("create model %s: %w", cfg.ModelName, err)
	}
	r.model = m

	store, err := seed.Open(cfg.SeedDBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.SeedDemoData(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	r.store = store
	r.closers = append(r.closers, store.Close)

	execCfg := codeexec.DefaultConfig()
	execCfg.Timeout = cfg.SandboxTimeout
	var executor codeexec.Executor
	switch cfg.Sandbox {
	case "container":
		executor, err = codeexec.NewContainerExecutor(ctx, execCfg)
	default:
		executor, err = codeexec.NewLocalExecutor(execCfg, codeexec.WithAllowUnsafe(true))
	}
	if err != nil {
		r.close()
		return nil, nil, fmt.Errorf("create %s sandbox: %w", cfg.Sandbox, err)
	}
	r.executor = tool.NewCodeExecutionTool(executor)
	r.closers = append(r.closers, executor.Close)

	switch cfg.ArtifactBackend {
	case "gcs":
		r.artifacts, err = artifact.NewGCSService(ctx, cfg.GCSBucket)
	case "file":
		r.artifacts, err = artifact.NewFileService(cfg.ArtifactDir)
	default:
		r.artifacts = artifact.NewInMemoryService()
	}
	if err != nil {
		r.close()
		return nil, nil, fmt.Errorf("create %s artifact service: %w", cfg.ArtifactBackend, err)
	}

	return r, ctx, nil
}

func newRetailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retail",
		Short: "Retail location scout agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ctx, err := buildRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer r.close()

			var opts []retaillocation.Option
			if r.cfg.MapsAPIKey != "" {
				places, err := tool.NewPlacesTool(r.cfg.MapsAPIKey)
				if err != nil {
					return err
				}
				opts = append(opts, retaillocation.WithPlaces(places))
			}
			app := retaillocation.NewApp(r.model, r.store, r.executor, r.artifacts, opts...)
			return chatLoop(ctx, retaillocation.AppName, r.cfg.RunTimeout, app.ProcessTurn)
		},
	}
}

func newEquityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "equity",
		Short: "Equity research agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ctx, err := buildRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer r.close()

			var opts []equityresearch.Option
			if search := newSearchTool(ctx, r.cfg); search != nil {
				opts = append(opts, equityresearch.WithSearch(search))
			}
			app := equityresearch.NewApp(r.model, r.store, r.executor, r.artifacts, opts...)
			return chatLoop(ctx, equityresearch.AppName, r.cfg.RunTimeout, app.ProcessTurn)
		},
	}
}

func newCampaignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "campaign",
		Short: "Ad campaign agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ctx, err := buildRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer r.close()

			var opts []adcampaign.Option
			if search := newSearchTool(ctx, r.cfg); search != nil {
				opts = append(opts, adcampaign.WithSearch(search))
			}
			// The media branches need the Gemini client even when another
			// model writes the copy.
			if gemini, ok := r.model.(*model.Gemini); ok {
				opts = append(opts,
					adcampaign.WithImageGen(tool.NewImageGenTool(gemini.Client(), tool.ImageGenDefaultModel)),
					adcampaign.WithSpeechGen(tool.NewSpeechGenTool(gemini.Client(), tool.SpeechGenDefaultModel)),
				)
			}
			app := adcampaign.NewApp(r.model, r.artifacts, opts...)
			return chatLoop(ctx, adcampaign.AppName, r.cfg.RunTimeout, app.ProcessTurn)
		},
	}
}

func newSearchTool(ctx context.Context, cfg *config.Config) *tool.WebSearchTool {
	if cfg.SearchAPIKey == "" || cfg.SearchEngineID == "" {
		return nil
	}
	search, err := tool.NewWebSearchTool(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "search tool unavailable", "error", err)
		return nil
	}
	return search
}

// chatLoop reads user messages from stdin until EOF or "exit". Every turn
// runs under runTimeout so a stuck pipeline branch surfaces as an error
// instead of hanging the prompt.
func chatLoop(ctx context.Context, appName string, runTimeout time.Duration, turn turnFunc) error {
	sessions := session.NewInMemoryService()
	sess, err := sessions.CreateSession(ctx, appName, "local", "", nil)
	if err != nil {
		return err
	}

	fmt.Printf("%s ready. Type your request (or \"exit\").\n", appName)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			break
		}

		turnCtx, cancel := context.WithTimeout(ctx, runTimeout)
		reply, err := turn(turnCtx, sess, msg)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}
