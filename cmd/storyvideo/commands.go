package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mickaelli/StoryToVideo/internal/appdata"
	"github.com/mickaelli/StoryToVideo/internal/client"
	"github.com/mickaelli/StoryToVideo/internal/config"
	"github.com/mickaelli/StoryToVideo/internal/events"
	"github.com/mickaelli/StoryToVideo/internal/orchestrator"
	"github.com/mickaelli/StoryToVideo/internal/platform/logger"
)

func newCreateProjectCmd() *cobra.Command {
	var story, style string

	cmd := &cobra.Command{
		Use:   "create-project",
		Short: "Create a project from story text and wait for the generated storyboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, o *orchestrator.Orchestrator) {
				title := "New story project - " + time.Now().Format("20060102_150405")
				description := "Project created from user-provided story text."
				o.SubmitDirectProjectCreate(ctx, title, story, style, description)
			})
		},
	}

	cmd.Flags().StringVar(&story, "story", "", "story text to generate shots from")
	cmd.Flags().StringVar(&style, "style", "movie", "visual style for the generated shots")
	_ = cmd.MarkFlagRequired("story")

	return cmd
}

func newUpdateShotCmd() *cobra.Command {
	var shotID int
	var prompt, style string

	cmd := &cobra.Command{
		Use:   "update-shot",
		Short: "Regenerate one shot image and wait for its URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, o *orchestrator.Orchestrator) {
				o.SubmitUpdateShot(ctx, shotID, prompt, style)
			})
		},
	}

	cmd.Flags().IntVar(&shotID, "shot", 0, "shot number to regenerate")
	cmd.Flags().StringVar(&prompt, "prompt", "", "image prompt for the shot")
	cmd.Flags().StringVar(&style, "style", "movie", "visual style for the image")
	_ = cmd.MarkFlagRequired("shot")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func newGenerateVideoCmd() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "generate-video",
		Short: "Compile a project's shots into a video and wait for completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, o *orchestrator.Orchestrator) {
				o.SubmitGenerateVideo(ctx, projectID)
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "project id to compile")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

// runJob wires config, logger, transport, orchestrator, and the event printer
// together, fires one submission, and blocks until a terminal event or an
// interrupt arrives.
func runJob(submit func(ctx context.Context, o *orchestrator.Orchestrator)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.Log)

	store, err := appdata.NewStore(afero.NewOsFs(), cfg.Data.Dir, log)
	if err != nil {
		return err
	}

	printer := newEventPrinter(store, log)
	emitter := events.NewInMemoryEmitter(log)
	emitter.RegisterHandler(printer)

	c, err := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	if err != nil {
		return err
	}

	o, err := orchestrator.New(c, emitter, orchestrator.Config{
		MediaHost:    cfg.Media.Host,
		PollInterval: cfg.Poll.Interval,
	}, log)
	if err != nil {
		return err
	}
	defer o.Close()
	c.SetHandler(o)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	submit(ctx, o)

	select {
	case <-printer.done:
	case <-ctx.Done():
		log.Info("interrupted, abandoning outstanding tasks")
	}

	return nil
}
