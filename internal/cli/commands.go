// Package cli provides command definitions for slackmoji.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/slackmoji/internal/config"
	"github.com/klauern/slackmoji/internal/logging"
	"github.com/klauern/slackmoji/internal/reserved"
	"github.com/klauern/slackmoji/internal/slack"
	"github.com/klauern/slackmoji/internal/sync"
	"github.com/klauern/slackmoji/internal/ui"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Download every custom emoji into a local archive directory",
		UsageText: "slackmoji export <directory>",
		Description: `Enumerate the workspace's custom emoji and download each image
   into <directory>, one file per emoji. The directory is created if
   missing; a re-export overwrites existing files in place.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("export requires exactly 1 argument: <directory>")
			}

			syncer, err := buildSyncer(cmd)
			if err != nil {
				return err
			}

			res, err := syncer.Export(ctx, args.Get(0))
			if res != nil {
				reportItems(res)
				fmt.Println(ui.RenderSummary("Export complete", []ui.SummaryRow{
					{Label: "Downloaded", Count: len(res.Downloaded())},
					{Label: "Aliases skipped", Count: len(res.SkippedAliases())},
					{Label: "Failed", Count: len(res.Failed())},
				}))
			}
			return err
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Upload every archived emoji to the workspace",
		UsageText: "slackmoji import <directory>",
		Description: `Walk the archive at <directory> and re-upload each image as a
   custom emoji. Names reserved by the Unicode emoji standard are
   skipped; each remaining entry is uploaded independently, so one
   failure never stops the rest.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("import requires exactly 1 argument: <directory>")
			}

			syncer, err := buildSyncer(cmd)
			if err != nil {
				return err
			}

			res, err := syncer.Import(ctx, args.Get(0))
			if res != nil {
				reportItems(res)
				fmt.Println(ui.RenderSummary("Import complete", []ui.SummaryRow{
					{Label: "Uploaded", Count: len(res.Uploaded())},
					{Label: "Conflicts", Count: len(res.Conflicts())},
					{Label: "Failed", Count: len(res.Failed())},
				}))
			}
			return err
		},
	}
}

func aliasCommand() *cli.Command {
	return &cli.Command{
		Name:      "alias",
		Usage:     "Register a single emoji alias",
		UsageText: "slackmoji alias <name> <alias_for>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("alias requires exactly 2 arguments: <name> <alias_for>")
			}
			name, aliasFor := args.Get(0), args.Get(1)

			client, _, err := buildClient(cmd)
			if err != nil {
				return err
			}
			if err := client.AddAlias(ctx, name, aliasFor); err != nil {
				return err
			}
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Added alias '%s' for '%s'", name, aliasFor)))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display current configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("Config file: %s\n", config.FilePath())
			fmt.Printf("  workspace: %s\n", valueOrUnset(cfg.Slack.Workspace))
			fmt.Printf("  token: %s\n", redact(cfg.Slack.Token))
			fmt.Printf("  export page size: %d\n", cfg.Export.PageSize)
			return nil
		},
	}
}

// loadConfig loads configuration, honoring the --config flag.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildClient loads and validates configuration and constructs the Slack
// client from it.
func buildClient(cmd *cli.Command) (*slack.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	applyOutputConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client := slack.New(slack.Options{
		Token:     cfg.Slack.Token,
		Workspace: cfg.Slack.Workspace,
	})
	return client, cfg, nil
}

// buildSyncer assembles the full sync pipeline for the export and import
// commands.
func buildSyncer(cmd *cli.Command) (*sync.Syncer, error) {
	client, cfg, err := buildClient(cmd)
	if err != nil {
		return nil, err
	}
	return sync.New(client, reserved.Default(), sync.Options{
		PageSize: cfg.Export.PageSize,
		Progress: true,
	}), nil
}

// applyOutputConfig applies file/env display preferences. Explicit CLI
// flags win over config values.
func applyOutputConfig(cmd *cli.Command, cfg *config.Config) {
	if cfg.Output.Color == "never" {
		ui.DisableColors()
	}
	if cfg.Output.Verbose && !cmd.Bool("verbose") && !cmd.Bool("debug") {
		opts := logging.DefaultOptions()
		opts.Level = logging.LevelInfo
		logging.SetDefault(logging.New(opts))
	}
}

// reportItems prints per-item conflicts and failures to stdout so they
// remain visible above the summary block.
func reportItems(res *sync.Result) {
	for _, item := range res.Conflicts() {
		fmt.Println(ui.StatusWarning(fmt.Sprintf("%s: %s", item.Name, item.Message)))
	}
	for _, item := range res.Failed() {
		fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", item.Name, item.Error)))
	}
}

func redact(token string) string {
	if token == "" {
		return "(unset)"
	}
	return "********"
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
