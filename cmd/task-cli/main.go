package main

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"task-tracker/internal/api"
	"task-tracker/internal/cli"
	"task-tracker/internal/config"
)

func main() {
	fs := afero.NewOsFs()

	root := cli.NewRootCommand(func(ctx context.Context, cfg *config.Config) (api.API, error) {
		repo, err := config.CreateRepository(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return api.New(repo, cfg, fs), nil
	}, fs, os.Stdout, os.Stderr)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
