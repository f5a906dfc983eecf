package main

import (
	"context"

	"github.com/janegov/notesapi/internal/client/cli"
	"github.com/janegov/notesapi/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)
	app.Run(context.Background())
}
