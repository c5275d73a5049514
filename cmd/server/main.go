package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/hongminglow/flix-be/internal/config"
	"github.com/hongminglow/flix-be/internal/logutil"
	"github.com/hongminglow/flix-be/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "flix",
		Usage: "movie catalog and user accounts API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "dotenv file loaded before reading the environment",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:    "port",
						Usage:   "listen port, overrides PORT",
						EnvVars: []string{"FLIX_PORT"},
					},
				},
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("flix exited")
	}
}

func serve(c *cli.Context) error {
	envErr := godotenv.Load(c.String("env-file"))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port := c.String("port"); port != "" {
		cfg.Port = port
	}

	logutil.Setup(cfg.LogLevel, os.Stdout)
	if envErr != nil {
		log.Info().Str("file", c.String("env-file")).Msg("no env file found; relying on existing environment")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		return err
	}

	driver, _ := cfg.DatabaseDriver()
	log.Info().Str("addr", cfg.HTTPAddress()).Str("store", driver).Msg("flix api starting")
	return srv.Run(ctx)
}
