package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"mlbot/bot"
	"mlbot/utils/config"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "mlbot",
		Usage: "Discord bot for the BTD6 Maplist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to the TOML config file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Dotenv file to load before reading the environment",
			},
			&cli.BoolFlag{
				Name:  "sync",
				Usage: "Overwrite the registered slash commands with the current ones on startup",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := loadEnv(c.String("env-file")); err != nil {
				return err
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(); err != nil {
				return err
			}

			token, err := config.GetEnviroVar(config.ENV_BOT_TOKEN)
			if err != nil {
				return fmt.Errorf("could not get Discord token: %w", err)
			}

			fmt.Printf("Loaded config. Starting bot with %d threads.\n", runtime.GOMAXPROCS(-1))
			return bot.Run(cfg, token, c.Bool("sync"))
		},
	}

	return app.Run(context.Background(), os.Args)
}

// A missing dotenv file is fine, the variables may already be in the environment.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Debug("no dotenv file found")
		return nil
	}

	return err
}
