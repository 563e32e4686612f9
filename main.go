package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cogbot/cmd"
	"cogbot/database"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var app = cli.Command{
	Name:  "cogbot",
	Usage: "Discord community bot",
	Commands: []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Manage the database schema",
			Commands: []*cli.Command{
				{
					Name:   "up",
					Usage:  "Apply all pending migrations",
					Action: cliMigrateUp,
				},
				{
					Name:      "down",
					Usage:     "Roll back migrations",
					ArgsUsage: "[steps]",
					Action:    cliMigrateDown,
				},
				{
					Name:   "status",
					Usage:  "Show the applied migration version",
					Action: cliMigrateStatus,
				},
			},
		},
		{
			Name:  "version",
			Usage: "Print the version",
			Action: func(ctx context.Context, c *cli.Command) error {
				fmt.Println(version)
				return nil
			},
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return cmd.Run(ctx)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func cliMigrateUp(ctx context.Context, c *cli.Command) error {
	return database.MigrateUp(database.MigrationDatabaseURL())
}

func cliMigrateDown(ctx context.Context, c *cli.Command) error {
	steps := "1"
	if c.Args().Present() {
		steps = c.Args().First()
	}
	return database.MigrateDown(database.MigrationDatabaseURL(), steps)
}

func cliMigrateStatus(ctx context.Context, c *cli.Command) error {
	status, err := database.GetMigrationStatus(database.MigrationDatabaseURL())
	if err != nil {
		return err
	}
	if !status.Applied {
		fmt.Println("No migrations applied")
		return nil
	}
	fmt.Printf("Version: %d (dirty: %t)\n", status.Version, status.Dirty)
	return nil
}
