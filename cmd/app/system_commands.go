package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/familykeys/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Create the key store schema for the postgres or mysql driver",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				cfg := container.Config()
				container.Logger().Info("running migrations", "version", version)
				return commands.RunMigrations(container.Logger(), cfg.KeystoreDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "keystore-status",
			Usage: "Report which keys this device holds and whether history is readable",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Signed-in user ID",
				},
				&cli.StringFlag{
					Name:    "family-id",
					Aliases: []string{"F"},
					Usage:   "Family ID to check (omit to check only the private key)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				checker, err := container.RecoveryChecker()
				if err != nil {
					return err
				}
				keystore, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunKeystoreStatus(
					ctx,
					checker,
					keystore,
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("family-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "wipe-keystore",
			Usage: "Delete every key stored on this device",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Confirm the wipe",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				keystore, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunWipeKeystore(
					ctx,
					keystore,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("yes"),
				)
			},
		},
	}
}
