package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/familykeys/cmd/app/commands"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	"github.com/allisson/familykeys/internal/logging"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-device-key",
			Usage: "Generate a device key for the kms key store sealer",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateDeviceKey(
					ctx,
					cryptoService.NewKMSService(),
					logging.New(os.Stderr, "info"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:      "validate-invite",
			Usage:     "Check an invite code or share link without contacting the relay",
			ArgsUsage: "<code-or-link>",
			Flags:     []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunValidateInvite(
					inviteService.NewCodec(),
					commands.DefaultIO().Writer,
					cmd.Args().First(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "lookup-code",
			Usage: "Generate lookup codes",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"n"},
					Value:   1,
					Usage:   "Number of codes to generate",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunLookupCode(
					inviteService.NewLookupCodeGenerator(),
					commands.DefaultIO().Writer,
					int(cmd.Int("count")),
					cmd.String("format"),
				)
			},
		},
	}
}
