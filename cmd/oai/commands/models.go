package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/model"
	"github.com/florianilch/oairequest/types"
)

func modelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List and describe models",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available models",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return emit(ctx, cmd, model.List())
				},
			},
			{
				Name:      "get",
				Usage:     "Retrieve a model",
				ArgsUsage: "<model>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, "model")
					if err != nil {
						return err
					}
					return emit(ctx, cmd, model.Retrieve(types.ParseModelID(name)))
				},
			},
		},
	}
}
