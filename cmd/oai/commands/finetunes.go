package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/finetune"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

func fineTunesCommand() *cli.Command {
	byID := func(name, usage string, build func(id string) request.Request[finetune.Job]) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: "<fine-tune-id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "fine-tune id")
				if err != nil {
					return err
				}
				return emit(ctx, cmd, build(id))
			},
		}
	}

	return &cli.Command{
		Name:  "fine-tunes",
		Usage: "Manage fine-tuning jobs",
		Commands: []*cli.Command{
			fineTunesCreateCommand(),
			{
				Name:  "list",
				Usage: "List fine-tuning jobs",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return emit(ctx, cmd, finetune.List())
				},
			},
			byID("get", "Retrieve a fine-tuning job", finetune.Retrieve),
			byID("cancel", "Cancel a fine-tuning job", finetune.Cancel),
			{
				Name:      "events",
				Usage:     "List a fine-tuning job's events",
				ArgsUsage: "<fine-tune-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := requireArg(cmd, "fine-tune id")
					if err != nil {
						return err
					}
					return emit(ctx, cmd, finetune.Events(id))
				},
			},
			{
				Name:      "delete-model",
				Usage:     "Delete a fine-tuned model",
				ArgsUsage: "<model>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, "model")
					if err != nil {
						return err
					}
					return emit(ctx, cmd, finetune.DeleteModel(types.CustomModel(name)))
				},
			},
		},
	}
}

func fineTunesCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a fine-tuning job",
		ArgsUsage: "<training-file-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "validation-file"},
			&cli.StringFlag{Name: "model", Usage: "base model; the API default when unset"},
			&cli.IntFlag{Name: "n-epochs"},
			&cli.IntFlag{Name: "batch-size"},
			&cli.FloatFlag{Name: "learning-rate-multiplier"},
			&cli.FloatFlag{Name: "prompt-loss-weight"},
			&cli.BoolFlag{Name: "compute-classification-metrics"},
			&cli.IntFlag{Name: "classification-n-classes"},
			&cli.StringFlag{Name: "classification-positive-class"},
			&cli.FloatSliceFlag{Name: "classification-beta", Usage: "F-beta value, repeatable"},
			&cli.StringFlag{Name: "suffix", Usage: "appended to the fine-tuned model name"},
		},
		Action: fineTunesCreateAction,
	}
}

func fineTunesCreateAction(ctx context.Context, cmd *cli.Command) error {
	trainingFile, err := requireArg(cmd, "training file id")
	if err != nil {
		return err
	}

	in := finetune.Input{
		TrainingFile:                 trainingFile,
		ValidationFile:               optString(cmd, "validation-file"),
		NEpochs:                      optInt(cmd, "n-epochs"),
		BatchSize:                    optInt(cmd, "batch-size"),
		LearningRateMultiplier:       optFloat(cmd, "learning-rate-multiplier"),
		PromptLossWeight:             optFloat(cmd, "prompt-loss-weight"),
		ComputeClassificationMetrics: optBool(cmd, "compute-classification-metrics"),
		ClassificationNClasses:       optInt(cmd, "classification-n-classes"),
		ClassificationPositiveClass:  optString(cmd, "classification-positive-class"),
		Suffix:                       optString(cmd, "suffix"),
	}
	if cmd.IsSet("model") {
		model := types.ParseModelID(cmd.String("model"))
		in.Model = &model
	}
	if cmd.IsSet("classification-beta") {
		in.ClassificationBetas = cmd.FloatSlice("classification-beta")
	}

	return emit(ctx, cmd, finetune.Create(in))
}
