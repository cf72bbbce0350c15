package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/completion"
	"github.com/florianilch/oairequest/edit"
	"github.com/florianilch/oairequest/embedding"
	"github.com/florianilch/oairequest/moderation"
	"github.com/florianilch/oairequest/types"
)

func modelFlag(def types.KnownModel) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "model",
		Usage: "model name; unknown names are sent as given",
		Value: def.String(),
	}
}

func completionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "completions",
		Usage:     "Create a text completion",
		ArgsUsage: "[prompt...]",
		Flags: append([]cli.Flag{
			modelFlag(types.TextDavinci003),
			&cli.StringFlag{Name: "suffix"},
			&cli.IntFlag{Name: "max-tokens"},
			&cli.IntFlag{Name: "logprobs", Usage: "number of most likely tokens to return"},
			&cli.BoolFlag{Name: "echo"},
			&cli.FloatFlag{Name: "presence-penalty"},
			&cli.FloatFlag{Name: "frequency-penalty"},
			&cli.IntFlag{Name: "best-of"},
		}, samplingFlags()...),
		Action: completionsAction,
	}
}

func completionsAction(ctx context.Context, cmd *cli.Command) error {
	logitBias, err := parseLogitBias(cmd.StringSlice("logit-bias"))
	if err != nil {
		return err
	}

	var prompt []string
	if cmd.NArg() > 0 {
		prompt = cmd.Args().Slice()
	}

	return emit(ctx, cmd, completion.Create(completion.Input{
		Model:            types.ParseModelID(cmd.String("model")),
		Prompt:           prompt,
		Suffix:           optString(cmd, "suffix"),
		MaxTokens:        optInt(cmd, "max-tokens"),
		Temperature:      optFloat(cmd, "temperature"),
		TopP:             optFloat(cmd, "top-p"),
		N:                optInt(cmd, "n"),
		Logprobs:         optInt(cmd, "logprobs"),
		Echo:             optBool(cmd, "echo"),
		Stop:             optStrings(cmd, "stop"),
		PresencePenalty:  optFloat(cmd, "presence-penalty"),
		FrequencyPenalty: optFloat(cmd, "frequency-penalty"),
		BestOf:           optInt(cmd, "best-of"),
		LogitBias:        logitBias,
		User:             optString(cmd, "user"),
	}))
}

func editsCommand() *cli.Command {
	return &cli.Command{
		Name:      "edits",
		Usage:     "Create an edit of the given input",
		ArgsUsage: "<instruction>",
		Flags: []cli.Flag{
			modelFlag(types.TextDavinciEdit001),
			&cli.StringFlag{Name: "input", Usage: "text to edit"},
			&cli.IntFlag{Name: "n", Usage: "number of choices"},
			&cli.FloatFlag{Name: "temperature"},
			&cli.FloatFlag{Name: "top-p"},
		},
		Action: editsAction,
	}
}

func editsAction(ctx context.Context, cmd *cli.Command) error {
	instruction, err := requireArg(cmd, "instruction")
	if err != nil {
		return err
	}

	return emit(ctx, cmd, edit.Create(edit.Input{
		Model:       types.ParseModelID(cmd.String("model")),
		Input:       optString(cmd, "input"),
		Instruction: instruction,
		N:           optInt(cmd, "n"),
		Temperature: optFloat(cmd, "temperature"),
		TopP:        optFloat(cmd, "top-p"),
	}))
}

func embeddingsCommand() *cli.Command {
	return &cli.Command{
		Name:      "embeddings",
		Usage:     "Create embeddings for the given inputs",
		ArgsUsage: "<input...>",
		Flags: []cli.Flag{
			modelFlag(types.TextEmbeddingAda002),
			&cli.StringFlag{Name: "user", Usage: "end-user identifier"},
		},
		Action: embeddingsAction,
	}
}

func embeddingsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("expected at least one input")
	}

	return emit(ctx, cmd, embedding.Create(embedding.Input{
		Model: types.ParseModelID(cmd.String("model")),
		Input: cmd.Args().Slice(),
		User:  optString(cmd, "user"),
	}))
}

func moderationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "moderations",
		Usage:     "Classify inputs against the content policy",
		ArgsUsage: "<input...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "model",
				Usage: "text-moderation-stable or text-moderation-latest; the API default when unset",
			},
		},
		Action: moderationsAction,
	}
}

func moderationsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("expected at least one input")
	}

	in := moderation.Input{Input: cmd.Args().Slice()}
	if cmd.IsSet("model") {
		m, ok := moderation.ParseModel(cmd.String("model"))
		if !ok {
			return fmt.Errorf("unknown moderation model %q", cmd.String("model"))
		}
		in.Model = &m
	}

	return emit(ctx, cmd, moderation.Create(in))
}
