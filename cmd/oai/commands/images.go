package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/image"
)

func imagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "images",
		Usage: "Generate, edit and vary images",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Generate images from a prompt",
				ArgsUsage: "<prompt>",
				Flags:     imageOptionFlags(),
				Action:    imagesCreateAction,
			},
			{
				Name:      "edit",
				Usage:     "Edit an image according to a prompt",
				ArgsUsage: "<prompt>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "image", Usage: "PNG image to edit", Required: true},
					&cli.StringFlag{Name: "mask", Usage: "PNG mask; transparent areas mark what to edit"},
				}, imageOptionFlags()...),
				Action: imagesEditAction,
			},
			{
				Name:  "variation",
				Usage: "Create variations of an image",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "image", Usage: "PNG image to vary", Required: true},
				}, imageOptionFlags()...),
				Action: imagesVariationAction,
			},
		},
	}
}

func imageOptionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "n", Usage: "number of images"},
		&cli.StringFlag{Name: "size", Usage: "256x256, 512x512 or 1024x1024"},
		&cli.StringFlag{Name: "response-format", Usage: "url or b64_json"},
		&cli.StringFlag{Name: "user", Usage: "end-user identifier"},
	}
}

func imageOptions(cmd *cli.Command) (image.Options, error) {
	opts := image.Options{
		N:    optInt(cmd, "n"),
		User: optString(cmd, "user"),
	}
	if cmd.IsSet("size") {
		size, err := image.ParseSize(cmd.String("size"))
		if err != nil {
			return image.Options{}, err
		}
		opts.Size = &size
	}
	if cmd.IsSet("response-format") {
		format, err := image.ParseResponseFormat(cmd.String("response-format"))
		if err != nil {
			return image.Options{}, err
		}
		opts.ResponseFormat = &format
	}
	return opts, nil
}

func imagesCreateAction(ctx context.Context, cmd *cli.Command) error {
	prompt, err := requireArg(cmd, "prompt")
	if err != nil {
		return err
	}
	opts, err := imageOptions(cmd)
	if err != nil {
		return err
	}
	return emit(ctx, cmd, image.Create(image.CreateInput{Prompt: prompt, Options: opts}))
}

func imagesEditAction(ctx context.Context, cmd *cli.Command) error {
	prompt, err := requireArg(cmd, "prompt")
	if err != nil {
		return err
	}
	opts, err := imageOptions(cmd)
	if err != nil {
		return err
	}
	img, err := readUpload(cmd.String("image"))
	if err != nil {
		return err
	}

	in := image.EditInput{Image: img, Prompt: prompt, Options: opts}
	if cmd.IsSet("mask") {
		mask, err := readUpload(cmd.String("mask"))
		if err != nil {
			return err
		}
		in.Mask = &mask
	}
	return emit(ctx, cmd, image.Edit(in))
}

func imagesVariationAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := imageOptions(cmd)
	if err != nil {
		return err
	}
	img, err := readUpload(cmd.String("image"))
	if err != nil {
		return err
	}
	return emit(ctx, cmd, image.Variation(image.VariationInput{Image: img, Options: opts}))
}
