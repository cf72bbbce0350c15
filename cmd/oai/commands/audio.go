package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/audio"
	"github.com/florianilch/oairequest/types"
)

func audioCommand() *cli.Command {
	return &cli.Command{
		Name:  "audio",
		Usage: "Transcribe and translate speech",
		Commands: []*cli.Command{
			{
				Name:      "transcribe",
				Usage:     "Transcribe audio in its spoken language",
				ArgsUsage: "<audio-file>",
				Flags: append(audioFlags(),
					&cli.StringFlag{Name: "language", Usage: "ISO-639-1 code of the spoken language"},
				),
				Action: audioTranscribeAction,
			},
			{
				Name:      "translate",
				Usage:     "Translate audio into English",
				ArgsUsage: "<audio-file>",
				Flags:     audioFlags(),
				Action:    audioTranslateAction,
			},
		},
	}
}

func audioFlags() []cli.Flag {
	return []cli.Flag{
		modelFlag(types.Whisper1),
		&cli.StringFlag{Name: "prompt", Usage: "text guiding the style of the output"},
		&cli.StringFlag{Name: "response-format", Usage: "json, text, srt, verbose_json or vtt"},
		&cli.FloatFlag{Name: "temperature"},
	}
}

func audioFormat(cmd *cli.Command) (*audio.ResponseFormat, error) {
	if !cmd.IsSet("response-format") {
		return nil, nil
	}
	format, err := audio.ParseResponseFormat(cmd.String("response-format"))
	if err != nil {
		return nil, err
	}
	return &format, nil
}

func audioTranscribeAction(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "audio file")
	if err != nil {
		return err
	}
	upload, err := readUpload(path)
	if err != nil {
		return err
	}
	format, err := audioFormat(cmd)
	if err != nil {
		return err
	}

	return emit(ctx, cmd, audio.Transcribe(audio.TranscriptionInput{
		File:           upload,
		Model:          types.ParseModelID(cmd.String("model")),
		Prompt:         optString(cmd, "prompt"),
		ResponseFormat: format,
		Temperature:    optFloat(cmd, "temperature"),
		Language:       optString(cmd, "language"),
	}))
}

func audioTranslateAction(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "audio file")
	if err != nil {
		return err
	}
	upload, err := readUpload(path)
	if err != nil {
		return err
	}
	format, err := audioFormat(cmd)
	if err != nil {
		return err
	}

	return emit(ctx, cmd, audio.Translate(audio.TranslationInput{
		File:           upload,
		Model:          types.ParseModelID(cmd.String("model")),
		Prompt:         optString(cmd, "prompt"),
		ResponseFormat: format,
		Temperature:    optFloat(cmd, "temperature"),
	}))
}
