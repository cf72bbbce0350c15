package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/file"
)

func filesCommand() *cli.Command {
	idArg := func(name, usage string, action cli.ActionFunc) *cli.Command {
		return &cli.Command{Name: name, Usage: usage, ArgsUsage: "<file-id>", Action: action}
	}

	return &cli.Command{
		Name:  "files",
		Usage: "Manage uploaded files",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List files",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return emit(ctx, cmd, file.List())
				},
			},
			idArg("get", "Retrieve file metadata", func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "file id")
				if err != nil {
					return err
				}
				return emit(ctx, cmd, file.Retrieve(id))
			}),
			idArg("delete", "Delete a file", func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "file id")
				if err != nil {
					return err
				}
				return emit(ctx, cmd, file.Delete(id))
			}),
			idArg("content", "Download a file's content", func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "file id")
				if err != nil {
					return err
				}
				return emit(ctx, cmd, file.Content(id))
			}),
			{
				Name:      "upload",
				Usage:     "Upload a file",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{purposeFlag()},
				Action:    filesUploadAction,
			},
			{
				Name:      "upload-pairs",
				Usage:     "Upload prompt/completion pairs read from a JSONL file (- for stdin)",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{purposeFlag()},
				Action:    filesUploadPairsAction,
			},
		},
	}
}

func purposeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "purpose",
		Usage: "intended use of the file",
		Value: file.PurposeFineTune,
	}
}

func filesUploadAction(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}
	upload, err := readUpload(path)
	if err != nil {
		return err
	}

	return emit(ctx, cmd, file.Upload(file.UploadInput{
		Purpose: cmd.String("purpose"),
		File:    upload,
	}))
}

func filesUploadPairsAction(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	pairs, err := readPairs(r)
	if err != nil {
		return err
	}

	return emit(ctx, cmd, file.UploadPairs(file.PairsInput{
		Purpose: cmd.String("purpose"),
		Pairs:   pairs,
	}))
}

// readPairs reads one {"prompt", "completion"} object per line. Lines holding only
// whitespace are skipped.
func readPairs(r io.Reader) ([]file.PromptCompletion, error) {
	var pairs []file.PromptCompletion
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var pair file.PromptCompletion
		if err := json.Unmarshal(text, &pair); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pairs: %w", err)
	}
	return pairs, nil
}
