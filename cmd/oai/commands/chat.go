package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/oairequest/chat"
)

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Create a chat completion",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "model",
				Usage: "chat model (gpt-3.5-turbo, gpt-4, ...)",
				Value: chat.GPT35Turbo.String(),
			},
			&cli.StringSliceFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "message as role:content, repeatable",
				Required: true,
			},
			&cli.IntFlag{Name: "max-tokens"},
			&cli.FloatFlag{Name: "presence-penalty"},
			&cli.FloatFlag{Name: "frequency-penalty"},
		}, samplingFlags()...),
		Action: chatAction,
	}
}

func chatAction(ctx context.Context, cmd *cli.Command) error {
	model, ok := chat.ParseModel(cmd.String("model"))
	if !ok {
		return fmt.Errorf("unknown chat model %q", cmd.String("model"))
	}

	messages := make([]chat.Message, 0, len(cmd.StringSlice("message")))
	for _, raw := range cmd.StringSlice("message") {
		m, err := parseMessage(raw)
		if err != nil {
			return err
		}
		messages = append(messages, m)
	}

	logitBias, err := parseLogitBias(cmd.StringSlice("logit-bias"))
	if err != nil {
		return err
	}

	return emit(ctx, cmd, chat.Create(chat.Input{
		Model:            model,
		Messages:         messages,
		Temperature:      optFloat(cmd, "temperature"),
		TopP:             optFloat(cmd, "top-p"),
		N:                optInt(cmd, "n"),
		Stop:             optStrings(cmd, "stop"),
		MaxTokens:        optInt(cmd, "max-tokens"),
		PresencePenalty:  optFloat(cmd, "presence-penalty"),
		FrequencyPenalty: optFloat(cmd, "frequency-penalty"),
		LogitBias:        logitBias,
		User:             optString(cmd, "user"),
	}))
}

// parseMessage splits "role:content". A role may carry a name as "role@name".
func parseMessage(raw string) (chat.Message, error) {
	head, content, found := strings.Cut(raw, ":")
	if !found {
		return chat.Message{}, fmt.Errorf("message %q: expected role:content", raw)
	}

	roleName, name, hasName := strings.Cut(head, "@")
	role, err := chat.ParseRole(roleName)
	if err != nil {
		return chat.Message{}, fmt.Errorf("message %q: %w", raw, err)
	}

	m := chat.Message{Role: role, Content: content}
	if hasName {
		m.Name = &name
	}
	return m, nil
}

// parseLogitBias parses token=bias pairs. No pairs gives a nil map.
func parseLogitBias(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	bias := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		token, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("logit bias %q: expected token=bias", pair)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("logit bias %q: %w", pair, err)
		}
		bias[token] = n
	}
	return bias, nil
}

// samplingFlags are shared by the text generation commands.
func samplingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{Name: "temperature"},
		&cli.FloatFlag{Name: "top-p"},
		&cli.IntFlag{Name: "n", Usage: "number of choices"},
		&cli.StringSliceFlag{Name: "stop", Usage: "stop sequence, repeatable"},
		&cli.StringSliceFlag{Name: "logit-bias", Usage: "token=bias, repeatable"},
		&cli.StringFlag{Name: "user", Usage: "end-user identifier"},
	}
}
