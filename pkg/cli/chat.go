package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/merca-lab/mercabot/pkg/cli/config"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"github.com/merca-lab/mercabot/pkg/service/extraction"
	"github.com/merca-lab/mercabot/pkg/usecase"
	"github.com/merca-lab/mercabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// cmdChat is an interactive terminal session against the same dialogue
// controller the server runs, for development and prompt tuning.
func cmdChat() *cli.Command {
	var sessionID string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var knowledgeCfg config.Knowledge
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session-id",
			Usage:       "Resume an existing session instead of starting a new one",
			Sources:     cli.EnvVars("MERCABOT_SESSION_ID"),
			Destination: &sessionID,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, knowledgeCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat with the bot from the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			extractor, err := extraction.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize extraction service")
			}

			knowledgeSvc, err := knowledgeCfg.Configure(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize knowledge service")
			}

			ucOpts := []usecase.Option{}
			profile, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load bot profile")
			}
			if profile != nil {
				ucOpts = append(ucOpts, usecase.WithProfile(profile))
			}

			uc := usecase.New(repo, extractor, knowledgeSvc, ucOpts...)

			session := types.SessionID(sessionID)
			if session == "" {
				session = types.NewSessionID()
			}

			botLabel := color.New(color.FgCyan, color.Bold).SprintFunc()
			userLabel := color.New(color.FgGreen, color.Bold).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()

			fmt.Printf("%s\n", dim("session: "+session.String()+" (escribe 'salir' para terminar)"))

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Printf("%s ", userLabel("tú>"))
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "salir" || input == "exit" {
					break
				}

				result, err := uc.Chat.HandleTurn(ctx, session, input)
				if err != nil {
					return goerr.Wrap(err, "turn failed")
				}

				fmt.Printf("%s %s\n", botLabel("mercabot>"), result.Reply)
			}

			if err := scanner.Err(); err != nil {
				return goerr.Wrap(err, "failed to read input")
			}
			return nil
		},
	}
}
