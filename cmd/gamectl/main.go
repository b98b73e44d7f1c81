package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/riskibarqy/pickup-football/internal/app"
	"github.com/riskibarqy/pickup-football/internal/config"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/urfave/cli/v2"
)

const (
	jsonFlag     = "json"
	forceFlag    = "force"
	kindFlag     = "kind"
	tokenFlag    = "token"
	idFlag       = "id"
	venueFlag    = "venue"
	startFlag    = "start"
	endFlag      = "end"
	announceFlag = "announce"
	maxFlag      = "max-players"
	randomFlag   = "random-slots"
)

var version = "dev"

// session is the wired app shared by every command of one invocation.
type session struct {
	app    *app.App
	logger *logging.Logger
	out    *printer
}

func main() {
	var sess session

	cliApp := &cli.App{
		Name:    "gamectl",
		Usage:   "Inspect and drive pickup game lifecycles",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  jsonFlag,
				Usage: "Print results as JSON",
			},
		},
		Before: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sess.logger = logging.NewConsole(cfg.LogLevel).Named("gamectl")
			sess.app, err = app.New(cCtx.Context, cfg, sess.logger)
			if err != nil {
				return err
			}
			sess.out = newPrinter(os.Stdout, cCtx.Bool(jsonFlag))
			return nil
		},
		After: func(*cli.Context) error {
			if sess.app == nil {
				return nil
			}
			return sess.app.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "schedule",
				Usage: "Create an upcoming game",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: idFlag, Usage: "Game id, generated when empty"},
					&cli.StringFlag{Name: venueFlag, Usage: "Where the game is played"},
					&cli.TimestampFlag{Name: startFlag, Usage: "Registration window start", Layout: time.RFC3339, Required: true},
					&cli.TimestampFlag{Name: endFlag, Usage: "Registration window end", Layout: time.RFC3339, Required: true},
					&cli.TimestampFlag{Name: announceFlag, Usage: "Team announcement time", Layout: time.RFC3339, Required: true},
					&cli.IntFlag{Name: maxFlag, Usage: "Number of playing slots", Value: 18},
					&cli.IntFlag{Name: randomFlag, Usage: "Slots filled by random draw", Value: 2},
				},
				Action: func(cCtx *cli.Context) error {
					item, err := sess.app.Games.Schedule(cCtx.Context, usecase.ScheduleGameInput{
						ID:                      cCtx.String(idFlag),
						Venue:                   cCtx.String(venueFlag),
						RegistrationWindowStart: *cCtx.Timestamp(startFlag),
						RegistrationWindowEnd:   *cCtx.Timestamp(endFlag),
						TeamAnnouncementTime:    *cCtx.Timestamp(announceFlag),
						MaxPlayers:              cCtx.Int(maxFlag),
						RandomSlots:             cCtx.Int(randomFlag),
					})
					if err != nil {
						return err
					}
					return sess.out.game(item)
				},
			},
			{
				Name:      "open",
				Usage:     "Open registration once its window has started",
				ArgsUsage: "<game-id>",
				Action: func(cCtx *cli.Context) error {
					gameID, err := gameArg(cCtx)
					if err != nil {
						return err
					}
					return sess.out.transition(sess.app.Lifecycle.OpenRegistration(cCtx.Context, gameID))
				},
			},
			{
				Name:      "close",
				Usage:     "Close registration and select players",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: forceFlag, Usage: "Close before the registration window ends"},
				},
				Action: func(cCtx *cli.Context) error {
					gameID, err := gameArg(cCtx)
					if err != nil {
						return err
					}
					return sess.out.transition(sess.app.Lifecycle.CloseRegistration(cCtx.Context, gameID, cCtx.Bool(forceFlag)))
				},
			},
			{
				Name:      "announce",
				Usage:     "Balance the selected players into teams",
				ArgsUsage: "<game-id>",
				Action: func(cCtx *cli.Context) error {
					gameID, err := gameArg(cCtx)
					if err != nil {
						return err
					}
					return sess.out.transition(sess.app.Lifecycle.AnnounceTeams(cCtx.Context, gameID))
				},
			},
			{
				Name:      "reset-retries",
				Usage:     "Re-arm a transition after its retries were exhausted",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: kindFlag, Usage: "Transition kind", Value: string(transition.KindAnnounceTeams)},
				},
				Action: func(cCtx *cli.Context) error {
					gameID, err := gameArg(cCtx)
					if err != nil {
						return err
					}
					kind, err := transition.ParseKind(cCtx.String(kindFlag))
					if err != nil {
						return err
					}
					if err := sess.app.Lifecycle.ResetRetries(cCtx.Context, gameID, kind); err != nil {
						return err
					}
					sess.logger.Info("retries reset", "game_id", gameID, "kind", kind)
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "Show a game with its registrations, teams and transition log",
				ArgsUsage: "<game-id>",
				Action: func(cCtx *cli.Context) error {
					gameID, err := gameArg(cCtx)
					if err != nil {
						return err
					}
					view, err := sess.app.Games.Get(cCtx.Context, gameID)
					if err != nil {
						return err
					}
					return sess.out.view(view)
				},
			},
			{
				Name:      "register",
				Usage:     "Register a player for an open game",
				ArgsUsage: "<game-id> <player-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: tokenFlag, Usage: "Spend a priority token"},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("register expects <game-id> <player-id>")
					}
					item, err := sess.app.Registrations.Register(cCtx.Context, usecase.RegisterInput{
						GameID:     cCtx.Args().Get(0),
						PlayerID:   cCtx.Args().Get(1),
						UsingToken: cCtx.Bool(tokenFlag),
					})
					if err != nil {
						return err
					}
					return sess.out.registration(item)
				},
			},
			{
				Name:      "withdraw",
				Usage:     "Drop a player out of an open game",
				ArgsUsage: "<game-id> <player-id>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("withdraw expects <game-id> <player-id>")
					}
					gameID, playerID := cCtx.Args().Get(0), cCtx.Args().Get(1)
					if err := sess.app.Registrations.Withdraw(cCtx.Context, gameID, playerID); err != nil {
						return err
					}
					sess.logger.Info("player withdrawn", "game_id", gameID, "player_id", playerID)
					return nil
				},
			},
			{
				Name:  "tick",
				Usage: "Evaluate every active game once",
				Action: func(cCtx *cli.Context) error {
					report, err := sess.app.Poller.RunOnce(cCtx.Context)
					if err != nil {
						return err
					}
					return sess.out.tick(report)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func gameArg(cCtx *cli.Context) (string, error) {
	gameID := strings.TrimSpace(cCtx.Args().First())
	if gameID == "" {
		return "", fmt.Errorf("%s expects <game-id>", cCtx.Command.Name)
	}
	return gameID, nil
}
