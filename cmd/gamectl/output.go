package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/pickup-football/internal/domain/game"
	"github.com/riskibarqy/pickup-football/internal/domain/registration"
	"github.com/riskibarqy/pickup-football/internal/domain/window"
	"github.com/riskibarqy/pickup-football/internal/interfaces/worker"
	"github.com/riskibarqy/pickup-football/internal/usecase"
)

type gameOutput struct {
	ID                      string    `json:"id"`
	Venue                   string    `json:"venue,omitempty"`
	Status                  string    `json:"status"`
	RegistrationWindowStart time.Time `json:"registration_window_start"`
	RegistrationWindowEnd   time.Time `json:"registration_window_end"`
	TeamAnnouncementTime    time.Time `json:"team_announcement_time"`
	MaxPlayers              int       `json:"max_players"`
	RandomSlots             int       `json:"random_slots"`
}

type registrationOutput struct {
	PlayerID         string `json:"player_id"`
	Status           string `json:"status"`
	RandomlySelected bool   `json:"randomly_selected"`
	Team             string `json:"team,omitempty"`
	UsingToken       bool   `json:"using_token"`
}

type teamsOutput struct {
	Blue      []string `json:"blue"`
	Orange    []string `json:"orange"`
	TotalDiff float64  `json:"total_diff"`
	Method    string   `json:"method"`
}

type eventOutput struct {
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome"`
	Attempt    int       `json:"attempt,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type statusOutput struct {
	Game             gameOutput           `json:"game"`
	NextCheck        *time.Time           `json:"next_check,omitempty"`
	Registrations    []registrationOutput `json:"registrations"`
	Teams            *teamsOutput         `json:"teams,omitempty"`
	AnnounceAttempts int                  `json:"announce_attempts"`
	AnnounceBlocked  bool                 `json:"announce_blocked"`
	Events           []eventOutput        `json:"events"`
}

// printer renders command results as aligned text or JSON.
type printer struct {
	w    io.Writer
	json bool
	now  func() time.Time
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON, now: time.Now}
}

func (p *printer) game(item game.Game) error {
	out := toGameOutput(item)
	if p.json {
		return p.encode(out)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "game\t%s\n", out.ID)
	fmt.Fprintf(tw, "venue\t%s\n", out.Venue)
	fmt.Fprintf(tw, "status\t%s\n", out.Status)
	fmt.Fprintf(tw, "registration\t%s .. %s\n", out.RegistrationWindowStart.Format(time.RFC3339), out.RegistrationWindowEnd.Format(time.RFC3339))
	fmt.Fprintf(tw, "teams announced\t%s\n", out.TeamAnnouncementTime.Format(time.RFC3339))
	fmt.Fprintf(tw, "slots\t%d (%d random)\n", out.MaxPlayers, out.RandomSlots)
	return tw.Flush()
}

func (p *printer) transition(result usecase.TransitionResult, err error) error {
	if err != nil {
		return err
	}
	if p.json {
		return p.encode(result)
	}
	line := fmt.Sprintf("%s %s: %s", result.GameID, result.Kind, result.Outcome)
	if result.From != "" && result.To != "" {
		line += fmt.Sprintf(" (%s -> %s)", result.From, result.To)
	}
	if result.Message != "" {
		line += " " + result.Message
	}
	_, err = fmt.Fprintln(p.w, line)
	return err
}

func (p *printer) registration(item registration.Registration) error {
	out := toRegistrationOutput(item)
	if p.json {
		return p.encode(out)
	}
	_, err := fmt.Fprintf(p.w, "%s registered (status=%s token=%t)\n", out.PlayerID, out.Status, out.UsingToken)
	return err
}

func (p *printer) tick(report worker.TickReport) error {
	if p.json {
		return p.encode(report)
	}
	_, err := fmt.Fprintf(p.w, "games=%d completed=%d skipped=%d failed=%d exhausted=%d\n",
		report.Games, report.Completed, report.Skipped, report.Failed, report.Exhausted)
	return err
}

func (p *printer) view(view usecase.GameView) error {
	out := statusOutput{
		Game:             toGameOutput(view.Game),
		Registrations:    make([]registrationOutput, 0, len(view.Registrations)),
		AnnounceAttempts: view.AnnounceState.Attempts,
		AnnounceBlocked:  view.AnnounceState.Exhausted,
		Events:           make([]eventOutput, 0, len(view.Events)),
	}
	if at, ok := window.NextBoundary(view.Game, p.now()); ok {
		out.NextCheck = &at
	}
	for _, item := range view.Registrations {
		out.Registrations = append(out.Registrations, toRegistrationOutput(item))
	}
	if view.Assignment != nil {
		out.Teams = &teamsOutput{
			Blue:      view.Assignment.BlueTeam,
			Orange:    view.Assignment.OrangeTeam,
			TotalDiff: view.Assignment.Stats.TotalDiff,
			Method:    view.Assignment.Method,
		}
	}
	for _, event := range view.Events {
		out.Events = append(out.Events, eventOutput{
			Kind:       string(event.Kind),
			Outcome:    string(event.Outcome),
			Attempt:    event.Attempt,
			Message:    event.Message,
			OccurredAt: event.OccurredAt,
		})
	}
	if p.json {
		return p.encode(out)
	}

	if err := p.game(view.Game); err != nil {
		return err
	}
	if out.NextCheck != nil {
		fmt.Fprintf(p.w, "next check  %s\n", out.NextCheck.Format(time.RFC3339))
	}
	if out.AnnounceBlocked {
		fmt.Fprintf(p.w, "\nteam announcement blocked after %d attempts, run reset-retries\n", out.AnnounceAttempts)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nPLAYER\tSTATUS\tRANDOM\tTEAM\tTOKEN")
	for _, item := range out.Registrations {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%t\n", item.PlayerID, item.Status, item.RandomlySelected, dash(item.Team), item.UsingToken)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out.Teams != nil {
		fmt.Fprintf(p.w, "\nblue:   %s\norange: %s\ndiff:   %.2f (%s)\n",
			strings.Join(out.Teams.Blue, ", "), strings.Join(out.Teams.Orange, ", "), out.Teams.TotalDiff, out.Teams.Method)
	}

	tw = tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nAT\tKIND\tOUTCOME\tATTEMPT\tMESSAGE")
	for _, event := range out.Events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", event.OccurredAt.Format(time.RFC3339), event.Kind, event.Outcome, event.Attempt, event.Message)
	}
	return tw.Flush()
}

func (p *printer) encode(v any) error {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(body))
	return err
}

func toGameOutput(item game.Game) gameOutput {
	return gameOutput{
		ID:                      item.ID,
		Venue:                   item.Venue,
		Status:                  string(item.Status),
		RegistrationWindowStart: item.RegistrationWindowStart,
		RegistrationWindowEnd:   item.RegistrationWindowEnd,
		TeamAnnouncementTime:    item.TeamAnnouncementTime,
		MaxPlayers:              item.MaxPlayers,
		RandomSlots:             item.RandomSlots,
	}
}

func toRegistrationOutput(item registration.Registration) registrationOutput {
	return registrationOutput{
		PlayerID:         item.PlayerID,
		Status:           string(item.Status),
		RandomlySelected: item.RandomlySelected,
		Team:             string(item.Team),
		UsingToken:       item.UsingToken,
	}
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
