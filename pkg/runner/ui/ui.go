package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dispatch/pkg/config"
	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/session"
	"tableflip.dev/dispatch/pkg/store"
	teaui "tableflip.dev/dispatch/pkg/tui/app"
	"tableflip.dev/dispatch/pkg/vehicle"
)

type UI struct {
	Config *config.Config
}

func (d *UI) Do(ctx context.Context) error {
	if d.Config == nil {
		return errors.New("can not start, no config")
	}

	gw, err := gateway.New(d.Config.BaseURL,
		gateway.WithTimeout(d.Config.Timeout),
		gateway.WithRetries(d.Config.Retries),
		gateway.WithCookie(d.Config.Cookie),
	)
	if err != nil {
		return err
	}

	sess, err := session.Establish(ctx, gw)
	if err != nil {
		if errors.Is(err, gateway.ErrSessionExpired) {
			return errors.New("session expired, log in again and update the cookie in .dispatch.yaml")
		}
		return fmt.Errorf("could not establish a session: %w", err)
	}

	drafts, err := vehicle.NewDrafts(d.Config.DraftDir)
	if err != nil {
		return err
	}

	st := store.New(gw, d.Config.PageSize, "task-list")
	m := teaui.New(ctx, st, gw, sess, drafts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
