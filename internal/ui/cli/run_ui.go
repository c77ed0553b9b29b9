package cli

import (
	"context"
	"time"

	"esmlex/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWatchUI scans roots once, then streams watch updates into a terminal
// dashboard until the user quits or ctx is cancelled.
func RunWatchUI(ctx context.Context, a *app.App, roots []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(initialModel(), tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		rep, err := a.Scan(ctx, roots)
		if err != nil {
			p.Send(watchErrMsg{err: err})
			return
		}
		p.Send(updateMsg{at: time.Now(), files: rep.Files})

		err = a.Watch(ctx, roots, func(u app.Update) {
			p.Send(updateMsg{at: u.At, files: u.Files, removed: u.Removed})
		})
		if err != nil {
			p.Send(watchErrMsg{err: err})
		}
	}()

	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}
