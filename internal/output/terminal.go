package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ClearScreen clears the terminal screen and moves cursor to top-left
func ClearScreen(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[2J\033[H")
}

// HideCursor hides the terminal cursor
func HideCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor
func ShowCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25h")
}

// SetupSignalHandler returns a channel that receives interrupt signals
func SetupSignalHandler() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return sigChan
}

// WatchOptions configures Watch
type WatchOptions struct {
	Interval time.Duration
	Colors   *Colors
	// Stop ends the loop when it receives; defaults to SIGINT/SIGTERM
	Stop <-chan os.Signal
	Now  func() time.Time
}

// Watch clears the screen and calls render every interval until ctx is
// done or a stop signal arrives. Render errors are printed in place of the
// board and do not end the loop.
func Watch(ctx context.Context, w io.Writer, opts WatchOptions, render func(ctx context.Context, w io.Writer) error) error {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stop == nil {
		sig := SetupSignalHandler()
		defer signal.Stop(sig)
		opts.Stop = sig
	}
	c := opts.Colors
	if c == nil {
		c = NewColors(ColorNever)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	HideCursor(w)
	defer ShowCursor(w)

	for {
		ClearScreen(w)
		_, _ = fmt.Fprintln(w, c.Muted("Actualizado: %s | Próxima actualización en %s | Ctrl+C para salir",
			opts.Now().Format("15:04:05"), opts.Interval))
		_, _ = fmt.Fprintln(w)

		if err := render(ctx, w); err != nil {
			_, _ = fmt.Fprintln(w, c.Error("%s", err.Error()))
		}

		select {
		case <-ticker.C:
		case <-opts.Stop:
			ClearScreen(w)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
