// Command tictac serves the tic-tac-toe engine over HTTP and plays or
// evaluates positions from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tictac/internal/app"
	"github.com/jaminalder/tictac/internal/config"
	"github.com/jaminalder/tictac/internal/domain"
	"github.com/jaminalder/tictac/internal/engine"
	"github.com/jaminalder/tictac/internal/logging"
	"github.com/jaminalder/tictac/internal/web"
)

const usage = `usage:
  tictac serve [-config file]
  tictac eval <state>
  tictac selfplay [state]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = serve(args)
	case "eval":
		err = eval(os.Stdout, args)
	case "selfplay":
		err = selfplay(os.Stdout, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tictac:", err)
		os.Exit(1)
	}
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	path := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	if _, err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	svc := app.NewService()
	if cfg.PrewarmCache {
		if err := svc.Prewarm(); err != nil {
			return err
		}
	}
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      web.NewServer(svc),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func eval(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("eval takes exactly one state")
	}
	b, err := domain.Parse(args[0])
	if err != nil {
		return err
	}
	r, err := engine.New(nil).Evaluate(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "score %.4f next %s\n", r.Score, r.Next)
	printBoard(w, r.Next)
	return nil
}

// selfplay lets the engine play both sides from the given state (the empty
// board by default) until the game ends.
func selfplay(w io.Writer, args []string) error {
	state := domain.EmptyBoard
	if len(args) > 0 {
		b, err := domain.Parse(args[0])
		if err != nil {
			return err
		}
		state = b
	}
	e := engine.New(nil)
	for {
		r, err := e.Evaluate(state)
		if err != nil {
			return err
		}
		printBoard(w, r.Next)
		fmt.Fprintf(w, "Score: %.2f\n", r.Score)
		switch {
		case r.Score == 1:
			fmt.Fprintln(w, "Win")
			return nil
		case r.Score == -1:
			fmt.Fprintln(w, "Lose")
			return nil
		case r.Score == 0 && state.Full():
			fmt.Fprintln(w, "Tie game.")
			return nil
		}
		state = r.Next
	}
}

func printBoard(w io.Writer, b domain.Board) {
	for _, row := range b.Rows() {
		for _, c := range row {
			switch c {
			case 'x':
				fmt.Fprint(w, aurora.Red("x"))
			case 'o':
				fmt.Fprint(w, aurora.Blue("o"))
			default:
				fmt.Fprint(w, aurora.Faint("-"))
			}
		}
		fmt.Fprintln(w)
	}
}
