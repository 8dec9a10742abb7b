package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/opengraphio-go/internal/app"
	"github.com/samvad-hq/opengraphio-go/internal/config"
	"github.com/samvad-hq/opengraphio-go/internal/logger"
	"github.com/spf13/pflag"
)

const usage = `usage:
  ogio fetch [flags] <url>      look up a URL and print the result
  ogio history [flags] [id...]  list archived lookups, newest first, or the given ones`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ogio failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cmd, args := args[0], args[1:]
	if cmd != "fetch" && cmd != "history" {
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	fs := pflag.NewFlagSet("ogio "+cmd, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	selector := fs.String("select", "", "print texts of elements matching this CSS selector (scrape service only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ogio, err := app.NewOgio(cfg, log, os.Stdout)
	if err != nil {
		log.ErrorObj("failed to initialize ogio", "error", err.Error())
		return err
	}
	defer func() {
		if cerr := ogio.Close(); cerr != nil {
			log.WarnObj("shutdown failed", "error", cerr.Error())
		}
	}()

	switch cmd {
	case "history":
		return ogio.History(fs.Args()...)
	default:
		if fs.NArg() != 1 {
			return fmt.Errorf("fetch takes exactly one url\n%s", usage)
		}
		return ogio.Fetch(ctx, fs.Arg(0), *selector)
	}
}
