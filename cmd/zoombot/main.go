package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
)

var cfg struct {
	ConfigFile string
	Debug      bool
}

func init() {
	flag.StringVar(&cfg.ConfigFile, "config", "config.yml", "path to the config file")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	log := newLogger(cfg.Debug)

	cmd := RunCommand.Name
	args := flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case RunCommand.Name:
		err = RunCommand.Run(ctx, cfg.ConfigFile, log, args)
	case LoginCommand.Name:
		err = LoginCommand.Run(ctx, cfg.ConfigFile, log, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [options] <command>\n\n", os.Args[0])
	fmt.Fprintln(w, "Commands:")
	for _, c := range []struct{ Name, Description string }{
		{RunCommand.Name, RunCommand.Description},
		{LoginCommand.Name, LoginCommand.Description},
	} {
		fmt.Fprintf(w, "  %-8s %s\n", c.Name, c.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
}
