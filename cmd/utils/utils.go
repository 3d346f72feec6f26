// Package utils provides the shared flags and helpers of the commands.
package utils

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier string
	gitCommit        string
	gitDate          string
)

// NewApp creates an app with sane defaults.
func NewApp(identifier, gitcommit, gitdate, usage string) *cli.App {
	clientIdentifier = identifier
	gitCommit = gitcommit
	gitDate = gitdate
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// SignalContext returns a context which is canceled on SIGINT or SIGTERM
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Info("receive signal, exiting", "signal", sig)
		cancel()
	}()
	return ctx
}
