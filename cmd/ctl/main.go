package main

import (
	"context"
	"os"
	"realty/cmd/ctl/internal/commands"
	"realty/config"
	"realty/di"
	"realty/shared/logger"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const flushTimeout = 30 * time.Second

var built atomic.Bool

func main() {
	cfg := config.Get()

	closeLog := logger.Setup(cfg)
	defer closeLog()

	// commands touching the domain build the graph lazily so migrate runs against the database alone
	deps := sync.OnceValue(func() *di.Commands {
		built.Store(true)

		return di.InitializeCommands()
	})

	rootCmd := &cobra.Command{
		Use:           "ctl",
		Short:         "Operational commands for the realty backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.NewMigrateCommand(cfg),
		commands.NewDigestCommand(func() commands.DigestSender { return deps().Digest }),
		commands.NewAdminCommand(func() commands.AdminCreator { return deps().Admin }),
	)

	err := rootCmd.Execute()

	flushNotifications(deps)

	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		closeLog()
		os.Exit(1)
	}
}

// flushNotifications waits for mail queued by a command, skipping commands that never built the graph.
func flushNotifications(deps func() *di.Commands) {
	if !built.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := deps().Notification.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("Pending notifications were not delivered")
	}
}
