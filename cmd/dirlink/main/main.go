package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dirlink/cmd/dirlink"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/style"
)

func main() {
	// A stop signal during startup ends the run between units
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := dirlink.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		msg := fmt.Sprintf("Error: %v", err)
		if errors.IsErrorCode(err, errors.ErrWarnings) {
			fmt.Fprintln(os.Stderr, style.WarningStyle.Render(msg))
		} else {
			fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(msg))
		}
	}
	os.Exit(dirlink.ExitCode(err))
}
