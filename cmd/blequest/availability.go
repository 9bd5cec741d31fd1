package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/srg/blequest/internal/ringchan"
	"github.com/srg/blequest/request"
)

// availabilityCmd represents the availability command
var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Report whether the Bluetooth adapter is usable",
	Long: `Report whether the Bluetooth adapter is present and powered on.

With --watch, keep running and print a line every time availability changes,
e.g. when the radio is toggled in system settings.`,
	RunE: runAvailability,
}

var availabilityWatch bool

func init() {
	availabilityCmd.Flags().BoolVarP(&availabilityWatch, "watch", "w", false, "Keep watching for availability changes")
}

func runAvailability(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctrl := request.NewController(newRequestAdapter(logger), logger)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	available, err := ctrl.Availability(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to query adapter availability: %w", err)
	}
	printAvailability(available)

	if !availabilityWatch {
		if !available {
			os.Exit(1)
		}
		return nil
	}

	// Decouple the adapter's notification goroutine from terminal output;
	// if changes outpace printing, only the newest matter.
	changes := ringchan.New[bool](16)
	unsubscribe := ctrl.OnAvailabilityChanged(func(enabled bool) {
		changes.Send(enabled)
	})
	defer unsubscribe()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case enabled := <-changes.C():
			printAvailability(enabled)
		}
	}
}

func printAvailability(available bool) {
	ts := time.Now().Format(time.TimeOnly)
	if available {
		color.New(color.FgGreen).Printf("%s  Bluetooth is available\n", ts)
	} else {
		color.New(color.FgRed).Printf("%s  Bluetooth is unavailable\n", ts)
	}
}
