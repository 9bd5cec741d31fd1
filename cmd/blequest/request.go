package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/internal/adapter/goble"
	"github.com/srg/blequest/internal/bleuuid"
	"github.com/srg/blequest/request"
)

// requestCmd represents the request command
var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request a single BLE device matching the given criteria",
	Long: `Scan for Bluetooth Low Energy devices and return the first one that
matches the acceptance criteria.

The scan stops as soon as a match is found (or the scan time elapses), so the
radio is held no longer than necessary. Criteria given on the command line form
a single filter; use --config to supply several alternative filters from a
YAML file.`,
	Example: `  # First device advertising the Heart Rate service
  blequest request -s heart_rate

  # First device whose name starts with "PLT", pick interactively
  blequest request --name-prefix PLT -i

  # Any device at all, wait up to 5 seconds
  blequest request --accept-all -t 5s`,
	RunE: runRequest,
}

var (
	requestServices    []string
	requestName        string
	requestNamePrefix  string
	requestAcceptAll   bool
	requestOptional    []string
	requestScanTime    time.Duration
	requestInteractive bool
	requestFormat      string
	requestConfigPath  string
)

// newRequestAdapter is replaced in tests to avoid touching the real radio.
var newRequestAdapter = func(logger *logrus.Logger) adapter.Adapter {
	return goble.New(logger)
}

func init() {
	requestCmd.Flags().StringSliceVarP(&requestServices, "service", "s", nil, "Require these advertised service UUIDs (repeatable)")
	requestCmd.Flags().StringVarP(&requestName, "name", "n", "", "Require this exact advertised name")
	requestCmd.Flags().StringVar(&requestNamePrefix, "name-prefix", "", "Require the advertised name to start with this prefix")
	requestCmd.Flags().BoolVar(&requestAcceptAll, "accept-all", false, "Accept any device instead of filtering")
	requestCmd.Flags().StringSliceVar(&requestOptional, "optional-service", nil, "Extra service UUIDs to allow on the chosen device")
	requestCmd.Flags().DurationVarP(&requestScanTime, "scan-time", "t", 0, "Give up after this long (default 10.24s)")
	requestCmd.Flags().BoolVarP(&requestInteractive, "interactive", "i", false, "Confirm each matching device before accepting")
	requestCmd.Flags().StringVarP(&requestFormat, "format", "f", "table", "Output format (table, json)")
	requestCmd.Flags().StringVarP(&requestConfigPath, "config", "c", "", "Read request criteria from a YAML file")
}

func runRequest(cmd *cobra.Command, args []string) error {
	if requestFormat != "table" && requestFormat != "json" {
		return fmt.Errorf("invalid format '%s': must be one of [table json]", requestFormat)
	}

	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	cfg, err := resolveRequestConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := cfg.toOptions()
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	ctrl := request.NewController(newRequestAdapter(logger), logger)
	defer ctrl.Close()

	// Listen for Ctrl+C to cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nCtrl+C pressed, cancelling request...")
		cancel()
	}()

	var progress *requestProgress
	if requestInteractive {
		opts.DeviceFound = interactiveDeviceFound(ctrl)
	} else {
		scanTime := opts.ScanTime
		if scanTime <= 0 {
			scanTime = request.DefaultScanTime
		}
		progress = newRequestProgress(scanTime)
		progress.Start()
		defer progress.Stop()
	}

	// Feed the progress line (and the debug log) from the candidate stream.
	go func() {
		for ev := range ctrl.Events() {
			if progress != nil && ev.Type != request.EventAccepted {
				progress.Observed()
			}
			logger.WithFields(logrus.Fields{
				"address": ev.Address,
				"name":    ev.Name,
				"rssi":    ev.RSSI,
				"type":    ev.Type,
			}).Debug("candidate evaluated")
		}
	}()

	dev, err := ctrl.RequestDevice(ctx, opts)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		if errors.Is(err, request.ErrNoDevicesFound) {
			return fmt.Errorf("no matching device found within the scan time")
		}
		return err
	}

	return displayDevice(dev, requestFormat)
}

// resolveRequestConfig loads the optional YAML file and layers command-line
// flags on top of it.
func resolveRequestConfig(cmd *cobra.Command) (*requestConfig, error) {
	cfg := newRequestConfig()
	if requestConfigPath != "" {
		var err error
		cfg, err = loadRequestConfig(requestConfigPath)
		if err != nil {
			return nil, err
		}
	}

	if requestAcceptAll {
		cfg.AcceptAll = true
	}
	if len(requestOptional) > 0 {
		cfg.OptionalServices = append(cfg.OptionalServices, requestOptional...)
	}
	if cmd.Flags().Changed("scan-time") {
		cfg.ScanTime = requestScanTime.String()
	}

	// Flags describing a criterion combine into one additional filter.
	if len(requestServices) > 0 || requestName != "" || requestNamePrefix != "" {
		cfg.Filters = append(cfg.Filters, filterConfig{
			Name:       requestName,
			NamePrefix: requestNamePrefix,
			Services:   requestServices,
		})
	}

	return cfg, nil
}

// interactiveDeviceFound prompts on every match. Answering 'q' abandons the
// request entirely.
func interactiveDeviceFound(ctrl *request.Controller) request.DeviceFoundFunc {
	return func(dev *request.DiscoveredDevice, accept func()) bool {
		printCandidate(dev)

		switch promptKey("Accept this device? [y/N/q] ") {
		case 'y', 'Y':
			return true
		case 'q', 'Q':
			// CancelRequest waits for the scan to stop, and the scan can't
			// stop until this callback returns - so cancel from the side.
			go func() { _ = ctrl.CancelRequest() }()
			return false
		default:
			fmt.Println("skipped")
			return false
		}
	}
}

func printCandidate(dev *request.DiscoveredDevice) {
	bold := color.New(color.Bold)
	fmt.Println()
	bold.Printf("Found %s", dev.Name())
	fmt.Printf("  [%s]  %d dBm\n", dev.Address(), dev.RSSI())
	if svcs := dev.AdvertisedServices(); len(svcs) > 0 {
		fmt.Printf("  services: %s\n", strings.Join(serviceLabels(svcs), ", "))
	}
}

// promptKey reads a single keypress without waiting for Enter, falling back to
// line-buffered input when stdin is not a terminal.
func promptKey(prompt string) byte {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Scanln(&line); err != nil || line == "" {
			fmt.Println()
			return 'n'
		}
		return line[0]
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return 'n'
	}
	buf := make([]byte, 1)
	_, readErr := os.Stdin.Read(buf)
	_ = term.Restore(fd, old)
	fmt.Println()
	if readErr != nil {
		return 'n'
	}
	return buf[0]
}

// serviceLabels renders UUIDs with their registered names where known.
func serviceLabels(uuids []string) []string {
	labels := make([]string, 0, len(uuids))
	for _, u := range uuids {
		if name := bleuuid.KnownName(u); name != "" {
			labels = append(labels, fmt.Sprintf("%s (%s)", bleuuid.Shorten(u), name))
		} else {
			labels = append(labels, bleuuid.Shorten(u))
		}
	}
	return labels
}

type deviceOutput struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	RSSI               int      `json:"rssi"`
	TxPower            *int     `json:"txPower,omitempty"`
	Connectable        bool     `json:"connectable"`
	AdvertisedServices []string `json:"advertisedServices"`
	AllowedServices    []string `json:"allowedServices"`
}

func displayDevice(dev *request.DiscoveredDevice, format string) error {
	out := deviceOutput{
		ID:                 dev.ID(),
		Name:               dev.LocalName(),
		Address:            dev.Address(),
		RSSI:               dev.RSSI(),
		TxPower:            dev.TxPower(),
		Connectable:        dev.IsConnectable(),
		AdvertisedServices: dev.AdvertisedServices(),
		AllowedServices:    dev.AllowedServices(),
	}

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	var w io.Writer = os.Stdout
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", dev.Name())
	fmt.Fprintf(tw, "Address:\t%s\n", out.Address)
	fmt.Fprintf(tw, "RSSI:\t%d dBm\n", out.RSSI)
	if out.TxPower != nil {
		fmt.Fprintf(tw, "Tx power:\t%d dBm\n", *out.TxPower)
	}
	fmt.Fprintf(tw, "Connectable:\t%t\n", out.Connectable)
	if len(out.AdvertisedServices) > 0 {
		fmt.Fprintf(tw, "Services:\t%s\n", strings.Join(serviceLabels(out.AdvertisedServices), ", "))
	}
	if len(out.AllowedServices) > 0 {
		fmt.Fprintf(tw, "Allowed:\t%s\n", strings.Join(serviceLabels(out.AllowedServices), ", "))
	}
	return tw.Flush()
}
