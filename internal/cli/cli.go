// Package cli wires the configuration, pipeline components and commands.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jhyun-dev/court-watcher/internal/checker"
	"github.com/jhyun-dev/court-watcher/internal/config"
	"github.com/jhyun-dev/court-watcher/internal/court"
	"github.com/jhyun-dev/court-watcher/internal/holiday"
	"github.com/jhyun-dev/court-watcher/internal/httpapi"
	"github.com/jhyun-dev/court-watcher/internal/logger"
	"github.com/jhyun-dev/court-watcher/internal/notifier"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "court-watcher",
		Short: "Watch public tennis court reservations for newly-bookable slots",
		Long: `Polls the public facility-reservation site, extracts bookable time
slots across courts and months, and reports slots not yet seen today to the
configured notification channels.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the scan loop and the snapshot HTTP endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single scan cycle and print what would be reported",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

// pipeline is the component set shared by both commands.
type pipeline struct {
	cfg     *config.Config
	log     *logrus.Logger
	fetcher *court.Fetcher
	dedup   *court.Dedup
	store   *court.SnapshotStore
}

func buildPipeline() (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)

	lookup := holiday.NewLookup(cfg.HolidayAPIURL, cfg.HolidayAPIServiceKey, log)
	classifier := court.Classifier{
		SpecialWeekday: cfg.SpecialWeekday,
		Night: court.NightRule{
			StartHour: cfg.NightStartHour,
			Times:     cfg.NightTimes,
		},
	}
	parser := court.NewParser(lookup, classifier, cfg.CourtReservationURL)
	store := court.NewSnapshotStore()

	return &pipeline{
		cfg:     cfg,
		log:     log,
		fetcher: court.NewFetcher(cfg.CourtViewURL, parser, store, log),
		dedup:   court.NewDedup(),
		store:   store,
	}, nil
}

func buildNotifiers(cfg *config.Config, log logrus.FieldLogger) ([]notifier.Notifier, error) {
	var notifiers []notifier.Notifier

	if cfg.MessengerEnabled {
		notifiers = append(notifiers, notifier.NewMessengerNotifier(cfg.MessengerAPIURL, cfg.MessengerRoom))
	}
	if cfg.TalkEnabled {
		notifiers = append(notifiers, notifier.NewTalkNotifier(cfg.TalkBaseURL, cfg.TalkBotToken, cfg.TalkSharedSecret))
	}
	if cfg.EmailEnabled {
		notifiers = append(notifiers, notifier.NewEmailNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUsername, cfg.EmailPassword, cfg.ReceiverEmail))
	}
	if cfg.TwitterEnabled {
		tw, err := notifier.NewTwitterNotifier()
		if err != nil {
			return nil, fmt.Errorf("initializing Twitter notifier: %w", err)
		}
		notifiers = append(notifiers, tw)
	}

	if len(notifiers) == 0 {
		log.Warn("no notification channel enabled, new slots will only be logged")
	}
	return notifiers, nil
}

func runWatch() error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	notifiers, err := buildNotifiers(p.cfg, p.log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chk := checker.New(p.cfg.Targets, p.fetcher, p.dedup, notifiers, p.log)
	engine, err := chk.Start(ctx, time.Duration(p.cfg.IntervalMinutes)*time.Minute)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.cfg.ListenPort),
		Handler: httpapi.New(p.store, p.log).Router(),
	}

	go func() {
		p.log.WithField("port", p.cfg.ListenPort).Info("snapshot endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.log.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	p.log.WithField("interval_minutes", p.cfg.IntervalMinutes).Info("watcher started")
	<-ctx.Done()

	p.log.Info("shutting down")
	<-engine.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

func runCheck() error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	notifiers := []notifier.Notifier{notifier.NewDryRunNotifier(os.Stdout)}
	chk := checker.New(p.cfg.Targets, p.fetcher, p.dedup, notifiers, p.log)
	chk.RunCycle(context.Background())

	snap := p.store.Latest()
	fmt.Printf("fetched %d available slots at %s\n", snap.Size, snap.Timestamp.Format(time.RFC3339))
	return nil
}
