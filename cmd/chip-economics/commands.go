package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/chip-economics/internal/config"
	"github.com/iwvelando/chip-economics/internal/report"
	"github.com/iwvelando/chip-economics/internal/server"
	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/output"
	"github.com/iwvelando/chip-economics/pkg/sweep"
	"github.com/iwvelando/chip-economics/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// session is the loaded configuration with its logger and output format.
type session struct {
	conf         *config.Configuration
	logger       *zap.Logger
	outputFormat string
}

func (o *rootOptions) load() (*session, error) {
	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if o.outputFormat != "" {
		outputFormat = o.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return &session{conf: conf, logger: logger, outputFormat: outputFormat}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func newRootCmd(ver string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chip-economics",
		Short:         "Payable wood chip prices for a biochar plant",
		Long:          "chip-economics computes the chip price a pyrolysis plant can pay, break-even supply radii and sensitivity sweeps.",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, yaml")

	cmd.AddCommand(
		newReportCmd(opts),
		newSweepCmd(opts),
		newValidateCmd(opts),
		newServeCmd(opts, ver),
		newVersionCmd(ver),
	)
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the headline figures of every active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.load()
			if err != nil {
				return err
			}
			defer s.close()

			results, err := report.GetReports(s.logger, *s.conf)
			if err != nil {
				s.logger.Error("failed to compute reports",
					zap.String("op", "main"),
					zap.Error(err),
				)
				return err
			}
			return output.Write(cmd.OutOrStdout(), s.outputFormat, results)
		},
	}
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var scenario string
	var workers int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compute a sensitivity table for one scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_, err := sweep.ParseKind(args[0])
				return err
			}
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&scenario, "scenario", "", "scenario name (default: first active scenario)")
	cmd.PersistentFlags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "number of goroutines computing sweep points")

	short := map[sweep.Kind]string{
		sweep.KindDistance:    "Delivered cost against the payable price over distance",
		sweep.KindPrice:       "Payable price and break-even radii over biochar price",
		sweep.KindGrid:        "Gap or break-even radius over biochar price and moisture",
		sweep.KindBreakdown:   "Delivered cost components at a fixed distance",
		sweep.KindFarmMargin:  "Supplier margin over distance",
		sweep.KindPlantMargin: "Plant gross margin over chip price",
	}

	for _, kind := range sweep.Kinds() {
		cmd.AddCommand(&cobra.Command{
			Use:   string(kind),
			Short: short[kind],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := opts.load()
				if err != nil {
					return err
				}
				defer s.close()

				sc, err := s.conf.FindScenario(scenario)
				if err != nil {
					return err
				}

				gen := sweep.NewGenerator(s.logger, workers)
				series, err := gen.Run(cmd.Context(), kind, sc.Parameters, s.conf.Sweeps)
				if err != nil {
					s.logger.Error("failed to compute sweep",
						zap.String("op", "main"),
						zap.String("kind", string(kind)),
						zap.String("scenario", sc.Name),
						zap.Error(err),
					)
					return err
				}
				if flagged := series.Flagged(); len(flagged) > 0 {
					s.logger.Warn(fmt.Sprintf("%d sweep points have non-finite values", len(flagged)),
						zap.String("op", "main"),
						zap.String("kind", string(kind)),
					)
				}
				return output.WriteTable(cmd.OutOrStdout(), s.outputFormat, series)
			},
		})
	}
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and list its warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.LoadConfiguration(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
			}

			out := cmd.OutOrStdout()
			warnings := conf.ValidateConfiguration()
			if opts.outputFormat != "" {
				if err := validation.ValidateOutputFormat(opts.outputFormat); err != nil {
					warnings = append(warnings, err.Error())
				}
			}
			if len(warnings) == 0 {
				_, err := fmt.Fprintf(out, "%s: configuration is valid (%d active scenarios)\n", opts.configPath, len(conf.ActiveScenarios()))
				return err
			}
			for _, w := range warnings {
				if _, err := fmt.Fprintf(out, "warning: %s\n", w); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions, ver string) *cobra.Command {
	var serverConfigPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report and sweep API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			return serve(cmd.Context(), logger, cfg, ver)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

// serve runs the API until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config, ver string) error {
	handler := server.NewHandler(logger, cfg, ver)
	defer handler.Close()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("max_upload_bytes", cfg.UploadSizeBytes()),
			zap.Int("workers", cfg.Workers),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), ver)
			return err
		},
	}
}
