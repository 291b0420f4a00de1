package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/attendance-planner/internal/config"
	"github.com/username/attendance-planner/internal/ledger"
	"github.com/username/attendance-planner/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attendance-planner",
		Short: "Office Attendance Policy Planner",
		Long:  "Track in-office and out-of-office days, check weekly policy compliance and plan future attendance",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Logging.LogFile != "" {
				logger, err = initFileLogger(cfg.Logging.LogFile, cfg.Logging.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(markCmd())
	rootCmd.AddCommand(unmarkCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(planCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openLedger loads config and the persisted ledger
func openLedger() (*ledger.Ledger, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store := storage.NewFileStore(cfg.Storage.DataFile, true, logger)
	led := ledger.New(store, logger)
	if err := led.Load(); err != nil {
		return nil, nil, err
	}

	return led, cfg, nil
}

func weeklyPolicy(cfg *config.Config) ledger.Policy {
	return ledger.Policy{
		RequiredDaysPerWeek: cfg.Policy.RequiredDaysPerWeek,
		WeekStart:           cfg.Policy.GetWeekStart(),
	}
}

func rollingPolicy(cfg *config.Config) ledger.RollingPolicy {
	return ledger.RollingPolicy{
		RequiredDays: cfg.Rolling.RequiredDays,
		WindowWeeks:  cfg.Rolling.WindowWeeks,
		BestWeeks:    cfg.Rolling.BestWeeks,
		WeekStart:    cfg.Policy.GetWeekStart(),
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
