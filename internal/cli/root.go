package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codegenie-labs/codegenie/internal/branding"
	"github.com/codegenie-labs/codegenie/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// logger is replaced before every command runs.
var logger = zap.NewNop()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` generates Python source from a short description: functions, classes,
exceptions, factory methods, type-dispatching overloads, test stubs and
domain templates for machine learning and natural language processing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			if err := config.Load(); err != nil {
				logger.Warn("ignoring config file, using defaults", zap.Error(err))
			} else {
				logger.Debug("configuration loaded", zap.String("file", config.FilePath()))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(),
		newApplyCmd(),
		newTemplatesCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// newLogger builds a console logger writing to w. Only warnings are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
