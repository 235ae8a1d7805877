package main

import (
	"fmt"
	"os"

	"github.com/go-slark/proptree/cmd/propctl/doc"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propctl",
	Short: "inspect and convert property documents",
	Long:  "propctl converts, formats and lists property documents in every registered archiver format",

	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(doc.ConvertCmd)
	rootCmd.AddCommand(doc.FmtCmd)
	rootCmd.AddCommand(doc.ListCmd)
	rootCmd.AddCommand(doc.ArchiversCmd)
}

func main() {
	if err := setupLogger(os.Getenv("PROPTREE_LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger installs a logrus logger at level. An empty level keeps the
// package default.
func setupLogger(level string) error {
	if level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(level); err != nil {
		return errors.Configuration("invalid log level").WithMeta(errors.MetaValue, level).WithError(err)
	}
	logger.SetDefault(logger.NewLog(logger.WithSrvName("propctl"), logger.WithLevel(level)))
	return nil
}
