// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-fileeditor applies LLM-written edits to files from the shell.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

// errEditFailed signals a failed edit whose status was already printed.
var errEditFailed = errors.New("edit failed")

// cli holds the state shared by the commands of one invocation.
type cli struct {
	v      *viper.Viper
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errEditFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "go-fileeditor",
		Short:         "Multi-format patch engine for LLM-written edits",
		Long:          "go-fileeditor applies whole-file, SEARCH/REPLACE and unified diff edits to files and prints a status line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("workdir", ".", "Directory relative edit paths resolve against")
	flags.Bool("dry-run", false, "Show a diff of the changes without writing files")
	flags.Bool("commit", false, "Commit the edited files")
	flags.Bool("dirty-commit", true, "With --commit, save uncommitted changes first instead of refusing")
	flags.String("message", "", "Commit summary (generated when empty)")
	flags.Bool("hints", true, "Show the closest match when SEARCH text is not found")
	flags.BoolP("verbose", "v", false, "Enable debug logging on stderr")

	// Bind flags to viper.
	for _, name := range []string{"workdir", "dry-run", "commit", "dirty-commit", "message", "hints", "verbose"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: GO_FILEEDITOR_WORKDIR, GO_FILEEDITOR_DRY_RUN, etc.
	c.v.SetEnvPrefix("GO_FILEEDITOR")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	// Add commands.
	rootCmd.AddCommand(c.newApplyCmd())
	rootCmd.AddCommand(c.newWriteCmd())
	rootCmd.AddCommand(c.newToolCmd())
	rootCmd.AddCommand(c.newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// init reads the optional config file and builds the logger.
func (c *cli) init() error {
	c.v.SetConfigName(".go-fileeditor")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(c.v.GetString("workdir"))
	c.v.AddConfigPath(".")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	config := zap.NewProductionConfig()
	if c.v.GetBool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-fileeditor version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-fileeditor %s\n", version)
		},
	}
}
