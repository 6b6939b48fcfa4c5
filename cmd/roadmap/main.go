package main

import (
	"fmt"
	"os"

	"roadmap_backend/internal/client"
	"roadmap_backend/internal/study"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultServer = "http://localhost:8080"

// cli 保存全局参数与运行时依赖
type cli struct {
	server    string
	storePath string
	verbose   bool

	logger *zap.Logger
	api    *client.RoadmapClient
	store  study.KVStore
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "roadmap",
		Short: "AI-generated learning roadmaps in your terminal",
		Long: `roadmap asks the roadmap server for a structured learning path on any
topic and lets you study it stage by stage.

Run without arguments to open the interactive study view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStudy(cmd, nil)
		},
	}

	server := os.Getenv("ROADMAP_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&c.server, "server", server, "roadmap server base URL (env ROADMAP_SERVER)")
	root.PersistentFlags().StringVar(&c.storePath, "store", "", "local state file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newStudyCmd(c),
		newGenerateCmd(c),
		newSigninCmd(c),
		newWhoamiCmd(c),
	)
	return root
}

func (c *cli) init() error {
	config := zap.NewProductionConfig()
	if c.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger

	c.api = client.New(c.server, logger)

	path := c.storePath
	if path == "" {
		path, err = study.DefaultStorePath()
		if err != nil {
			return err
		}
	}
	c.store = study.NewFileStore(path)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
