package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeanthielis/relatorio-retidos/internal/config"
	"github.com/jeanthielis/relatorio-retidos/internal/logging"
)

var cfgFile string

// rootCmd base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "retidos",
	Short: "Relatório de material retido por linha e equipe.",
	Long: `retidos cruza o arquivo de Produção com o arquivo de Retidos (CSV ou XLSX),
calcula o percentual retido por linha e equipe contra a meta e exporta o resumo.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.toml beside the executable)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error")
}

// setup loads the configuration and builds the logger. --loglevel wins over [log] level.
func setup(cmd *cobra.Command) (*config.AppConfig, config.LoadConfigInfo, *logrus.Logger, error) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if cfgFile != "" {
		cfg, info, err = config.LoadFile(cfgFile)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, info, nil, err
	}

	level, _ := cmd.Flags().GetString("loglevel")
	if level == "" {
		level = cfg.Log.Level
	}
	log, err := logging.New(level, os.Stderr)
	if err != nil {
		return nil, info, nil, err
	}

	log.WithFields(logrus.Fields{"path": info.Path, "found": info.Found}).Debug("config loaded")
	return cfg, info, log, nil
}
