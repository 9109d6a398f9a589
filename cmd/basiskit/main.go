package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/basiskit/basiskit"
	"github.com/basiskit/basiskit/config"
	"github.com/basiskit/basiskit/pkg/log"
)

var (
	configPath string
	v          = config.New()
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "basiskit",
	Short:         "Train and evaluate basis-expanded models",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v, configPath); err != nil {
			return err
		}
		return log.SetupLogger(cfg.Log.Level)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), basiskit.Version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file (yaml, toml or json)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("data", "", "CSV file")
	flags.String("class0", "0", "label of class 0")
	flags.String("class1", "1", "label of class 1")
	flags.Int("skip", 0, "leading columns to ignore")
	flags.Float64("split", 80, "percentage of rows used for training")
	flags.Bool("label-at-start", false, "label is the first column after the skipped ones")
	flags.Bool("header", false, "first row is a header")
	flags.Bool("clean", false, "replace zero features with the column median")
	flags.Bool("scale", false, "min-max scale every feature")
	flags.StringSlice("basis", []string{"one", "identity"}, "basis functions, bias transform first")
	bindFlags(v, flags, map[string]string{
		"log-level":      "log.level",
		"data":           "data.path",
		"class0":         "data.class0",
		"class1":         "data.class1",
		"skip":           "data.skip",
		"split":          "data.split",
		"label-at-start": "data.label_at_start",
		"header":         "data.header",
		"clean":          "data.clean",
		"scale":          "data.scale",
		"basis":          "model.basis",
	})

	rootCmd.AddCommand(evaluateCmd, networkCmd, versionCmd)
}

// bindFlags makes each flag override its config key when set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "basiskit:", err)
		os.Exit(1)
	}
}
