/*
Command weft renders HTML documents into laid-out box trees, from the
command line. It is a workbench for the engine, not a browser: output is
a textual or GraphViz rendering of the box tree, with geometry.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// tracer traces with key 'weft.frame'
func tracer() tracing.Trace {
	return tracing.Select("weft.frame")
}

var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "weft lays out HTML documents into box trees",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize()
	}
	rootCmd.PersistentFlags().String("trace", "Info", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().String("config", "", "config file (default is ./weft.yaml)")
	viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))
}

// initialize reads the configuration and sets up tracing. Configuration
// values come from a config file, WEFT_* environment variables and
// flags, in ascending priority.
func initialize() error {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("weft")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("WEFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// no config file, proceed with defaults and environment
	}
	level := viper.GetString("trace")
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range []string{
		"weft.fonts", "weft.resources", "weft.dom", "weft.tree", "weft.text",
		"weft.frame", "weft.frame.box", "weft.frame.layout", "weft.frame.reflow",
		"weft.frame.inline", "weft.frame.stacking",
	} {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
