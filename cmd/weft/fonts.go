package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/npillmayer/weft/core/font"
	"github.com/npillmayer/weft/core/locate/resources"
)

var fontsCmd = &cobra.Command{
	Use:   "fonts <name>",
	Short: "resolve a typeface by name and report where it was found",
	Args:  cobra.ExactArgs(1),
	RunE:  fonts,
}

func init() {
	rootCmd.AddCommand(fontsCmd)
	fontsCmd.Flags().Float64("size", 11.0, "font size in points")
	fontsCmd.Flags().String("style", "normal", "font style [normal|italic]")
	fontsCmd.Flags().Int32("weight", 400, "font weight [100..900]")
}

func fonts(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetFloat64("size")
	style, _ := cmd.Flags().GetString("style")
	weight, _ := cmd.Flags().GetInt32("weight")
	promise := resources.ResolveTypeCase(args[0], font.CSSStyle(style), font.CSSWeight(weight), size)
	typecase, err := promise.TypeCase()
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%q not found (%v), falling back\n", args[0], err)
	}
	sf := typecase.ScalableFontParent()
	fmt.Fprintf(cmd.OutOrStdout(), "typecase %s at %.1fpt\n", sf.Fontname, typecase.PtSize())
	if sf.Filepath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "loaded from %s\n", sf.Filepath)
	}
	return nil
}
