package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/locate/resources"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/framedebug"
	"github.com/npillmayer/weft/input/html"
)

var renderCmd = &cobra.Command{
	Use:   "render <document.html>",
	Short: "lay out an HTML document and print the box tree",
	Args:  cobra.ExactArgs(1),
	RunE:  render,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Int("width", 1280, "viewport width in pixels")
	renderCmd.Flags().Int("height", 800, "viewport height in pixels")
	renderCmd.Flags().Duration("wait", 2*time.Second, "how long to wait for images and fonts")
	renderCmd.Flags().String("dot", "", "write a GraphViz rendering to this file")
	viper.BindPFlag("viewport.width", renderCmd.Flags().Lookup("width"))
	viper.BindPFlag("viewport.height", renderCmd.Flags().Lookup("height"))
}

func render(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	base, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	repaints := 0
	doc, err := html.Load(file, html.Options{
		Viewport: dimen.Point{
			X: dimen.Dimen(viper.GetInt("viewport.width")) * dimen.PX,
			Y: dimen.Dimen(viper.GetInt("viewport.height")) * dimen.PX,
		},
		BaseURL: "file://" + base,
		Fetcher: resources.NewNetFetcher(nil),
		Repaint: func(boxtree.BoxIndex) { repaints++ },
	})
	if err != nil {
		return err
	}
	defer doc.Close()
	waitForResources(doc, mustDuration(cmd, "wait"))
	fmt.Fprint(cmd.OutOrStdout(), framedebug.FormatTree(doc.Arena, doc.Root))
	tracer().Infof("%d boxes, %d repaint requests", doc.Arena.Len(), repaints)
	if dotfile, _ := cmd.Flags().GetString("dot"); dotfile != "" {
		out, err := os.Create(dotfile)
		if err != nil {
			return err
		}
		defer out.Close()
		framedebug.ToGraphViz(doc.Arena, doc.Root, out)
	}
	return nil
}

// waitForResources drains the reflow queue until no fetch is in flight
// or the deadline passes. Fetches which miss the deadline are abandoned.
func waitForResources(doc *html.Document, wait time.Duration) {
	deadline := time.Now().Add(wait)
	for doc.Flow.Pending() > 0 && time.Now().Before(deadline) {
		if doc.Flow.Process() == 0 {
			time.Sleep(20 * time.Millisecond)
		}
	}
	doc.Flow.Process()
}

func mustDuration(cmd *cobra.Command, flag string) time.Duration {
	d, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		panic(err)
	}
	return d
}
