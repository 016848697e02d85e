// This file is part of sectionmap (https://github.com/spezifisch/sectionmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spezifisch/sectionmap/pkg/content"
	"github.com/spezifisch/sectionmap/pkg/docsource"
	"github.com/spezifisch/sectionmap/pkg/export"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
	"github.com/spezifisch/sectionmap/pkg/userloc"
	"github.com/spezifisch/sectionmap/pkg/viewer"
)

var pageKeys = map[string]string{
	"next":  "PageDown",
	"prev":  "PageUp",
	"first": "Home",
	"last":  "End",
}

// envDefaults fills flags the user did not set from the environment.
func envDefaults(cmd *cobra.Command) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not read .env")
	}
	for flag, env := range map[string]string{
		"url":  "SECTIONMAP_URL",
		"base": "SECTIONMAP_BASE",
		"type": "SECTIONMAP_TYPE",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil || f.Changed {
			continue
		}
		if v, ok := os.LookupEnv(env); ok {
			if err := f.Value.Set(v); err != nil {
				log.WithError(err).WithField("env", env).Warn("ignoring environment value")
			}
		}
	}

	level := log.InfoLevel
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if l, err := log.ParseLevel(v); err == nil {
			level = l
		} else {
			log.WithError(err).Warn("ignoring LOG_LEVEL")
		}
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// loadTree fetches and parses the document named by the flags. A document
// without sections still yields a tree.
func loadTree(ctx context.Context, cmd *cobra.Command, s surface.Surface) (tree *content.Tree, err error) {
	tStart := time.Now()
	base, _ := cmd.Flags().GetString("base")
	name, _ := cmd.Flags().GetString("url")
	if name == "" {
		return nil, errors.New("no document given, use --url or SECTIONMAP_URL")
	}

	src, err := docsource.New(base, name)
	if err != nil {
		return
	}
	output := make(chan docsource.Result)
	go src.Run(ctx, output)

	var res docsource.Result
	select {
	case res = <-output:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	timeTrack(tStart, "document load")

	tree, err = content.Parse(res.Doc, s)
	if errors.Is(err, content.ErrNoSections) {
		log.WithField("location", src.Location()).Warn(err)
		err = nil
	}
	return
}

func writeOutput(cmd *cobra.Command, name string, c *surface.Canvas) (err error) {
	var w io.Writer = os.Stdout
	if out, _ := cmd.Flags().GetString("output"); out != "" && out != "-" {
		var f *os.File
		if f, err = os.Create(out); err != nil {
			return
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "kml":
		return export.KML(w, name, c)
	case "geojson":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(export.GeoJSON(c))
	}
	return fmt.Errorf("unknown output format %q", format)
}

var rootCmd = &cobra.Command{
	Use:   "sectionmap",
	Short: "Render sections of a content document onto a map",
	Long: `Load a content document of sections, subsections and locations, navigate it
like the map viewer does and export what ends up on the map as KML or GeoJSON.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envDefaults(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		tStart := time.Now()
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		opts := viewer.Options{Status: func(msg string) { log.Warn(msg) }}
		opts.URL, _ = cmd.Flags().GetString("url")
		opts.Show, _ = cmd.Flags().GetString("show")
		opts.ShowMaps, _ = cmd.Flags().GetBool("showmaps")
		opts.Draw, _ = cmd.Flags().GetBool("draw")
		you, _ := cmd.Flags().GetString("you")
		opts.You = you != ""
		if t, _ := cmd.Flags().GetString("type"); t != "" {
			mt, ok := surface.ParseMapType(t)
			if !ok {
				return fmt.Errorf("unknown map type %q", t)
			}
			opts.MapType = mt
		}

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		c := surface.NewCanvas(width, height)
		d := keys.New()
		v := viewer.New(c, d, opts)
		defer v.Close()

		tree, err := loadTree(ctx, cmd, c)
		if err != nil {
			return
		}
		v.Load(tree)
		c.MarkReady()

		if you != "" {
			pos, perr := userloc.ParsePosition(you)
			if perr != nil {
				v.You().Failure(2, perr.Error())
			} else {
				v.You().Success(pos)
				ind := v.You().Indicator()
				if ind.Visible {
					log.WithFields(log.Fields{
						"corner":  ind.Vertical + "-" + ind.Horizontal,
						"bearing": ind.Bearing,
					}).Info("you are " + ind.Text + " away")
				}
			}
		}

		pages, _ := cmd.Flags().GetStringArray("page")
		for _, p := range pages {
			key, ok := pageKeys[strings.ToLower(p)]
			if !ok {
				return fmt.Errorf("unknown page move %q", p)
			}
			if !d.Press(key) {
				log.WithField("page", p).Warn("paging is not available in this mode")
			}
		}

		if script, _ := cmd.Flags().GetString("draw-script"); script != "" {
			if v.Editor() == nil {
				return errors.New("--draw-script needs --draw")
			}
			var f *os.File
			if f, err = os.Open(script); err != nil {
				return
			}
			steps, perr := parseScript(f)
			f.Close()
			if perr != nil {
				return fmt.Errorf("%s: %w", script, perr)
			}
			play(steps, c, d)
			log.WithField("lines", len(v.Editor().Lines())).Info("draw script played")
		}

		current, _ := v.Current()
		log.WithFields(log.Fields{
			"mode":     v.Mode(),
			"selector": current,
			"map":      v.Camera().Map,
		}).Info("final view")

		name := tree.Info.Name
		if current != "" {
			name += " " + current
		}
		err = writeOutput(cmd, strings.TrimSpace(name), c)
		timeTrack(tStart, "sectionmap")
		return
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <selector>",
	Short: "Print the sections and subsections a selector picks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(cmd.Context(), cmd, surface.NewCanvas(0, 0))
		if err != nil {
			return err
		}
		sel := tree.Resolve(args[0])
		if sel.Empty() {
			log.WithField("selector", args[0]).Warn("nothing selected")
		}
		for _, ss := range sel {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ss.Section, strings.Join(ss.Subsections, ", "))
		}
		return nil
	},
}

// from: https://coderwall.com/p/cp5fya/measuring-execution-time-in-go
func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	log.Printf("> %s took %s", name, elapsed)
}

func main() {
	rootCmd.PersistentFlags().StringP("url", "u", "", "content document name, path or http(s) URL")
	rootCmd.PersistentFlags().String("base", ".", "directory or http(s) URL that document names are relative to")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.Flags().String("show", "", "selector to show instead of the first page, e.g. \"Acts 9:2-10:1\"")
	rootCmd.Flags().Bool("showmaps", false, "draw the outline overview of all maps and locations")
	rootCmd.Flags().Bool("draw", false, "start the line editor")
	rootCmd.Flags().String("you", "", "viewer position as lat,lng")
	rootCmd.Flags().String("type", "", "base map type: terrain, satellite or roadmap")
	rootCmd.Flags().StringP("format", "f", "geojson", "output format: kml or geojson")
	rootCmd.Flags().StringP("output", "o", "-", "output file, - for stdout")
	rootCmd.Flags().StringArray("page", []string{}, "page move: next, prev, first or last (repeatable)")
	rootCmd.Flags().String("draw-script", "", "file of editor steps: \"click <lat> <lng>\" or \"key <name>\" per line")
	rootCmd.Flags().Int("width", 1024, "map width in pixels")
	rootCmd.Flags().Int("height", 768, "map height in pixels")

	rootCmd.AddCommand(resolveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
