package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/where"
)

// location is a path mediabridge reads or writes, selectable by its own flag.
type location struct {
	flag     string
	short    string
	what     string
	resolve  func() string
	internal bool
}

var locations = []location{
	{"config", "c", "config file directory", where.Config, false},
	{"profiles", "p", "user engine profiles", where.Profiles, false},
	{"logs", "l", "log directory", where.Logs, false},
	{"recent", "r", "recently played sources", where.Recent, false},
	{"cache", "", "release check cache", where.Cache, true},
	{"temp", "", "engine IPC sockets", where.Temp, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.Flags().BoolP("all", "a", false, "Include internal locations")

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "Print only the "+l.what+" path")
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display the localized filesystem paths for application-specific resources",
	Long:  "Display where mediabridge keeps its config, profiles, logs and caches. Paths that do not exist yet are dimmed.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.resolve())
				return
			}
		}

		shown := locations
		if !lo.Must(cmd.Flags().GetBool("all")) {
			shown = lo.Reject(locations, func(l location, _ int) bool { return l.internal })
		}

		width := lo.Max(lo.Map(shown, func(l location, _ int) int { return len(l.flag) }))
		for _, l := range shown {
			path := l.resolve()
			if ok, _ := filesystem.API().Exists(path); !ok {
				path = style.Faint(path)
			}

			name := style.Fg(color.Yellow)("--" + l.flag + strings.Repeat(" ", width-len(l.flag)))
			cmd.Printf("%s  %s\n", name, path)
		}
	},
}
