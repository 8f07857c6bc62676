package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/recent"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/util"
)

func init() {
	rootCmd.AddCommand(recentCmd)
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Manage remembered sources",
}

func init() {
	recentCmd.AddCommand(recentListCmd)
	recentListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	recentListCmd.Flags().IntP("limit", "n", 0, "Only list the first n sources")
	recentListCmd.SetOut(os.Stdout)
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered sources, most played first",
	Run: func(cmd *cobra.Command, args []string) {
		entries := recent.List()
		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("nothing remembered"))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s %s\n",
				icon.Get(icon.Play),
				e.Source,
				style.Faint(fmt.Sprintf("%s, %s, %s",
					e.Engine,
					util.Quantify(e.Plays, "play", "plays"),
					e.LastPlay.Format("2006-01-02 15:04"),
				)),
			)
		}
	},
}

func init() {
	recentCmd.AddCommand(recentForgetCmd)
}

var recentForgetCmd = &cobra.Command{
	Use:               "forget [source]...",
	Short:             "Forget remembered sources",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionRecent,
	Run: func(cmd *cobra.Command, args []string) {
		for _, source := range args {
			forgotten, err := recent.Forget(source)
			handleErr(err)

			if !forgotten {
				fmt.Printf("%s %s was not remembered\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), source)
				continue
			}
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), source)
		}
	},
}
