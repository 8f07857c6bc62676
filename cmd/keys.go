package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/keys"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/util"
)

func init() {
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage clear keys stored in the system keyring",
	Long: `Manage clear keys stored in the system keyring.
Stored keys are passed to the engine with "mediabridge play --key-id <id>".`,
}

func init() {
	keysCmd.AddCommand(keysSetCmd)
}

var keysSetCmd = &cobra.Command{
	Use:   "set [key-id] [key]",
	Short: "Store the clear key of a key-id",
	Long: `Store the clear key of a key-id.
When the key is omitted it is asked for without echoing it.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var key string
		if len(args) == 2 {
			key = args[1]
		} else {
			prompt := survey.Password{
				Message: fmt.Sprintf("Key for %s:", strings.ToLower(args[0])),
			}
			handleErr(survey.AskOne(&prompt, &key, survey.WithValidator(survey.Required)))
		}

		handleErr(keys.Set(args[0], key))
		fmt.Printf("%s stored key %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(strings.ToLower(args[0])))
	},
}

func init() {
	keysCmd.AddCommand(keysGetCmd)
	keysGetCmd.SetOut(os.Stdout)
}

var keysGetCmd = &cobra.Command{
	Use:               "get [key-id]",
	Short:             "Print the clear key of a key-id",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionKeyIDs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := keys.Get(args[0])
		handleErr(err)
		cmd.Println(key)
	},
}

func init() {
	keysCmd.AddCommand(keysDeleteCmd)
}

var keysDeleteCmd = &cobra.Command{
	Use:               "delete [key-id]...",
	Aliases:           []string{"remove"},
	Short:             "Remove clear keys from the keyring",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionKeyIDs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			err := keys.Delete(id)
			if errors.Is(err, keys.ErrNotFound) {
				fmt.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), err)
				continue
			}
			handleErr(err)
			fmt.Printf("%s deleted key %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(id))
		}
	},
}

func init() {
	keysCmd.AddCommand(keysListCmd)
	keysListCmd.SetOut(os.Stdout)
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored key-ids",
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := keys.List()
		handleErr(err)

		if len(ids) == 0 {
			cmd.Println(style.Faint("no keys stored"))
			return
		}

		cmd.Println(style.Faint(util.Quantify(len(ids), "key", "keys")))
		lo.ForEach(ids, func(id string, _ int) {
			cmd.Printf("%s %s\n", icon.Get(icon.Key), id)
		})
	},
}
