package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/host"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/where"
)

func init() {
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"engines"},
	Short:   "Inspect built-in and user engine profiles",
}

// allProfiles returns the built-in profiles followed by the user ones.
func allProfiles() []engine.Profile {
	user, err := userProfiles()
	handleErr(err)
	return append(engine.Builtins(), user...)
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesListCmd.Flags().BoolP("runnable", "r", false, "Only list profiles with an engine binding")
	profilesListCmd.SetOut(os.Stdout)
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List engine profiles",
	Run: func(cmd *cobra.Command, args []string) {
		runnableOnly := lo.Must(cmd.Flags().GetBool("runnable"))
		bindings := host.DefaultBindings()

		for _, p := range allProfiles() {
			_, runnable := bindings[p.Engine()]
			if runnableOnly && !runnable {
				continue
			}

			mark := style.Fg(color.Green)(icon.Get(icon.Success))
			if !runnable {
				mark = style.Faint(icon.Get(icon.Stop))
			}

			line := fmt.Sprintf("%s %s", mark, style.New().Bold(true).Foreground(color.Purple).Render(p.Name))
			if p.Base != "" {
				line += style.Faint(" ← " + p.Base)
			}
			line += " " + style.Faint(p.DisplayLabel())
			cmd.Println(line)
		}
	},
}

func init() {
	profilesCmd.AddCommand(profilesShowCmd)
	profilesShowCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	profilesShowCmd.SetOut(os.Stdout)
}

var profilesShowCmd = &cobra.Command{
	Use:               "show [name]",
	Short:             "Show how a profile drives its engine",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionProfiles,
	Run: func(cmd *cobra.Command, args []string) {
		p := findProfile(args[0])

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(p))
			return
		}

		key := style.Fg(color.Purple)
		cmd.Println(style.Title(p.DisplayLabel()))
		cmd.Println()
		cmd.Printf("%s %s\n", key("Engine"), p.Engine())
		cmd.Printf("%s %s\n", key("Load"), p.Load)
		cmd.Printf("%s %s\n", key("Ready on"), p.Events.Ready)
		cmd.Printf("%s %v\n", key("Ended on"), p.Events.Ended)
		if p.Events.Error != "" {
			cmd.Printf("%s %s\n", key("Errors on"), p.Events.Error)
		}
		cmd.Printf("%s %v\n", key("Stop primitive"), p.CanStop)
		cmd.Printf("%s %v\n", key("Accelerated start"), p.AcceleratedStart)
		cmd.Printf("%s %v\n", key("Stall detection"), p.StallDetection)
		if p.ReadyTimeout > 0 {
			cmd.Printf("%s %s\n", key("Ready timeout"), p.ReadyTimeout)
		}
		if p.SeekDelay > 0 {
			cmd.Printf("%s %s\n", key("Seek delay"), p.SeekDelay)
		}
		cmd.Printf("%s %d\n", key("Error codes"), len(p.Errors.Codes()))
	},
}

func init() {
	profilesCmd.AddCommand(profilesInitCmd)
	profilesInitCmd.Flags().BoolP("force", "f", false, "Overwrite the existing profiles file")
}

var profilesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample profiles file",
	Run: func(cmd *cobra.Command, args []string) {
		fs := filesystem.API()
		path := where.Profiles()

		exists, err := afero.Exists(fs, path)
		handleErr(err)
		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to overwrite it", path))
		}

		handleErr(afero.WriteFile(fs, path, []byte(constant.ProfilesTemplate), os.ModePerm))
		fmt.Printf("%s wrote profiles to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	profilesCmd.AddCommand(profilesPathCmd)
	profilesPathCmd.SetOut(os.Stdout)
}

var profilesPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the profiles file",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(where.Profiles())
	},
}

func completionProfiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	user, err := userProfiles()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := lo.Map(append(engine.Builtins(), user...), func(p engine.Profile, _ int) string {
		return p.Name
	})
	return names, cobra.ShellCompDirectiveNoFileComp
}
