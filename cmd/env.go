package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/config"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVar pairs an environment variable with the config key it overrides.
type envVar struct {
	name string
	key  string
}

// envVars lists the config path override followed by every config field, sorted by key.
func envVars() []envVar {
	keys := lo.Keys(config.Default)
	slices.Sort(keys)

	vars := []envVar{{name: where.EnvConfigPath}}
	for _, k := range keys {
		f := config.Default[k]
		vars = append(vars, envVar{name: f.Env(), key: k})
	}
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display every environment variable mediabridge reads, the config key it overrides and its current value.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		name := style.New().Bold(true).Foreground(color.Purple).Render

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(name(v.name), "=")
			if present {
				cmd.Print(style.Fg(color.Green)(value))
			} else {
				cmd.Print(style.Fg(color.Red)("unset"))
			}

			if v.key != "" {
				cmd.Print(" ", style.Faint("# "+v.key))
			}
			cmd.Println()
		}
	},
}
