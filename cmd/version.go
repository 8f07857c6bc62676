package cmd

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

// buildInfo is what "mediabridge version" reports.
type buildInfo struct {
	App      string
	Version  string
	Revision string
	BuiltAt  string
	BuiltBy  string
	Platform string
	Engines  []string
	Mpv      string
}

func currentBuild() buildInfo {
	mpv, err := exec.LookPath("mpv")
	if err != nil {
		mpv = ""
	}

	return buildInfo{
		App:      constant.Mediabridge,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Engines: lo.Map(engine.Builtins(), func(p engine.Profile, _ int) string {
			return p.Name
		}),
		Mpv: mpv,
	}
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"red":     style.Fg(color.Red),
	"join":    strings.Join,
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }} {{ bold .Version }}

  {{ faint "Commit" }}     {{ .Revision }}
  {{ faint "Built" }}      {{ .BuiltAt }} by {{ .BuiltBy }}
  {{ faint "Platform" }}   {{ .Platform }}
  {{ faint "Engines" }}    {{ join .Engines ", " }}
  {{ faint "mpv" }}        {{ if .Mpv }}{{ .Mpv }}{{ else }}{{ red "not found" }}{{ end }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display exhaustive version and build metadata",
	Long:  "Display the application version, build metadata, the built-in engines and whether an mpv binary is available.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()
		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), currentBuild()))
	},
}
