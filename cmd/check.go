package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/style"
)

// checkEngine reports a missing player binary before an adapter is even created.
func checkEngine(p engine.Profile, binary string) error {
	if p.Engine() != engine.Mpv.Name {
		return nil
	}
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependency(binary)
		return fmt.Errorf("%s not found in PATH", binary)
	}
	return nil
}

func printMissingDependency(dep string) {
	var install string
	switch runtime.GOOS {
	case constant.Darwin:
		install = "brew install mpv"
	case constant.Linux:
		install = "sudo apt install mpv"
	case constant.Windows:
		install = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The player '%s' was not found in your PATH.", dep))

	suggestion := ""
	if install != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(install))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "\n", body, suggestion)))
}
