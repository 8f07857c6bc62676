package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/host"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/util"
)

func init() {
	rootCmd.AddCommand(errorsCmd)
	errorsCmd.Flags().StringP("search", "s", "", "Only list codes fuzzily matching the query")
	errorsCmd.SetOut(os.Stdout)
}

var errorsCmd = &cobra.Command{
	Use:               "errors [profile]",
	Short:             "List the error categories and codes an engine reports",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionProfiles,
	Run: func(cmd *cobra.Command, args []string) {
		p := findProfile(args[0])
		if p.Errors == nil {
			cmd.Printf("%s has no error table\n", p.DisplayLabel())
			return
		}

		width := util.TerminalWidth(80)
		heading := style.New().Bold(true).Foreground(color.HiPurple).Render

		categories := p.Errors.Categories()
		cmd.Println(heading("Categories"))
		cmd.Println(wordwrap.String(strings.Join(lo.Map(categories, func(name string, _ int) string {
			value, _ := p.Errors.CategoryValue(name)
			return fmt.Sprintf("%s=%d", name, value)
		}), "  "), width))
		cmd.Println()

		codes := p.Errors.Codes()
		if query := lo.Must(cmd.Flags().GetString("search")); query != "" {
			codes = p.Errors.Search(query)
		}

		cmd.Println(heading(fmt.Sprintf("Codes (%s)", util.Quantify(len(codes), "code", "codes"))))
		for _, name := range codes {
			value, _ := p.Errors.CodeValue(name)
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(strconv.Itoa(value)), name)
		}
	},
}

func init() {
	errorsCmd.AddCommand(errorsTranslateCmd)
	errorsTranslateCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	errorsTranslateCmd.SetOut(os.Stdout)
}

var errorsTranslateCmd = &cobra.Command{
	Use:   "translate [profile] [payload]",
	Short: "Translate a native error payload",
	Long: `Translate a native error payload the way the adapter reports it.
The payload is either a numeric code or a JSON object such as {"category": 1, "code": 1002}.`,
	Example:           `  mediabridge errors translate shaka '{"category": 1, "code": 1002}'`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionProfiles,
	Run: func(cmd *cobra.Command, args []string) {
		p := findProfile(args[0])
		info := p.Errors.Translate(parsePayload(args[1]))

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		line := fmt.Sprintf("%s error: %s", p.DisplayLabel(), info)
		if info.Known() {
			cmd.Println(line)
		} else {
			cmd.Println(style.Fg(color.Yellow)(line))
		}
		if msg, ok := info.Message.Get(); ok {
			cmd.Println(style.Faint(wordwrap.String(msg, util.TerminalWidth(80))))
		}
	},
}

func findProfile(name string) engine.Profile {
	p, ok := lo.Find(allProfiles(), func(p engine.Profile) bool {
		return p.Name == name
	})
	if !ok {
		handleErr(fmt.Errorf("%w: %s", host.ErrUnknownEngine, name))
	}
	return p
}

// parsePayload reads a number, a JSON value, or falls back to the raw text as an error message.
func parsePayload(raw string) any {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded
	}
	return fmt.Errorf("%s", raw)
}
