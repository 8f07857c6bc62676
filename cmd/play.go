package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/config"
	"github.com/tvxlabs/mediabridge/control"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/eventloop"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/host"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/keys"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/media"
	"github.com/tvxlabs/mediabridge/metrics"
	"github.com/tvxlabs/mediabridge/recent"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/util"
	"github.com/tvxlabs/mediabridge/where"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("recent", "r", "", "Play the remembered source best matching the query")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("recent", completionRecent))

	playCmd.Flags().StringSliceP("key-id", "k", nil, "Clear key-ids to load from the keyring")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("key-id", completionKeyIDs))

	playCmd.Flags().String("mount", "", "Mount point the engine is attached to")
	lo.Must0(viper.BindPFlag(key.PlayerMount, playCmd.Flags().Lookup("mount")))

	playCmd.Flags().Bool("control", false, "Serve the HTTP control surface while playing")
	lo.Must0(viper.BindPFlag(key.ControlEnable, playCmd.Flags().Lookup("control")))

	playCmd.Flags().String("addr", "", "Listen address of the control surface")
	lo.Must0(viper.BindPFlag(key.ControlAddr, playCmd.Flags().Lookup("addr")))

	playCmd.Flags().Duration("timeout", 0, "Readiness timeout, overrides "+key.AdapterReadyTimeout)

	playCmd.Flags().BoolP("quiet", "q", false, "Do not print the status line")
}

var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Play a source through an engine profile",
	Long: `Play a source through an engine profile.
The engine is taken from --engine or the player.engine setting and may be a built-in
profile or one of the profiles defined in the profiles file.`,
	Example: "  mediabridge play https://example.com/stream.m3u8\n" +
		"  mediabridge play -e mpv-idle ./movie.mkv\n" +
		"  mediabridge play --recent movie --control",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := resolveSource(cmd, args)
		handleErr(err)

		registry, err := loadRegistry()
		handleErr(err)

		entry, err := registry.Lookup(viper.GetString(key.PlayerEngine))
		handleErr(err)
		handleErr(checkEngine(entry.Profile, "mpv"))

		cfg := config.Engine()
		ids := lo.Must(cmd.Flags().GetStringSlice("key-id"))
		if len(ids) > 0 {
			cfg.ClearKeys, err = keys.Lookup(ids...)
			handleErr(err)
		}

		timeout := config.ReadyTimeout()
		if cmd.Flags().Changed("timeout") {
			timeout = lo.Must(cmd.Flags().GetDuration("timeout"))
		}

		opts := []adapter.Option{
			adapter.WithConfig(cfg),
			adapter.WithMount(viper.GetString(key.PlayerMount)),
			adapter.WithReadyTimeout(timeout),
		}
		if accelerated, ok := config.AcceleratedStart().Get(); ok {
			opts = append(opts, adapter.WithAcceleratedStart(accelerated))
		}

		handleErr(play(playback{
			entry:   entry,
			source:  source,
			options: opts,
			quiet:   lo.Must(cmd.Flags().GetBool("quiet")) || !util.IsTerminal(),
			serve:   viper.GetBool(key.ControlEnable),
			address: viper.GetString(key.ControlAddr),
		}))
	},
}

type playback struct {
	entry   host.Entry
	source  string
	options []adapter.Option
	quiet   bool
	serve   bool
	address string
}

// play runs one source to its end. Everything touching the adapter goes through the
// binding so it runs on the loop.
func play(p playback) error {
	name := p.entry.Profile.Name
	logger := log.With("engine", name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := eventloop.New()
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go func() {
		_ = loop.Run(loopCtx)
	}()

	binding := host.NewBinding(loop)
	session := host.NewSession(binding, name, host.WithPersistence(true))
	m := metrics.New()

	options := append(p.options, adapter.WithObserver(adapter.Observers(session, m)))
	player := adapter.New(p.entry.Profile, p.entry.Factory, session, loop, options...)
	if err := binding.SetupPlayer(player); err != nil {
		return err
	}

	fmt.Printf("%s %s %s\n", icon.Get(icon.Loading), style.Faint("loading"), p.source)
	logger.Info("playing ", p.source)

	if err := binding.Do(ctx, func(pl adapter.Player) {
		pl.Init()
		pl.Ready(p.source)
	}); err != nil {
		return err
	}

	if err := recent.Remember(p.source, name, time.Now()); err != nil {
		logger.Warn(fmt.Sprintf("remember %s: %s", p.source, err))
	}

	if p.serve {
		server := control.New(binding,
			control.WithStatus(session),
			control.WithVolumeStore(session),
			control.WithMetrics(m),
		)
		go func() {
			if err := server.ListenAndServe(ctx, p.address); err != nil {
				session.Warn(fmt.Sprintf("control surface: %s", err))
			}
		}()
		fmt.Printf("%s control surface on http://%s\n", icon.Get(icon.Key), p.address)
	}

	poll(ctx, binding, session, p.quiet)

	dispose, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := binding.Do(dispose, func(pl adapter.Player) { pl.Dispose() }); err != nil {
		logger.Warn("dispose: ", err)
	}

	if ctx.Err() != nil {
		fmt.Printf("%s %s\n", icon.Get(icon.Stop), "interrupted")
		return nil
	}
	if err := session.Err(); err != nil {
		return err
	}

	fmt.Printf("%s %s\n", icon.Get(icon.Success), "playback ended")
	return nil
}

// poll feeds the session with snapshots until playback is over or ctx ends.
func poll(ctx context.Context, binding *host.Binding, session *host.Session, quiet bool) {
	ticker := time.NewTicker(config.PollInterval())
	defer ticker.Stop()

	erase := func() {}
	defer func() { erase() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-session.Done():
			return
		case <-ticker.C:
		}

		var snapshot media.Snapshot
		if err := binding.Do(ctx, func(pl adapter.Player) { snapshot = pl.UpdateData() }); err != nil {
			continue
		}
		session.Observe(snapshot)

		if !quiet {
			erase()
			erase = util.PrintErasable(statusLine(session.Status()))
		}
	}
}

func statusLine(s host.Status) string {
	state := s.State.String()

	line := fmt.Sprintf("%s %s %s / %s",
		icon.Get(icon.ForState(state)),
		style.State(s.State),
		util.Clock(s.Position),
		util.Clock(s.Duration),
	)
	if s.Loading {
		line += " " + style.Faint("buffering")
	}
	if s.Size.Width > 0 {
		line += " " + style.Faint(fmt.Sprintf("%dx%d", s.Size.Width, s.Size.Height))
	}

	return truncate.StringWithTail(line, uint(util.TerminalWidth(80)-1), "…")
}

func resolveSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	var found recent.Entry

	query := lo.Must(cmd.Flags().GetString("recent"))
	switch {
	case query != "":
		entry, ok := recent.Recall(query).Get()
		if !ok {
			return "", fmt.Errorf("nothing remembered matches %q", query)
		}
		found = entry
	case util.IsTerminal() && len(recent.List()) > 0:
		entry, err := pickRecent()
		if err != nil {
			return "", err
		}
		found = entry
	default:
		return "", errors.New("source is required as an argument or --recent query")
	}

	if !cmd.Flags().Changed("engine") && found.Engine != "" {
		viper.Set(key.PlayerEngine, found.Engine)
	}
	return found.Source, nil
}

// pickRecent asks which remembered source to play.
func pickRecent() (recent.Entry, error) {
	entries := recent.List()

	var index int
	prompt := survey.Select{
		Message: "Play again:",
		Options: lo.Map(entries, func(e recent.Entry, _ int) string { return e.Source }),
		Description: func(_ string, i int) string {
			return fmt.Sprintf("%s, %s", entries[i].Engine, util.Quantify(entries[i].Plays, "play", "plays"))
		},
	}
	if err := survey.AskOne(&prompt, &index); err != nil {
		return recent.Entry{}, err
	}
	return entries[index], nil
}

// loadRegistry registers the runnable built-in engines and the user profiles file.
func loadRegistry() (*host.Registry, error) {
	user, err := userProfiles()
	if err != nil {
		return nil, err
	}
	return host.DefaultRegistry(host.DefaultBindings(), user)
}

func userProfiles() ([]engine.Profile, error) {
	fs := filesystem.API()
	path := where.Profiles()

	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return nil, err
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(file.Close)

	profiles, err := engine.LoadProfiles(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}
