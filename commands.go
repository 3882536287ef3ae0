package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/assets"
	cfg "github.com/automoto/racetrainer/config"
	"github.com/automoto/racetrainer/input"
	"github.com/automoto/racetrainer/network"
	"github.com/automoto/racetrainer/report"
	"github.com/automoto/racetrainer/scenes"
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/automoto/racetrainer/shared/protocol"
	"github.com/automoto/racetrainer/sim"
	"github.com/automoto/racetrainer/spectate"
	"github.com/automoto/racetrainer/store"
	"github.com/automoto/racetrainer/systems"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var noRecords bool

	root := &cobra.Command{
		Use:           "racetrainer",
		Short:         "Checkpoint-order racing agents: train, drive and report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noRecords {
				return
			}
			// Records are optional; a warning has already been logged.
			_ = systems.InitPersistence()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Track.Dir, "tracks-dir", cfg.Track.Dir, "directory containing a tracks/ folder of .tmx files (empty = built-in)")
	pf.StringVar(&cfg.Track.Name, "track", cfg.Track.Name, "track name")
	pf.StringVar(&cfg.Store.Kind, "store", cfg.Store.Kind, "episode store backend: memory or sqlite")
	pf.StringVar(&cfg.Store.Path, "db", cfg.Store.Path, "sqlite database path")
	pf.BoolVar(&cfg.Debug.LogRewards, "log-rewards", cfg.Debug.LogRewards, "log every checkpoint reward")
	pf.BoolVar(&noRecords, "no-records", false, "do not read or update personal bests")

	root.AddCommand(newTrainCmd(), newDriveCmd(), newWatchCmd(), newReportCmd(), newTracksCmd())
	return root
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&cfg.Sim.Drivers, "drivers", cfg.Sim.Drivers, "number of drivers sharing the track")
	f.Int64Var(&cfg.Sim.Seed, "seed", cfg.Sim.Seed, "random seed")
	f.IntVar(&cfg.Sim.TickRate, "tickrate", cfg.Sim.TickRate, "simulation ticks per simulated second")
	f.IntVar(&cfg.Episode.MaxSteps, "max-steps", cfg.Episode.MaxSteps, "steps per episode (0 = unlimited)")
	f.BoolVar(&cfg.Episode.EndOnOutOfBounds, "end-out-of-bounds", cfg.Episode.EndOnOutOfBounds, "end an episode when a driver leaves the map")
	f.StringVar(&cfg.Episode.Behavior, "behavior", cfg.Episode.Behavior, "behavior type: default, heuristic or inference")
}

func newTrainCmd() *cobra.Command {
	var episodes int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run headless episodes and store their results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTrain(ctx, episodes)
		},
	}
	addSimFlags(cmd)
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 100, "episodes to finish before stopping")
	cmd.Flags().StringVar(&cfg.Sim.Policy, "policy", cfg.Sim.Policy, "action policy: random, seek or constant")
	cmd.Flags().UintVar(&cfg.Spectate.Port, "spectate", cfg.Spectate.Port, "serve spectators on this port and run in real time (0 = off)")
	return cmd
}

// session is a sim plus the store receiving its episodes.
type session struct {
	sim      *sim.Sim
	store    store.Store
	track    string
	finished []episode.Summary
}

func openSession(ctx context.Context, keys agent.KeyState) (*session, error) {
	data, err := assets.LoadTrack(cfg.Track.Dir, cfg.Track.Name)
	if err != nil {
		return nil, err
	}

	opts, err := sim.OptionsFromConfig()
	if err != nil {
		return nil, err
	}
	opts.Keys = keys

	s, err := sim.New(data, opts)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.SaveRun(ctx, s.RunInfo()); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("save run: %w", err)
	}

	return &session{sim: s, store: st, track: data.Name}, nil
}

// save stores finished episodes. It uses a background context so the
// final batch survives a cancelled run.
func (s *session) save(done []episode.Summary) error {
	s.finished = append(s.finished, done...)
	return s.store.SaveEpisodes(context.Background(), done)
}

func (s *session) close() {
	systems.RecordPersonalBest(s.track, s.finished)
	if err := s.store.Close(); err != nil {
		log.Printf("[store] close: %v", err)
	}
	log.Printf("[sim] run %s: %d episodes stored", s.sim.RunInfo().ID, len(s.finished))
}

func runTrain(ctx context.Context, episodes int) error {
	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	if cfg.Spectate.Port == 0 {
		// Run flushes the running episodes as shutdown on interrupt.
		err := sess.sim.Run(ctx, episodes, sess.save)
		if errors.Is(err, context.Canceled) {
			log.Println("[sim] interrupted")
			return nil
		}
		return err
	}
	return runSpectated(ctx, sess, episodes)
}

func runSpectated(ctx context.Context, sess *session, episodes int) error {
	if err := protocol.RegisterComponents(); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	var loop *sim.GameLoop
	loop = sim.NewGameLoop(sess.sim, cfg.Sim.TickRate, sim.LimitSink(episodes, sess.save, func() {
		loop.Stop()
	}))

	server := spectate.NewServer()
	loop.AddPublisher(server)
	go func() {
		if err := server.Start(cfg.Spectate.Port); err != nil {
			loop.Fail(fmt.Errorf("spectate server on port %d: %w", cfg.Spectate.Port, err))
		}
	}()

	go func() {
		<-ctx.Done()
		loop.Stop()
	}()
	return loop.Run()
}

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Drive the track yourself with the keyboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Episode.Behavior = agent.BehaviorHeuristicOnly.String()
			return runDrive(cmd.Context())
		},
	}
	addSimFlags(cmd)
	return cmd
}

func runDrive(ctx context.Context) error {
	sess, err := openSession(ctx, input.NewKeyboard(nil))
	if err != nil {
		return err
	}
	defer sess.close()

	scene := scenes.NewDriveScene(sess.sim, cfg.View.Width, cfg.View.Height, func(done []episode.Summary) {
		if err := sess.save(done); err != nil {
			log.Printf("[store] save episodes: %v", err)
		}
	})

	ebiten.SetWindowSize(cfg.View.Width, cfg.View.Height)
	ebiten.SetWindowTitle("racetrainer - " + cfg.Track.Name)
	ebiten.SetTPS(cfg.Sim.TickRate)

	if err := ebiten.RunGame(scene); err != nil && !errors.Is(err, scenes.ErrQuit) {
		return err
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	var addr string
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the live state of a spectated training run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, addr, every)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:7474", "spectate server address")
	cmd.Flags().DurationVar(&every, "every", time.Second, "print interval")
	return cmd
}

func runWatch(ctx context.Context, addr string, every time.Duration) error {
	if err := protocol.RegisterComponents(); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	client := network.NewClient()
	client.Connect(addr)
	defer client.Disconnect()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if client.State() == network.StateError {
			return client.LastError()
		}
		snap := client.LatestSnapshot()
		if snap == nil {
			continue
		}
		view := network.Decode(*snap)
		if view.HasSession {
			fmt.Printf("%s  tick %d  t %.1fs  finished %d\n",
				view.Session.Track, view.Session.Tick, view.Session.Time, view.Session.FinishedEpisodes)
		}
		for _, d := range view.Drivers {
			fmt.Printf("  driver %d  ep %d  next %d/%d  speed %.1f  return %.1f\n",
				d.Slot, d.Episode, d.NextCheckpoint, view.Session.TotalCheckpoints, d.Speed, d.Return)
		}
	}
}

func newReportCmd() *cobra.Command {
	var runID, pngPath, htmlPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a stored run and chart its rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), runID, pngPath, htmlPath)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run ID (empty = latest)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write a reward curve image to this path")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an interactive reward chart to this path")
	return cmd
}

func runReport(ctx context.Context, runID, pngPath, htmlPath string) error {
	st, err := store.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return err
	}
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var run episode.Run
	if runID == "" {
		run, err = store.Latest(ctx, st)
	} else {
		var id uuid.UUID
		if id, err = uuid.Parse(runID); err != nil {
			return fmt.Errorf("run id %q: %w", runID, err)
		}
		run, err = st.GetRun(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("find run: %w", err)
	}

	episodes, err := st.ListEpisodes(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("list episodes: %w", err)
	}

	if err := report.WriteText(os.Stdout, run, report.Summarize(episodes)); err != nil {
		return err
	}
	if best, err := systems.LoadPersonalBest(run.Track); err == nil && best != nil {
		fmt.Printf("personal best  lap %.2fs  return %.2f  over %d episodes\n",
			best.BestLapTime, best.BestReturn, best.Episodes)
	}

	if pngPath != "" {
		if err := report.WritePNG(run, episodes, pngPath); err != nil {
			return err
		}
		log.Printf("[report] wrote %s", pngPath)
	}
	if htmlPath != "" {
		f, err := os.Create(htmlPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteHTML(f, run, episodes); err != nil {
			return err
		}
		log.Printf("[report] wrote %s", htmlPath)
	}
	return nil
}

func newTracksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List available tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, names, err := assets.LoadTracks(cfg.Track.Dir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHECKPOINTS\tACTIVE\tGUIDES\tWALLS\tSIZE")
			for _, name := range names {
				t := tracks[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%dx%d\n", name,
					len(t.Checkpoints), t.ActiveCheckpoints(), len(t.Guides), len(t.Walls),
					t.MapWidth, t.MapHeight)
			}
			return w.Flush()
		},
	}
}
