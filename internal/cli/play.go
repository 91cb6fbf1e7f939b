package cli

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/app"
	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/config"
	"github.com/llehouerou/musichub/internal/download"
	"github.com/llehouerou/musichub/internal/downloads"
	"github.com/llehouerou/musichub/internal/engine"
	"github.com/llehouerou/musichub/internal/errmsg"
	"github.com/llehouerou/musichub/internal/favorites"
	"github.com/llehouerou/musichub/internal/icons"
	"github.com/llehouerou/musichub/internal/message"
	"github.com/llehouerou/musichub/internal/mpris"
	"github.com/llehouerou/musichub/internal/notify"
	"github.com/llehouerou/musichub/internal/replica"
	"github.com/llehouerou/musichub/internal/session"
	"github.com/llehouerou/musichub/internal/stderr"
)

const flagRandom = "random"

var errEmptyCatalog = errors.New("catalog is empty, run `musichub import` first")

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP(flagRandom, "r", false, "Start with a random track")
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}

var playCmd = &cobra.Command{
	Use:   "play [track-id]",
	Short: "Open the player, optionally starting a track",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, cmd, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	startID, err := startTrack(e.catalog, args, lo.Must(cmd.Flags().GetBool(flagRandom)))
	if err != nil {
		return err
	}

	capture, err := stderr.Start(e.log)
	if err != nil {
		e.log.WithError(err).Warn("stderr capture unavailable")
	} else {
		defer capture.Stop()
	}

	icons.Init(e.cfg.GetUIConfig().Icons)
	p := newPlayer(e)
	defer p.Close()

	if n, err := p.downloads.Resume(ctx); err != nil {
		e.log.WithError(err).Warn(errmsg.Format(errmsg.OpDownloadResume, err))
	} else if n > 0 {
		e.log.WithField("jobs", n).Debug("downloads resumed")
	}

	m := app.New(app.Deps{
		Mini:    p.mini,
		Full:    p.full,
		Catalog: e.catalog,
		StartID: startID,
		Logger:  e.log,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}

// startTrack picks the first track to play: the one named on the command
// line, a random one, or 0 to open the player idle.
func startTrack(c catalog.Lookup, args []string, random bool) (int64, error) {
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid track id %q", args[0])
		}
		if _, ok := c.ByID(id); !ok {
			return 0, fmt.Errorf("track %d not found", id)
		}
		return id, nil
	}
	if random {
		t, ok := c.Random()
		if !ok {
			return 0, errEmptyCatalog
		}
		return t.ID, nil
	}
	return 0, nil
}

// player is the running playback stack behind the terminal UI.
type player struct {
	log       logrus.FieldLogger
	bus       *bus.Channel[message.Message]
	downloads *download.Workflow
	host      *session.Host
	mini      *replica.Replica
	full      *replica.Replica

	notify *notify.Surface
	mpris  *mpris.Adapter
}

func newPlayer(e *env) *player {
	p := &player{log: e.log, bus: bus.New[message.Message]()}

	dl := e.cfg.GetDownloadConfig()
	p.downloads = download.New(download.Config{
		Directory:      dl.Directory,
		Workers:        dl.Workers,
		MaxAttempts:    dl.MaxAttempts,
		InitialBackoff: dl.InitialBackoff(),
		MaxBackoff:     dl.MaxBackoff(),
		RequireNetwork: dl.NetworkRequired(),
	}, download.Deps{
		Catalog: e.catalog,
		Jobs:    downloads.New(e.db),
		Bus:     p.bus,
		Counter: e.catalog,
		Logger:  e.log,
	})

	favs := favorites.NewStore(e.db, e.catalog, e.log)
	pb := e.cfg.GetPlaybackConfig()
	p.host = session.NewHost(session.Deps{
		Engine:    engine.NewBeep(engine.WithLogger(e.log)),
		Catalog:   e.catalog,
		Bus:       p.bus,
		Favorites: favs,
		Listens:   e.catalog,
		Downloads: p.downloads,
		Logger:    e.log,
	}, session.WithPollInterval(pb.PollInterval()), session.WithLoadTimeout(pb.LoadTimeout()))

	p.attachSurfaces(e.cfg)

	p.mini = replica.New("mini", p.bus, p.host, favs, e.log)
	p.full = replica.New("full", p.bus, p.host, favs, e.log)
	return p
}

func (p *player) attachSurfaces(cfg *config.Config) {
	if cfg.NotifyEnabled() {
		n, err := notify.New()
		if err != nil {
			p.log.WithError(err).Warn(errmsg.Format(errmsg.OpNotifyConnect, err))
		} else {
			p.notify = notify.NewSurface(n, p.host, p.log)
			p.host.AddSurface(p.notify)
		}
	}
	if cfg.MPRISEnabled() {
		a, err := mpris.New(p.host, p.log)
		if err != nil {
			p.log.WithError(err).Warn(errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			p.mpris = a
			p.host.AddSurface(a)
		}
	}
}

// Close ends the session before its surfaces, then stops the downloads.
// Unfinished jobs resume on the next start.
func (p *player) Close() {
	p.host.Close()
	if p.notify != nil {
		p.notify.Close()
	}
	if p.mpris != nil {
		if err := p.mpris.Close(); err != nil {
			p.log.WithError(err).Debug("stopping mpris")
		}
	}
	p.downloads.Close()
	p.bus.Close()
}
