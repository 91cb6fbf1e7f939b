// Package app is the terminal player: a mini player bar that is always
// shown and a full player pane that can be toggled. Each pane renders
// its own replica of the session state.
package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/keymap"
	"github.com/llehouerou/musichub/internal/message"
	"github.com/llehouerou/musichub/internal/replica"
)

// scrubStepMs is how far one scrub key press moves the position.
const scrubStepMs = 5000

// Deps are the collaborators of the player model.
type Deps struct {
	Mini *replica.Replica
	Full *replica.Replica
	// Catalog resolves StartID. Optional when StartID is zero.
	Catalog catalog.Lookup
	StartID int64
	Logger  logrus.FieldLogger
}

// Model is the root player model.
type Model struct {
	mini    *replica.Replica
	full    *replica.Replica
	catalog catalog.Lookup
	startID int64
	log     logrus.FieldLogger

	keys     *keymap.Resolver
	help     help.Model
	helpKeys keymap.Help

	ShowFull bool
	ShowHelp bool
	Width    int
	Height   int

	Notice        string
	NoticeIsError bool
	noticeVersion int
}

// New creates the player model. Replicas are attached in Init.
func New(deps Deps) Model {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return Model{
		mini:     deps.Mini,
		full:     deps.Full,
		catalog:  deps.Catalog,
		startID:  deps.StartID,
		log:      log.WithField("component", "tui"),
		keys:     keymap.NewResolver(keymap.Bindings),
		help:     help.New(),
		helpKeys: keymap.NewHelp(),
		Width:    80,
	}
}

// Init implements tea.Model. It attaches the mini player and starts the
// requested track, if any.
func (m Model) Init() tea.Cmd {
	m.mini.Attach()
	return tea.Batch(
		waitState(m.mini),
		waitState(m.full),
		waitDownload(m.mini),
		waitDownload(m.full),
		m.play(m.startID),
	)
}

// active is the replica that receives commands: the full pane when it is
// shown, the mini player otherwise.
func (m Model) active() *replica.Replica {
	if m.ShowFull {
		return m.full
	}
	return m.mini
}

func (m Model) play(id int64) tea.Cmd {
	if id <= 0 || m.catalog == nil {
		return nil
	}
	t, ok := m.catalog.ByID(id)
	if !ok {
		m.log.WithField("track_id", id).Error("start track not in catalog")
		return notice("track not found", true)
	}
	m.mini.Play(message.PlayArgs{
		SongID:   t.ID,
		MediaURI: t.MediaURI,
		Title:    t.Title,
		Artist:   t.ArtistLine(),
		ImageURI: t.ImageURI,
	})
	return nil
}

// Close detaches every attached replica.
func (m Model) Close() {
	for _, r := range []*replica.Replica{m.mini, m.full} {
		if r.Attached() {
			r.Detach()
		}
	}
}
