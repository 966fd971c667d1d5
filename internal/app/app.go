package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KKK12142/myskyapp/core"
	"github.com/KKK12142/myskyapp/ephem"
	"github.com/KKK12142/myskyapp/internal/sensor"
	"github.com/KKK12142/myskyapp/internal/ui"
	"github.com/KKK12142/myskyapp/model"
	"github.com/KKK12142/myskyapp/search"
	"github.com/KKK12142/myskyapp/timectrl"
)

const (
	frameInterval = 100 * time.Millisecond
	timeStep      = 10 * time.Minute
)

type mode int

const (
	modePointing mode = iota
	modeSearch
)

// shared holds state shared between the Bubble Tea model copies and main.
// Bubble Tea uses value receivers, so pointer fields keep all copies on the
// same underlying data.
type shared struct {
	fusion   *core.FusionEngine
	searcher *search.Engine
	ephem    *ephem.Service
	cursor   *timectrl.Cursor
	source   sensor.Source

	cancel context.CancelFunc
	unsub  func()
}

// Deps wires the pipeline into the UI.
type Deps struct {
	Fusion   *core.FusionEngine
	Searcher *search.Engine
	Ephem    *ephem.Service
	Cursor   *timectrl.Cursor
	Source   sensor.Source

	Observer   model.Observer
	Zones      core.Zones
	SourceName string
	StarCount  int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	width  int
	height int

	mode     mode
	query    string
	results  []model.CelestialObject
	selected int

	orientation *model.OrientationEstimate
	target      *model.CelestialObject

	observer   model.Observer
	zones      core.Zones
	sourceName string
	starCount  int

	shared *shared
}

// New creates the root model.
func New(d Deps) AppModel {
	return AppModel{
		zones:      d.Zones,
		observer:   d.Observer,
		sourceName: d.SourceName,
		starCount:  d.StarCount,
		selected:   -1,
		shared: &shared{
			fusion:   d.Fusion,
			searcher: d.Searcher,
			ephem:    d.Ephem,
			cursor:   d.Cursor,
			source:   d.Source,
		},
	}
}

// StartPipeline launches the sensor source and routes published orientation
// estimates into the program. Must be called before p.Run().
func (m *AppModel) StartPipeline(p *tea.Program) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.shared.cancel = cancel

	if err := m.shared.source.Start(ctx); err != nil {
		cancel()
		return err
	}
	go m.shared.fusion.Run(ctx, m.shared.source.Samples())

	m.shared.unsub = m.shared.fusion.Subscribe(func(est model.OrientationEstimate) {
		p.Send(OrientationMsg(est))
	})
	return nil
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m, tickCmd()

	case OrientationMsg:
		est := model.OrientationEstimate(msg)
		m.orientation = &est
		return m, nil

	case SourceErrorMsg:
		m.teardown()
		return m, tea.Quit
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeSearch {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.teardown()
		return m, tea.Quit

	case "/":
		m.mode = modeSearch
		m.query = ""
		m.results = nil
		m.selected = -1

	case "x":
		m.target = nil

	case ",":
		m.shared.cursor.Shift(-timeStep)

	case ".":
		m.shared.cursor.Shift(timeStep)

	case "r":
		m.shared.cursor.Reset()
	}

	return m, nil
}

func (m AppModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modePointing
		return m, nil

	case tea.KeyCtrlC:
		m.teardown()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.selected >= 0 && m.selected < len(m.results) {
			target := m.results[m.selected]
			m.target = &target
			m.mode = modePointing
		}
		return m, nil

	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case tea.KeyDown:
		if m.selected < len(m.results)-1 {
			m.selected++
		}
		return m, nil

	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
		m.refreshResults()
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.query += " "
		}
		m.refreshResults()
		return m, nil
	}

	return m, nil
}

func (m *AppModel) refreshResults() {
	obs := m.observer
	m.results = m.shared.searcher.Query(context.Background(), m.query, &obs, m.shared.cursor.Now())
	if len(m.results) == 0 {
		m.selected = -1
	} else if m.selected < 0 || m.selected >= len(m.results) {
		m.selected = 0
	}
}

func (m *AppModel) teardown() {
	if m.shared.unsub != nil {
		m.shared.unsub()
	}
	m.shared.source.Stop()
	if m.shared.cancel != nil {
		m.shared.cancel()
	}
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting skypoint..."
	}

	menuH, statusH := 1, 1
	bodyH := m.height - menuH - statusH
	if bodyH < 9 {
		bodyH = 9
	}

	dialW := m.width * 3 / 5
	if dialW < 26 {
		dialW = 26
	}
	sideW := m.width - dialW
	if sideW < 24 {
		sideW = 24
		dialW = m.width - sideW
	}

	skyNow := m.shared.cursor.Now()
	readout := ui.Readout{
		Orientation: m.orientation,
		Target:      m.target,
		Zone:        core.ZoneSearching.String(),
		SkyTime:     skyNow,
		TimeOffset:  m.shared.cursor.Offset(),
	}

	if m.orientation != nil {
		pointing := core.ToEquatorial(*m.orientation, m.observer, skyNow)
		readout.Pointing = &pointing

		if m.target != nil {
			targetPos := m.targetPosition(skyNow)
			if targetPos != nil {
				bearing := core.BearingTo(pointing, *targetPos)
				readout.Bearing = &bearing
				readout.Zone = m.zones.Classify(bearing.DistanceDeg).String()
			}
		}
	}

	var dial string
	if readout.Bearing != nil {
		dial = ui.RenderPointer(dialW-4, bodyH-4, readout.Bearing.DirectionDeg, readout.Bearing.DistanceDeg, readout.Zone)
	} else {
		dial = ui.RenderPointer(dialW-4, bodyH-4, 0, 0, core.ZoneSearching.String())
	}

	var side string
	if m.mode == modeSearch {
		side = ui.RenderSearchPanel(m.query, m.results, m.selected, sideW-4, bodyH-8)
	} else {
		side = ui.RenderReadout(readout, sideW-4)
	}

	left := ui.FramePanel("GUIDANCE", dial, dialW, bodyH, m.mode == modePointing)
	right := ui.FramePanel(sideTitle(m.mode), side, sideW, bodyH, m.mode == modeSearch)

	return ui.ComposeLayout(
		ui.RenderMenuBar(m.width),
		left, right,
		ui.RenderStatusBar(m.width, m.sourceName, m.starCount, &m.observer),
	)
}

// targetPosition resolves the selected target's current coordinates. Solar
// bodies move, so they are recomputed each frame; stars are fixed.
func (m AppModel) targetPosition(at time.Time) *model.EquatorialCoordinate {
	if m.target == nil {
		return nil
	}
	if m.target.IsSolarBody {
		obs := m.observer
		return m.shared.ephem.PositionOf(context.Background(), m.target.ID, &obs, at)
	}
	pos := m.target.Position
	return &pos
}

func sideTitle(m mode) string {
	if m == modeSearch {
		return "SEARCH"
	}
	return "READOUT"
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
