package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mjamili/ronda/internal/deck"
	"github.com/mjamili/ronda/internal/game"
)

// refreshMsg tells the model to pull a fresh snapshot from the engine
type refreshMsg struct{}

// Model is the Bubble Tea model for the Ronda board. It is a pure
// consumer of engine snapshots: key presses dispatch intents through
// PlayCard/StartGame and every render reads the latest snapshot.
type Model struct {
	engine   *game.Engine
	logger   *log.Logger
	snapshot game.Snapshot
	selected int
	width    int
	quitting bool
}

// NewModel creates the board model for an engine
func NewModel(engine *game.Engine, logger *log.Logger) *Model {
	return &Model{
		engine:   engine,
		logger:   logger.WithPrefix("tui"),
		snapshot: engine.Snapshot(),
	}
}

// Subscriber adapts engine events to program messages. Subscribe it
// after the program is created so timer-driven transitions re-render.
type Subscriber struct {
	program *tea.Program
}

// NewSubscriber wires a running program to the engine's event bus
func NewSubscriber(program *tea.Program) *Subscriber {
	return &Subscriber{program: program}
}

// OnEvent implements game.Subscriber
func (s *Subscriber) OnEvent(game.Event) {
	s.program.Send(refreshMsg{})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snapshot = m.engine.Snapshot()
		m.clampSelection()

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter", " ":
		switch m.snapshot.State {
		case game.StateLobby:
			m.engine.StartGame()
			m.snapshot = m.engine.Snapshot()
		case game.StatePlaying:
			m.playSelected()
		case game.StateGameEnd:
			m.engine.StartGame()
			m.snapshot = m.engine.Snapshot()
		}

	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}

	case "right", "l":
		if m.selected < len(m.activeHand())-1 {
			m.selected++
		}
	}
	return m, nil
}

// activeSeat returns the seat the keyboard currently controls. In solo
// mode that is always the human seat; in PvP the board is hot-seat and
// follows the turn owner.
func (m *Model) activeSeat() game.Seat {
	if m.snapshot.Mode == game.ModeSolo {
		return game.SeatOne
	}
	return m.snapshot.Turn
}

func (m *Model) activeHand() []deck.Card {
	return m.snapshot.Hands[m.activeSeat()]
}

func (m *Model) playSelected() {
	hand := m.activeHand()
	if m.selected >= len(hand) {
		return
	}
	card := hand[m.selected]
	m.logger.Debug("dispatching move", "card", card, "seat", m.activeSeat())
	m.engine.PlayCard(card, m.activeSeat())
	m.snapshot = m.engine.Snapshot()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if n := len(m.activeHand()); m.selected >= n && n > 0 {
		m.selected = n - 1
	} else if n == 0 {
		m.selected = 0
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.snapshot.State {
	case game.StateLobby:
		return m.viewLobby()
	case game.StateGameEnd:
		return m.viewGameEnd()
	default:
		return m.viewBoard()
	}
}

func (m *Model) viewLobby() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" RONDA "))
	b.WriteString("\n\n")
	mode := "Solo vs Bot"
	if m.snapshot.Mode == game.ModePvP {
		mode = "Two players (hot seat)"
	}
	b.WriteString(ScoreStyle.Render(fmt.Sprintf("%s vs %s — %s",
		m.snapshot.Names[game.SeatOne], m.snapshot.Names[game.SeatTwo], mode)))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("enter: deal  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewGameEnd() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" RONDA "))
	b.WriteString("\n\n")
	if r := m.snapshot.Result; r != nil {
		text := "Draw!"
		if !r.Draw {
			text = fmt.Sprintf("%s wins!", m.snapshot.Names[r.Winner])
		}
		b.WriteString(ResultStyle.Render(fmt.Sprintf("%s\n%s %d — %d %s",
			text,
			m.snapshot.Names[game.SeatOne], r.Scores[game.SeatOne],
			r.Scores[game.SeatTwo], m.snapshot.Names[game.SeatTwo])))
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("enter: rematch  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewBoard() string {
	snap := m.snapshot
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" RONDA "))
	b.WriteString(ScoreStyle.Render(fmt.Sprintf("  Round %d", snap.RoundNumber)))
	b.WriteString("\n\n")

	b.WriteString(m.renderSeatLine(game.SeatTwo))
	b.WriteString("\n")
	b.WriteString(m.renderOpposingHand())
	b.WriteString("\n\n")

	b.WriteString(TableStyle.Render(renderCards(snap.Table, -1)))
	b.WriteString("\n\n")

	b.WriteString(m.renderOwnHand())
	b.WriteString("\n")
	b.WriteString(m.renderSeatLine(game.SeatOne))
	b.WriteString("\n\n")

	for _, ann := range lastAnnouncements(snap.Announcements, 3) {
		b.WriteString(AnnouncementStyle.Render(fmt.Sprintf("%s! (%s)",
			strings.ToUpper(string(ann.Kind)), snap.Names[ann.Seat])))
		b.WriteString(" ")
	}
	if len(snap.Announcements) > 0 {
		b.WriteString("\n")
	}

	if snap.Message != "" {
		b.WriteString(MessageStyle.Render(snap.Message))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("←/→: select  enter: play  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderSeatLine(seat game.Seat) string {
	snap := m.snapshot
	line := fmt.Sprintf("%s  %d cards  round %d  total %d",
		snap.Names[seat], len(snap.Captured[seat]), snap.RoundScores[seat], snap.Scores[seat])
	if snap.State == game.StatePlaying && snap.Turn == seat {
		return ActiveSeatStyle.Render("▶ " + line)
	}
	return ScoreStyle.Render("  " + line)
}

// renderOpposingHand shows the non-acting hand: face down in solo mode,
// face up in hot-seat PvP.
func (m *Model) renderOpposingHand() string {
	seat := m.activeSeat().Other()
	hand := m.snapshot.Hands[seat]
	if m.snapshot.Mode == game.ModeSolo {
		return FaceDownStyle.Render(strings.TrimSpace(strings.Repeat("[??] ", len(hand))))
	}
	return renderCards(hand, -1)
}

func (m *Model) renderOwnHand() string {
	selected := -1
	if m.snapshot.State == game.StatePlaying {
		selected = m.selected
	}
	return renderCards(m.activeHand(), selected)
}

// renderCards renders a card row, highlighting the selected index when
// it is non-negative.
func renderCards(cards []deck.Card, selected int) string {
	if len(cards) == 0 {
		return FaceDownStyle.Render("(empty)")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		label := fmt.Sprintf("[%s]", c)
		switch {
		case i == selected:
			parts[i] = SelectedStyle.Render(label)
		case c.IsFigure():
			parts[i] = suitStyle(c.Suit).Underline(true).Render(label)
		default:
			parts[i] = suitStyle(c.Suit).Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}

func suitStyle(suit deck.Suit) lipgloss.Style {
	switch suit {
	case deck.Oros:
		return OrosStyle
	case deck.Copas:
		return CopasStyle
	case deck.Espadas:
		return EspadasStyle
	default:
		return BastosStyle
	}
}

func lastAnnouncements(anns []game.Announcement, n int) []game.Announcement {
	if len(anns) <= n {
		return anns
	}
	return anns[len(anns)-n:]
}
