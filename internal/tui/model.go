// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/idiomquiz/internal/generator"
	"github.com/verte-zerg/idiomquiz/internal/model"
	"github.com/verte-zerg/idiomquiz/internal/session"
	"github.com/verte-zerg/idiomquiz/internal/statsui"
)

type screen int

const (
	screenLogin screen = iota
	screenQuiz
	screenFeedback
	screenLeaderboard
)

type tickMsg time.Time

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	blankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	choiceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	unlockStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
)

// Model implements the Bubble Tea quiz UI.
type Model struct {
	ctl *session.Controller
	log logrus.FieldLogger

	screen   screen
	register bool

	width  int
	height int

	nameInput   textinput.Model
	passInput   textinput.Model
	answerInput textinput.Model
	focusIndex  int

	question *model.Question
	outcome  *session.Outcome
	board    table.Model

	errMsg string
	notice string
}

// NewModel constructs the quiz TUI around a session controller.
func NewModel(ctl *session.Controller, log logrus.FieldLogger) *Model {
	m := &Model{
		ctl:         ctl,
		log:         log,
		nameInput:   newInput("Name: ", 32),
		passInput:   newInput("Password: ", 6),
		answerInput: newInput("> ", 64),
		board:       statsui.NewLeaderboardTable(nil, 20, 3),
	}
	m.passInput.EchoMode = textinput.EchoPassword
	m.passInput.EchoCharacter = '*'
	m.nameInput.Focus()
	return m
}

func newInput(prompt string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = limit
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.board.SetWidth(maxInt(20, msg.Width-4))
		m.board.SetHeight(maxInt(3, msg.Height-6))
		return m, nil
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenQuiz:
			return m.updateQuiz(msg)
		case screenFeedback:
			return m.updateFeedback(msg)
		case screenLeaderboard:
			return m.updateLeaderboard(msg)
		}
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlR:
		m.register = !m.register
		m.errMsg = ""
		return m, nil
	case tea.KeyCtrlL:
		return m.openLeaderboard()
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return m, m.setFocus(1 - m.focusIndex)
	case tea.KeyEnter:
		if m.focusIndex == 0 {
			return m, m.setFocus(1)
		}
		return m.submitLogin()
	}
	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(idx int) tea.Cmd {
	m.focusIndex = idx
	if idx == 0 {
		m.passInput.Blur()
		return m.nameInput.Focus()
	}
	m.nameInput.Blur()
	return m.passInput.Focus()
}

func (m *Model) submitLogin() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	name := m.nameInput.Value()
	pass := m.passInput.Value()
	if m.register {
		if err := m.ctl.Register(ctx, name, pass); err != nil {
			m.errMsg = loginError(err)
			return m, nil
		}
		m.register = false
	}
	if err := m.ctl.Login(ctx, name, pass); err != nil {
		m.errMsg = loginError(err)
		return m, nil
	}
	m.errMsg = ""
	m.notice = ""
	m.passInput.SetValue("")
	m.log.WithField("user", strings.TrimSpace(name)).Debug("session started")
	return m, m.nextQuestion()
}

func loginError(err error) string {
	switch {
	case errors.Is(err, session.ErrNameTaken):
		return "That name is taken."
	case errors.Is(err, session.ErrUnknownUser), errors.Is(err, session.ErrBadCredential):
		return "Name or password is wrong."
	case errors.Is(err, session.ErrInvalidRegistration):
		return strings.TrimPrefix(err.Error(), session.ErrInvalidRegistration.Error()+": ")
	default:
		return err.Error()
	}
}

func (m *Model) nextQuestion() tea.Cmd {
	m.screen = screenQuiz
	m.outcome = nil
	q, err := m.ctl.Next()
	if err != nil {
		m.question = nil
		if errors.Is(err, generator.ErrEmptyPool) {
			m.errMsg = "No idioms loaded. Add a dataset CSV and restart."
		} else {
			m.errMsg = fmt.Sprintf("No question available: %v", err)
		}
		return nil
	}
	m.question = q
	m.errMsg = ""
	m.answerInput.SetValue("")
	if q.Kind.HasChoices() {
		m.answerInput.Blur()
		return nil
	}
	return m.answerInput.Focus()
}

func (m *Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctl.Logout()
		m.screen = screenLogin
		m.question = nil
		m.notice = "Signed out."
		return m, m.setFocus(0)
	case tea.KeyTab:
		topic := m.ctl.CycleTopic()
		m.notice = fmt.Sprintf("Topic: %s", topic)
		return m, m.nextQuestion()
	case tea.KeyCtrlL:
		return m.openLeaderboard()
	}
	if m.question == nil {
		if msg.Type == tea.KeyEnter {
			return m, m.nextQuestion()
		}
		return m, nil
	}
	if m.question.Kind.HasChoices() {
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			idx := int(msg.Runes[0] - '1')
			if idx >= 0 && idx < len(m.question.Choices) {
				return m.submit(m.question.Choices[idx])
			}
		}
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		return m.submit(m.answerInput.Value())
	}
	var cmd tea.Cmd
	m.answerInput, cmd = m.answerInput.Update(msg)
	return m, cmd
}

func (m *Model) submit(answer string) (tea.Model, tea.Cmd) {
	out, err := m.ctl.Submit(context.Background(), answer)
	switch {
	case errors.Is(err, session.ErrEmptyAnswer):
		m.errMsg = "Type an answer first."
		return m, nil
	case errors.Is(err, session.ErrNoStamina):
		m.errMsg = "Out of stamina. " + m.regenHint()
		return m, nil
	case err != nil:
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.outcome = &out
	m.screen = screenFeedback
	m.answerInput.Blur()
	return m, nil
}

func (m *Model) regenHint() string {
	st, ok := m.ctl.Status()
	if !ok || st.NextRegen <= 0 {
		return ""
	}
	return fmt.Sprintf("Next point in %s.", formatCountdown(st.NextRegen))
}

func (m *Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeySpace:
		m.notice = ""
		return m, m.nextQuestion()
	case tea.KeyCtrlL:
		return m.openLeaderboard()
	case tea.KeyEsc:
		return m.updateQuiz(msg)
	}
	return m, nil
}

func (m *Model) openLeaderboard() (tea.Model, tea.Cmd) {
	standings, err := m.ctl.Leaderboard(context.Background())
	if err != nil {
		m.notice = "Leaderboard may be stale: store unavailable."
	}
	m.board = statsui.NewLeaderboardTable(standings, maxInt(20, m.width-4), maxInt(3, m.height-6))
	m.board.Focus()
	m.screen = screenLeaderboard
	return m, nil
}

func (m *Model) updateLeaderboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlL:
		m.board.Blur()
		m.notice = ""
		if _, ok := m.ctl.Profile(); !ok {
			m.screen = screenLogin
			return m, m.setFocus(m.focusIndex)
		}
		if m.outcome != nil {
			m.screen = screenFeedback
			return m, nil
		}
		return m, m.nextQuestion()
	}
	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenQuiz:
		body = m.viewQuiz()
	case screenFeedback:
		body = m.viewFeedback()
	case screenLeaderboard:
		body = titleStyle.Render("Leaderboard") + "\n\n" + m.board.View()
	}
	if m.errMsg != "" {
		body += "\n\n" + incorrectStyle.Render(m.errMsg)
	} else if m.notice != "" {
		body += "\n\n" + noticeStyle.Render(m.notice)
	}
	footer := footerStyle.Render(m.renderHelp())
	if status := m.renderStatus(); status != "" {
		footer = status + "\n" + footer
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	contentWidth := m.contentWidth()
	content := lipgloss.NewStyle().Width(contentWidth).Render(body)
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	top := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	bottom := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return top + "\n" + bottom
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = maxInt(1, m.width)
	}
	return w
}

func (m *Model) viewLogin() string {
	title := "Sign in"
	if m.register {
		title = "Register"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		m.nameInput.View(),
		m.passInput.View(),
	}
	if m.register {
		lines = append(lines, "", footerStyle.Render("Passwords are 4 to 6 digits."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewQuiz() string {
	if m.question == nil {
		return titleStyle.Render("No question") + "\n\n" + footerStyle.Render("Press enter to try again or tab to change topic.")
	}
	q := m.question
	lines := []string{
		titleStyle.Render(questionTitle(q.Kind)),
		"",
		m.renderPrompt(q.Prompt),
		"",
	}
	if q.Kind.HasChoices() {
		for i, choice := range q.Choices {
			lines = append(lines, choiceStyle.Render(fmt.Sprintf("%d. %s", i+1, choice)))
		}
	} else {
		lines = append(lines, m.answerInput.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPrompt(prompt string) string {
	runes := buildStyledRunes(prompt, promptStyle, blankStyle)
	if m.width == 0 {
		return renderStyledRunes(runes)
	}
	return wrapStyledRunes(runes, m.contentWidth())
}

func questionTitle(kind model.QuestionKind) string {
	switch kind {
	case model.KindDefinition:
		return "Which phrase matches the meaning?"
	case model.KindSentenceBlank:
		return "Which phrase fills the blank?"
	case model.KindCharacterBlank:
		return "Fill in the missing characters"
	case model.KindFreeRecall:
		return "Which phrase is described?"
	default:
		return "Question"
	}
}

func (m *Model) viewFeedback() string {
	out := m.outcome
	if out == nil {
		return ""
	}
	return strings.Join(renderOutcome(*out), "\n")
}

func renderOutcome(out session.Outcome) []string {
	var lines []string
	if out.Correct {
		lines = append(lines, correctStyle.Render("Correct!"))
	} else {
		lines = append(lines,
			incorrectStyle.Render("Not quite."),
			fmt.Sprintf("Your answer: %s", out.Given),
			fmt.Sprintf("Answer: %s", out.Expected),
		)
	}
	e := out.Question.Entry
	if e.Definition != "" {
		lines = append(lines, "", fmt.Sprintf("%s: %s", e.Phrase, e.Definition))
	}
	if e.Phonetic != "" {
		lines = append(lines, fmt.Sprintf("Pronunciation: %s", e.Phonetic))
	}
	if e.Example != "" {
		lines = append(lines, fmt.Sprintf("Example: %s", e.Example))
	}
	if len(e.Synonyms) > 0 {
		lines = append(lines, fmt.Sprintf("Synonyms: %s", strings.Join(e.Synonyms, "、")))
	}
	if len(e.Antonyms) > 0 {
		lines = append(lines, fmt.Sprintf("Antonyms: %s", strings.Join(e.Antonyms, "、")))
	}
	for _, u := range out.Unlocks {
		lines = append(lines, "", unlockStyle.Render(unlockBanner(u)))
	}
	if out.SaveErr != nil {
		lines = append(lines, "", noticeStyle.Render("Progress not saved: store unavailable."))
	}
	return lines
}

func unlockBanner(u model.Unlock) string {
	switch u.Kind {
	case model.UnlockTierAdvance:
		return fmt.Sprintf("%s: tier %d unlocked!", u.Topic, u.ToTier)
	case model.UnlockMastery:
		return fmt.Sprintf("%s mastered! Tier %d complete.", u.Topic, u.ToTier)
	case model.UnlockBadge:
		return fmt.Sprintf("Badge earned: %s", u.Badge)
	default:
		return "Unlocked!"
	}
}

func (m *Model) renderStatus() string {
	st, ok := m.ctl.Status()
	if !ok {
		return ""
	}
	return footerStyle.Render(formatStatus(st))
}

func formatStatus(st session.Status) string {
	segments := []string{
		st.Profile.Name,
		fmt.Sprintf("Topic %s", st.Topic),
		fmt.Sprintf("Tier %d/%d", st.Progress.Tier, st.MaxTier),
		fmt.Sprintf("%d/%d", st.Progress.CorrectInTier, st.Target),
		fmt.Sprintf("Streak %d", st.Progress.Streak),
		fmt.Sprintf("XP %d", st.Profile.XP),
		fmt.Sprintf("Stamina %d", st.Profile.Stamina),
	}
	if st.NextRegen > 0 {
		segments = append(segments, fmt.Sprintf("+1 in %s", formatCountdown(st.NextRegen)))
	}
	return strings.Join(segments, "  ")
}

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func (m *Model) renderHelp() string {
	switch m.screen {
	case screenLogin:
		mode := "register: ctrl+r"
		if m.register {
			mode = "sign in: ctrl+r"
		}
		return "tab: next field  enter: submit  " + mode + "  leaderboard: ctrl+l  quit: ctrl+c"
	case screenQuiz:
		if m.question != nil && m.question.Kind.HasChoices() {
			return "1-4: answer  tab: topic  leaderboard: ctrl+l  sign out: esc"
		}
		return "enter: answer  tab: topic  leaderboard: ctrl+l  sign out: esc"
	case screenFeedback:
		return "enter: next  leaderboard: ctrl+l  sign out: esc"
	default:
		return "up/down: scroll  back: esc"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
