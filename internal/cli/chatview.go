package cli

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/SartoDev/auto-linked/internal/llm"
	"github.com/SartoDev/auto-linked/internal/models"
	"github.com/SartoDev/auto-linked/internal/session"
	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 28

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// transcriptMsg signals that the open conversation changed, including once
// per streamed fragment.
type transcriptMsg struct{}

// notifyMsg carries a user-visible notification.
type notifyMsg struct {
	text  string
	isErr bool
}

// navigateMsg switches the view to a conversation; empty id is home.
type navigateMsg struct {
	chatID string
}

// loadedMsg reports the initial (or post-navigation) fetch.
type loadedMsg struct {
	err error
}

// turnDoneMsg reports a finished submission lifecycle.
type turnDoneMsg struct {
	err error
}

// listChangedMsg reports a finished list mutation (rename, delete, refresh).
type listChangedMsg struct {
	err error
}

// publishDoneMsg reports a finished LinkedIn post attempt.
type publishDoneMsg struct {
	err error
}

// uiNotifier bridges controller notifications into the program's message
// loop.
type uiNotifier struct {
	send func(tea.Msg)
}

func (n uiNotifier) Success(msg string) { n.send(notifyMsg{text: msg}) }
func (n uiNotifier) Error(msg string)   { n.send(notifyMsg{text: msg, isErr: true}) }

// chatState is shared between the model value and the closures wired into
// the controllers, so navigation can swap the open conversation in place.
type chatState struct {
	gw       session.Gateway
	streamer session.Streamer
	send     func(tea.Msg)

	// publish posts text to LinkedIn on behalf of the configured user.
	publish func(ctx context.Context, text string) error

	ctrl *session.Controller
	list *session.List
}

func (st *chatState) open(chatID string) {
	ctrl := session.NewController(st.gw, st.streamer, cfg.UserID, chatID, logger)
	ctrl.Navigate = func(id string) { st.send(navigateMsg{chatID: id}) }
	ctrl.Render = func() { st.send(transcriptMsg{}) }
	ctrl.SetNotifier(uiNotifier{send: st.send})
	st.ctrl = ctrl
}

// chatModel is the bubbletea model for the chat view.
type chatModel struct {
	st    *chatState
	theme Theme

	input       textinput.Model
	renameInput textinput.Model
	vp          viewport.Model

	focus    focusArea
	cursor   int
	renaming string // chat id being renamed, empty if none

	width  int
	height int

	status    string
	statusErr bool
	fatal     bool
	quitting  bool
}

func newChatModel(st *chatState) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Focus()

	renameInput := textinput.New()

	return chatModel{
		st:          st,
		theme:       themeByName(cfg.Theme),
		input:       input,
		renameInput: renameInput,
		vp:          viewport.New(),
		width:       100,
		height:      30,
	}
}

// Init performs the initial conversation load and list fetch.
func (m chatModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.SetWidth(m.transcriptWidth())
		m.vp.SetHeight(m.transcriptHeight())
		m.vp.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case transcriptMsg:
		m.vp.SetContent(m.renderTranscript())
		m.vp.GotoBottom()
		return m, nil

	case notifyMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, nil

	case navigateMsg:
		m.st.open(msg.chatID)
		m.status = ""
		return m, m.loadCmd()

	case loadedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
		}
		m.cursor = m.cursorFor(m.st.ctrl.ChatID())
		m.vp.SetContent(m.renderTranscript())
		m.vp.GotoBottom()
		return m, nil

	case turnDoneMsg:
		// No retry will fix exhausted credits or bad credentials; leave
		// the view instead of failing every turn the same way.
		if llm.IsFatalAPIError(msg.err) {
			m.status = msg.err.Error()
			m.statusErr = true
			m.fatal = true
			m.quitting = true
			return m, tea.Quit
		}
		// Other failures already surfaced through notifications; reload
		// the list so an implicitly created chat shows up in the sidebar.
		return m, m.refreshListCmd()

	case publishDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to post to LinkedIn: %s", msg.err)
			m.statusErr = true
		} else {
			m.status = "Posted to LinkedIn."
			m.statusErr = false
		}
		return m, nil

	case listChangedMsg:
		if msg.err != nil && m.status == "" {
			m.status = msg.err.Error()
			m.statusErr = true
		}
		if n := len(m.st.list.Items()); m.cursor >= n {
			m.cursor = n - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}

func (m chatModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.renaming != "" {
		return m.handleRenameKey(msg)
	}
	if _, pending := m.st.list.PendingDelete(); pending {
		return m.handleDeleteKey(msg)
	}

	if msg.String() == "ctrl+p" {
		return m.publishLastReply()
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m chatModel) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.focus = focusSidebar
		m.input.Blur()
		return m, nil

	case "enter":
		text := m.input.Value()
		if strings.TrimSpace(text) == "" || m.st.ctrl.Busy() {
			return m, nil
		}
		m.input.Reset()
		m.status = ""
		return m, m.submitCmd(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	items := m.st.list.Items()

	switch msg.String() {
	case "tab", "esc":
		m.focus = focusInput
		m.input.Focus()
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if item, ok := m.selectedItem(); ok {
			m.st.list.Select(item.ID)
		}
		return m, nil

	case "r":
		if item, ok := m.selectedItem(); ok && !item.Home() {
			m.st.list.BeginRename(item.ID)
			m.renaming = item.ID
			m.renameInput.SetValue(item.Title)
			m.renameInput.Focus()
		}
		return m, nil

	case "d":
		if item, ok := m.selectedItem(); ok && !item.Home() {
			m.st.list.RequestDelete(item.ID)
		}
		return m, nil
	}

	return m, nil
}

// selectedItem returns the sidebar row under the cursor. There is no row
// when the list has not loaded or the cursor is out of range.
func (m chatModel) selectedItem() (session.Item, bool) {
	items := m.st.list.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return session.Item{}, false
	}
	return items[m.cursor], true
}

// publishLastReply shares the newest assistant reply on LinkedIn. A turn in
// flight is left alone: its reply is not complete yet.
func (m chatModel) publishLastReply() (tea.Model, tea.Cmd) {
	if m.st.ctrl.Busy() {
		return m, nil
	}
	entry, ok := lastAssistantReply(m.st.ctrl.Entries())
	if !ok {
		m.status = "No assistant reply to post yet."
		m.statusErr = true
		return m, nil
	}
	m.status = "Posting to LinkedIn..."
	m.statusErr = false
	return m, m.publishCmd(entry.Content)
}

// lastAssistantReply picks the newest non-empty assistant entry.
func lastAssistantReply(entries []session.Entry) (session.Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == models.RoleModel && strings.TrimSpace(entries[i].Content) != "" {
			return entries[i], true
		}
	}
	return session.Entry{}, false
}

func (m chatModel) handleRenameKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		chatID := m.renaming
		title := m.renameInput.Value()
		m.renaming = ""
		m.renameInput.Blur()
		return m, m.commitRenameCmd(chatID, title)

	case "esc":
		m.renaming = ""
		m.renameInput.Blur()
		return m, m.refreshListCmd()
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m chatModel) handleDeleteKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m, m.confirmDeleteCmd()
	case "n", "esc":
		m.st.list.CancelDelete()
	}
	return m, nil
}

// Commands. Everything that talks to the network runs as a command so the
// event loop stays responsive; streamed fragments arrive as transcriptMsg.

func (m chatModel) loadCmd() tea.Cmd {
	st := m.st
	return func() tea.Msg {
		ctx := context.Background()
		if err := st.ctrl.Load(ctx); err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{err: st.list.Refresh(ctx)}
	}
}

func (m chatModel) submitCmd(text string) tea.Cmd {
	st := m.st
	return func() tea.Msg {
		return turnDoneMsg{err: st.ctrl.Submit(context.Background(), text)}
	}
}

func (m chatModel) refreshListCmd() tea.Cmd {
	st := m.st
	return func() tea.Msg {
		return listChangedMsg{err: st.list.Refresh(context.Background())}
	}
}

func (m chatModel) commitRenameCmd(chatID, title string) tea.Cmd {
	st := m.st
	return func() tea.Msg {
		st.list.SetTitle(chatID, title)
		return listChangedMsg{err: st.list.CommitRename(context.Background(), chatID)}
	}
}

func (m chatModel) publishCmd(text string) tea.Cmd {
	st := m.st
	return func() tea.Msg {
		return publishDoneMsg{err: st.publish(context.Background(), text)}
	}
}

func (m chatModel) confirmDeleteCmd() tea.Cmd {
	st := m.st
	return func() tea.Msg {
		return listChangedMsg{err: st.list.ConfirmDelete(context.Background())}
	}
}

// View renders the sidebar next to the conversation pane.
func (m chatModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.vp.View(),
		m.renderInputLine(),
		m.renderStatusLine(),
	)

	return tea.NewView(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main))
}

func (m chatModel) transcriptWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m chatModel) transcriptHeight() int {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

func (m chatModel) renderHeader() string {
	title := session.HomeTitle
	for _, item := range m.st.list.Items() {
		if !item.Home() && item.ID == m.st.ctrl.ChatID() {
			title = item.Title
			break
		}
	}
	return m.theme.accentStyle().Render(title)
}

func (m chatModel) renderTranscript() string {
	entries := m.st.ctrl.Entries()
	if len(entries) == 0 {
		return m.theme.hintStyle().Render("Ask for a post draft to get started.")
	}

	wrap := lipgloss.NewStyle().Width(m.transcriptWidth())

	var b strings.Builder
	for _, entry := range entries {
		switch entry.Role {
		case models.RoleUser:
			b.WriteString(m.theme.userStyle().Render("You"))
		default:
			b.WriteString(m.theme.assistantStyle().Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(entry.Content))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m chatModel) renderInputLine() string {
	return m.input.View()
}

func (m chatModel) renderStatusLine() string {
	if m.st.ctrl.Busy() {
		return m.theme.hintStyle().Render(fmt.Sprintf("Assistant is replying... (%s)", m.st.ctrl.State()))
	}
	if m.status != "" {
		if m.statusErr {
			return m.theme.errorStyle().Render(m.status)
		}
		return m.theme.successStyle().Render(m.status)
	}
	return m.theme.hintStyle().Render("tab: sidebar  enter: send  ctrl+p: post reply  ctrl+c: quit")
}

func (m chatModel) renderSidebar() string {
	items := m.st.list.Items()
	pendingID, pending := m.st.list.PendingDelete()

	lines := make([]string, 0, len(items)+2)
	lines = append(lines, m.theme.accentStyle().Render("Chats"), "")

	for i, item := range items {
		title := item.Title
		if item.Renaming && m.renaming == item.ID {
			title = m.renameInput.View()
		}
		if pending && item.ID == pendingID {
			title += m.theme.errorStyle().Render(" delete? [y/n]")
		}

		line := truncate(title, sidebarWidth-2)
		if i == m.cursor && m.focus == focusSidebar {
			line = m.theme.selectionStyle().Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.transcriptHeight() + 3).
		Render(strings.Join(lines, "\n"))
}

// cursorFor places the sidebar cursor on the open conversation.
func (m chatModel) cursorFor(chatID string) int {
	for i, item := range m.st.list.Items() {
		if item.ID == chatID {
			return i
		}
	}
	return 0
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// runChatView runs the interactive chat UI until the user quits.
func runChatView(gw session.Gateway, streamer session.Streamer, chatID string) error {
	var p *tea.Program
	st := &chatState{
		gw:       gw,
		streamer: streamer,
		send: func(msg tea.Msg) {
			p.Send(msg)
		},
	}
	pub := getPublisher()
	st.publish = func(ctx context.Context, text string) error {
		creds, err := pub.Exchange(ctx, cfg.UserID)
		if err != nil {
			return err
		}
		return pub.Post(ctx, creds, text, "")
	}
	st.open(chatID)

	list := session.NewList(gw, cfg.UserID, logger)
	list.Navigate = func(id string) { st.send(navigateMsg{chatID: id}) }
	list.CurrentChat = func() string { return st.ctrl.ChatID() }
	list.SetNotifier(uiNotifier{send: st.send})
	st.list = list

	p = tea.NewProgram(newChatModel(st))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	// A fatal provider error quits the view; report it on the way out.
	if m, ok := finalModel.(chatModel); ok && m.fatal && m.status != "" {
		return fmt.Errorf("%s", m.status)
	}
	return nil
}
