package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/recipe"
	"ticketdesk/pkg/session"
	"ticketdesk/pkg/store"
)

// Screen is the top-level route.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalFilter
	modalForm
	modalConfirm
	modalDetail
)

// AppConfig wires the application's collaborators.
type AppConfig struct {
	Gateway   TicketGateway
	Auth      Authenticator
	Session   *session.Store
	Tickets   *store.Tickets
	Presets   []recipe.Recipe
	PageSizes []int
	Logger    zerolog.Logger
	Theme     *Theme
}

// App is the root bubbletea model. It routes between the login screen and
// the ticket list, and hosts the list's modals.
type App struct {
	session    *session.Store
	tickets    *store.Tickets
	controller *ListController
	logger     zerolog.Logger
	theme      Theme
	keys       KeyMap

	screen Screen
	login  *LoginScreen

	modal   modalKind
	filter  *FilterPanel
	form    *EditForm
	confirm *ConfirmDialog
	detail  *DetailView

	list      list.Model
	board     BoardModel
	showBoard bool
	spinner   spinner.Model
	spinning  bool
	paginator paginator.Model
	help      help.Model
	notifier  Notifier
	snapshot  *PageSnapshot
	pageSizes []int

	width  int
	height int
}

// NewApp builds the root model. The list screen starts directly when the
// session already holds a credential.
func NewApp(cfg AppConfig) *App {
	theme := DefaultTheme()
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	pageSizes := cfg.PageSizes
	if len(pageSizes) == 0 {
		pageSizes = []int{model.DefaultPageSize}
	}

	l := list.New(nil, TicketDelegate{Tier: TierNormal}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("ticket", "tickets")

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	p := paginator.New()
	p.Type = paginator.Arabic

	a := &App{
		session:    cfg.Session,
		tickets:    cfg.Tickets,
		controller: NewListController(cfg.Gateway, cfg.Tickets, cfg.Logger),
		logger:     cfg.Logger,
		theme:      theme,
		keys:       DefaultKeyMap,
		login:      NewLoginScreen(cfg.Auth, cfg.Session, cfg.Logger),
		filter:     NewFilterPanel(cfg.Presets),
		list:       l,
		board:      NewBoardModel(nil, theme),
		spinner:    s,
		paginator:  p,
		help:       help.New(),
		notifier:   NewNotifier(),
		pageSizes:  pageSizes,
		width:      80,
		height:     24,
	}
	if cfg.Session.IsLoggedIn() {
		a.screen = ScreenList
	}
	return a
}

// Screen returns the active route.
func (a *App) Screen() Screen { return a.screen }

// Controller exposes the list session.
func (a *App) Controller() *ListController { return a.controller }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenList {
		return a.withSpinner(a.controller.Init())
	}
	return textinput.Blink
}

// withSpinner starts the loading spinner when a call went out.
func (a *App) withSpinner(cmd tea.Cmd) tea.Cmd {
	if a.controller.Loading() && !a.spinning {
		a.spinning = true
		return tea.Batch(cmd, a.spinner.Tick)
	}
	return cmd
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The list is only reachable with a credential.
	if a.screen == ScreenList && !a.session.IsLoggedIn() {
		a.toLogin()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case NotifyMsg, notificationExpiredMsg:
		return a, a.notifier.Update(msg)

	case LoggedInMsg:
		a.screen = ScreenList
		a.modal = modalNone
		return a, a.withSpinner(a.controller.Init())

	case loginResultMsg:
		return a, a.login.Update(msg)

	case spinner.TickMsg:
		if a.screen == ScreenLogin {
			return a, a.login.Update(msg)
		}
		if !a.controller.Loading() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ticketsLoadedMsg:
		cmd := a.controller.Update(msg)
		a.syncPage()
		return a, cmd

	case ticketLoadedMsg:
		cmd := a.controller.Update(msg)
		if t, ok := a.controller.Selected(); ok && a.detail == nil {
			if a.modal != modalNone {
				// Another modal opened while the fetch was out.
				a.controller.CloseDetail()
				return a, cmd
			}
			w, h := a.modalSize()
			a.detail = NewDetailView(t, a.theme, w, h)
			a.modal = modalDetail
		}
		return a, cmd

	case mutationDoneMsg:
		cmd := a.controller.Update(msg)
		a.syncDetail()
		return a, a.withSpinner(cmd)

	case FiltersChangedMsg:
		a.modal = modalNone
		return a, a.withSpinner(a.controller.ApplyFilters(msg.Filter))

	case FilterPanelClosedMsg:
		a.modal = modalNone
		return a, nil

	case FormResultMsg:
		a.form = nil
		a.modal = a.underlyingModal()
		return a, a.withSpinner(a.controller.SubmitForm(msg))

	case ConfirmResultMsg:
		a.confirm = nil
		a.modal = a.underlyingModal()
		return a, a.withSpinner(a.controller.SubmitDelete(msg))

	case DetailClosedMsg:
		a.detail = nil
		a.modal = modalNone
		a.controller.CloseDetail()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == ScreenLogin {
			return a, a.login.Update(msg)
		}
		return a, a.handleListKey(msg)
	}

	if a.screen == ScreenLogin {
		return a, a.login.Update(msg)
	}
	return a, nil
}

// underlyingModal is what remains visible after the form or confirm dialog
// closes: the detail view when it was open underneath.
func (a *App) underlyingModal() modalKind {
	if a.detail != nil {
		return modalDetail
	}
	return modalNone
}

func (a *App) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch a.modal {
	case modalFilter:
		return a.filter.Update(msg)
	case modalForm:
		return a.form.Update(msg)
	case modalConfirm:
		return a.confirm.Update(msg)
	case modalDetail:
		switch {
		case key.Matches(msg, detailEdit):
			t := a.detail.Ticket()
			a.openForm(&t)
			return nil
		case key.Matches(msg, a.keys.Delete):
			t := a.detail.Ticket()
			a.openConfirm(t)
			return nil
		}
		return a.detail.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Logout):
		a.logout()
		return Notify(NotifyInfo, "Logged out")
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return nil
	case key.Matches(msg, a.keys.NextPage):
		return a.withSpinner(a.controller.NextPage())
	case key.Matches(msg, a.keys.PrevPage):
		return a.withSpinner(a.controller.PrevPage())
	case key.Matches(msg, a.keys.PageSize):
		return a.withSpinner(a.controller.SetPageSize(a.nextPageSize()))
	case key.Matches(msg, a.keys.Refresh):
		return a.withSpinner(a.controller.Refresh())
	case key.Matches(msg, a.keys.Filter):
		a.filter.SetDraft(a.controller.Filter())
		a.filter.Focus()
		a.modal = modalFilter
		return nil
	case key.Matches(msg, a.keys.FilterClear):
		return a.filter.ClearFilters()
	case key.Matches(msg, a.keys.Board):
		a.showBoard = !a.showBoard
		return nil
	case key.Matches(msg, a.keys.Create):
		a.openForm(nil)
		return nil
	case key.Matches(msg, a.keys.Edit):
		if t, ok := a.currentTicket(); ok {
			a.openForm(&t)
		}
		return nil
	case key.Matches(msg, a.keys.Delete):
		if t, ok := a.currentTicket(); ok {
			a.openConfirm(t)
		}
		return nil
	case key.Matches(msg, a.keys.Open):
		if t, ok := a.currentTicket(); ok {
			return a.withSpinner(a.controller.OpenDetail(t.ID))
		}
		return nil
	}

	if a.showBoard {
		switch {
		case key.Matches(msg, a.keys.Up):
			a.board.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.board.MoveDown()
		case msg.String() == "tab":
			a.board.MoveRight()
		case msg.String() == "shift+tab":
			a.board.MoveLeft()
		}
		return nil
	}
	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return cmd
}

func (a *App) openForm(t *model.Ticket) {
	a.form = NewEditForm(t)
	a.modal = modalForm
}

func (a *App) openConfirm(t model.Ticket) {
	a.confirm = NewConfirmDialog(t.ID, t.Title)
	a.modal = modalConfirm
}

// currentTicket returns the ticket under the cursor.
func (a *App) currentTicket() (model.Ticket, bool) {
	if a.showBoard {
		if t := a.board.SelectedTicket(); t != nil {
			return *t, true
		}
		return model.Ticket{}, false
	}
	item, ok := a.list.SelectedItem().(TicketItem)
	if !ok {
		return model.Ticket{}, false
	}
	return item.Ticket, true
}

// nextPageSize returns the configured size after the current one.
func (a *App) nextPageSize() int {
	current := a.controller.Page().Size
	for i, s := range a.pageSizes {
		if s == current {
			return a.pageSizes[(i+1)%len(a.pageSizes)]
		}
	}
	return a.pageSizes[0]
}

func (a *App) logout() {
	a.session.ClearCredential()
	a.logger.Info().Msg("logged out")
	a.toLogin()
}

// toLogin tears the list session down and shows the login screen.
func (a *App) toLogin() {
	a.controller.Reset()
	a.modal = modalNone
	a.form, a.confirm, a.detail = nil, nil, nil
	a.snapshot = nil
	a.syncPage()
	a.login.Reset()
	a.screen = ScreenLogin
}

// syncPage copies the controller's page into the list, board and paginator.
func (a *App) syncPage() {
	tickets := a.controller.Tickets()
	items := make([]list.Item, len(tickets))
	for i, t := range tickets {
		items[i] = TicketItem{Ticket: t}
	}
	a.list.SetItems(items)
	a.board.SetTickets(tickets)
	if a.controller.State() == StateLoaded {
		a.snapshot = NewPageSnapshot(tickets, time.Now())
	}

	page := a.controller.Page()
	a.paginator.PerPage = max(1, page.Size)
	a.paginator.TotalPages = max(1, a.controller.TotalPages())
	a.paginator.Page = page.Number
}

// syncDetail keeps the detail modal in step with the selection.
func (a *App) syncDetail() {
	if a.detail == nil {
		return
	}
	t, ok := a.controller.Selected()
	if !ok {
		a.detail = nil
		if a.modal == modalDetail {
			a.modal = modalNone
		}
		return
	}
	w, h := a.modalSize()
	a.detail = NewDetailView(t, a.theme, w, h)
}

func (a *App) modalSize() (int, int) {
	return modalInnerWidth(a.width), max(10, a.height-8)
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.list.SetDelegate(TicketDelegate{Tier: TierForWidth(width)})
	a.list.SetSize(width, max(3, height-4))
	a.help.Width = width
	if a.detail != nil {
		a.detail.SetSize(a.modalSize())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.screen == ScreenLogin {
		return a.login.View(a.width, a.height)
	}

	body := a.list.View()
	if a.showBoard {
		body = a.board.View(a.width, max(5, a.height-4))
	} else if len(a.list.Items()) == 0 {
		body = lipgloss.Place(a.width, max(3, a.height-4), lipgloss.Center, lipgloss.Center,
			HelpStyle.Render(a.emptyText()))
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		a.headerView(),
		body,
		a.statusView(),
		HelpStyle.Render(a.help.View(a.keys)),
	)

	width := modalInnerWidth(a.width)
	switch a.modal {
	case modalFilter:
		view = CenterModal(view, a.filter.View(width), a.width, a.height)
	case modalForm:
		view = CenterModal(view, a.form.View(width), a.width, a.height)
	case modalConfirm:
		view = CenterModal(view, a.confirm.View(width), a.width, a.height)
	case modalDetail:
		view = CenterModal(view, a.detail.View(), a.width, a.height)
	}
	return view
}

func (a *App) emptyText() string {
	switch a.controller.State() {
	case StateLoading:
		return "Loading tickets…"
	case StateError:
		return "Tickets could not be loaded. Press r to retry."
	}
	if !a.controller.Filter().IsEmpty() {
		return "No tickets match the filter. Press x to clear it."
	}
	return "No tickets yet. Press n to create one."
}

func (a *App) headerView() string {
	user := ""
	if cred, ok := a.session.Credential(); ok {
		user = "@" + cred.Username
	}
	left := HeaderStyle.Render("ticketdesk")
	filter := HelpStyle.Render(describeFilter(a.controller.Filter()))
	right := HelpStyle.Render(user)
	gap := max(0, a.width-lipgloss.Width(left)-lipgloss.Width(filter)-lipgloss.Width(right))
	return left + filter + strings.Repeat(" ", gap) + right
}

func describeFilter(f model.Filter) string {
	if f.IsEmpty() {
		return "all tickets"
	}
	var parts []string
	if f.Status != model.StatusUnset {
		parts = append(parts, "status:"+string(f.Status))
	}
	if f.Priority != model.PriorityUnset {
		parts = append(parts, "priority:"+string(f.Priority))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, fmt.Sprintf("%q", q))
	}
	return strings.Join(parts, " ")
}

func (a *App) statusView() string {
	var parts []string
	if a.controller.Loading() {
		parts = append(parts, a.spinner.View()+" loading")
	}
	page := a.controller.Page()
	parts = append(parts, fmt.Sprintf("page %s • %d per page • %d total",
		a.paginator.View(), page.Size, a.controller.Total()))
	if a.snapshot != nil {
		parts = append(parts, a.snapshot.Summary())
	}
	status := HelpStyle.Render(strings.Join(parts, " │ "))
	if note := a.notifier.View(); note != "" {
		status += "  " + note
	}
	return status
}
