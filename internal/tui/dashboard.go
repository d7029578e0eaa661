package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/facebookgo/clock"

	"github.com/chazuruo/spurdeck/internal/dashboard"
	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

type pane int

const (
	paneWorkflows pane = iota
	panePaused
	paneTemplates
	paneCount
)

type mode int

const (
	modeBrowse mode = iota
	modeImport
	modeConfirmDelete
	modeConfirmCancel
	modeDecision
)

const welcomeText = "Welcome to spurdeck! Press n to create your first workflow or pick a template below. (w to dismiss)"

type tickMsg time.Time

type mountedMsg struct{ err error }

type opDoneMsg struct {
	op  string
	wf  *spurs.Workflow
	err error
}

var (
	workflowColumns = []table.Column{
		{Title: "", Width: 1},
		{Title: "ID", Width: 12},
		{Title: "Name", Width: 32},
		{Title: "Type", Width: 8},
		{Title: "Recent Runs", Width: 30},
		{Title: "Last Modified", Width: 20},
	}
	pausedColumns = []table.Column{
		{Title: "Run", Width: 12},
		{Title: "Workflow", Width: 24},
		{Title: "Message", Width: 40},
		{Title: "Paused", Width: 20},
	}
)

// DashboardOptions configures a DashboardModel.
type DashboardOptions struct {
	// Clock is used to render ages. Defaults to the wall clock.
	Clock clock.Clock
	// Refresh is the repaint interval for timer driven changes.
	Refresh time.Duration
	// Theme is "default" or "mono".
	Theme string
	// ShowHelp renders the key help footer.
	ShowHelp bool
	// EditorLink returns the editor URL for a workflow id, or "".
	EditorLink func(workflowID string) string
}

// DashboardModel is the Bubble Tea model for the spurdeck dashboard.
type DashboardModel struct {
	ctx     context.Context
	dash    *dashboard.Dashboard
	clock   clock.Clock
	refresh time.Duration
	styles  Styles
	help    bool
	link    func(string) string

	focus     pane
	mode      mode
	workflows table.Model
	paused    table.Model
	tmplIdx   int
	spinner   spinner.Model
	input     textinput.Model
	form      *huh.Form
	decision  *DecisionInput

	pendingWorkflow spurs.Workflow
	pendingPaused   spurs.PausedWorkflow

	busy   int
	status string
	width  int
	height int
	quit   bool

	wfSnap    dashboard.WorkflowsSnapshot
	pausedSnp dashboard.PausedSnapshot
	tmplSnap  dashboard.TemplatesSnapshot
	keys      dashboard.KeyStatus
	alert     dashboard.Notification
	alertOn   bool
}

// NewDashboardModel creates the dashboard model for d. Closing the model
// with q closes d.
func NewDashboardModel(ctx context.Context, d *dashboard.Dashboard, opts DashboardOptions) DashboardModel {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Refresh <= 0 {
		opts.Refresh = 500 * time.Millisecond
	}
	if opts.EditorLink == nil {
		opts.EditorLink = func(string) string { return "" }
	}
	styles := NewStyles(opts.Theme)

	wt := table.New(
		table.WithColumns(workflowColumns),
		table.WithHeight(8),
		table.WithFocused(true),
		table.WithStyles(styles.Table(true)),
	)
	pt := table.New(
		table.WithColumns(pausedColumns),
		table.WithHeight(5),
		table.WithStyles(styles.Table(false)),
	)

	ti := textinput.New()
	ti.Prompt = "Import file: "
	ti.Placeholder = "path/to/spur.json"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return DashboardModel{
		ctx:       ctx,
		dash:      d,
		clock:     opts.Clock,
		refresh:   opts.Refresh,
		styles:    styles,
		help:      opts.ShowHelp,
		link:      opts.EditorLink,
		workflows: wt,
		paused:    pt,
		input:     ti,
		spinner:   sp,
		busy:      1,
		width:     100,
		height:    40,
	}
}

// RunDashboard runs the dashboard until the user quits or ctx ends, then
// closes d.
func RunDashboard(ctx context.Context, d *dashboard.Dashboard, opts DashboardOptions) error {
	defer d.Close()
	m := NewDashboardModel(ctx, d, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// DidQuit reports whether the user quit.
func (m DashboardModel) DidQuit() bool {
	return m.quit
}

// Init mounts the dashboard and starts the repaint tick.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.mount(), m.tick())
}

// Update updates the dashboard model.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.mode == modeDecision {
			return m.updateDecision(msg)
		}
		return m, nil

	case tickMsg:
		if m.quit {
			return m, nil
		}
		m.spinner, _ = m.spinner.Update(m.spinner.Tick())
		m.sync()
		return m, m.tick()

	case mountedMsg:
		m.done()
		m.sync()
		return m, nil

	case opDoneMsg:
		m.done()
		m.finish(msg)
		return m, nil
	}

	if m.mode == modeDecision {
		return m.updateDecision(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m DashboardModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeImport:
		return m.handleImportKey(key)
	case modeConfirmDelete, modeConfirmCancel:
		return m.handleConfirmKey(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.quit = true
		m.dash.Close()
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % paneCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + paneCount - 1) % paneCount)
		return m, nil
	case "n":
		return m.start(m.call("create", func(ctx context.Context) (*spurs.Workflow, error) {
			return m.dash.Workflows.Create(ctx, spurs.SpurTypeWorkflow)
		}))
	case "N":
		return m.start(m.call("create", func(ctx context.Context) (*spurs.Workflow, error) {
			return m.dash.Workflows.Create(ctx, spurs.SpurTypeChatbot)
		}))
	case "i":
		m.mode = modeImport
		return m, m.input.Focus()
	case "m":
		return m.start(m.exec("load more", m.dash.Workflows.LoadMore))
	case "r":
		return m.start(m.exec("reload", func(ctx context.Context) error {
			return errors.Join(m.dash.Workflows.Load(ctx), m.dash.Paused.Refresh(ctx))
		}))
	case "w":
		if err := m.dash.Workflows.DismissWelcome(); err != nil {
			m.dash.Notifier.Notify(dashboard.MsgWelcomeSaveFailed, dashboard.SeverityWarning)
		}
		m.sync()
		return m, nil
	}

	switch m.focus {
	case paneWorkflows:
		return m.handleWorkflowKey(key)
	case panePaused:
		return m.handlePausedKey(key)
	default:
		return m.handleTemplateKey(key)
	}
}

func (m DashboardModel) handleWorkflowKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "d":
		wf, ok := m.selectedWorkflow()
		if !ok {
			return m, nil
		}
		return m.start(m.call("duplicate", func(ctx context.Context) (*spurs.Workflow, error) {
			return m.dash.Workflows.Duplicate(ctx, wf.ID)
		}))
	case "x":
		wf, ok := m.selectedWorkflow()
		if !ok {
			return m, nil
		}
		m.pendingWorkflow = wf
		m.mode = modeConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.workflows, cmd = m.workflows.Update(key)
	return m, cmd
}

func (m DashboardModel) handlePausedKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	pw, ok := m.selectedPaused()

	switch key.String() {
	case "a", "z":
		if !ok {
			return m, nil
		}
		action := spurs.ActionApprove
		if key.String() == "z" {
			action = spurs.ActionDecline
		}
		return m.start(m.exec("quick decision", func(ctx context.Context) error {
			return m.dash.Paused.QuickDecision(ctx, pw, action)
		}))
	case "c":
		if !ok {
			return m, nil
		}
		m.pendingPaused = pw
		m.mode = modeConfirmCancel
		return m, nil
	case "enter":
		if !ok {
			return m, nil
		}
		return m.openDecision(pw)
	}

	var cmd tea.Cmd
	m.paused, cmd = m.paused.Update(key)
	return m, cmd
}

func (m DashboardModel) handleTemplateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.tmplSnap.Templates)
	switch key.String() {
	case "up", "k":
		if m.tmplIdx > 0 {
			m.tmplIdx--
		}
	case "down", "j":
		if m.tmplIdx < n-1 {
			m.tmplIdx++
		}
	case "enter":
		if m.tmplIdx >= n {
			return m, nil
		}
		tmpl := m.tmplSnap.Templates[m.tmplIdx]
		return m.start(m.call("template", func(ctx context.Context) (*spurs.Workflow, error) {
			return m.dash.Templates.Use(ctx, tmpl)
		}))
	}
	return m, nil
}

func (m DashboardModel) handleImportKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		path := m.input.Value()
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m.start(m.call("import", func(ctx context.Context) (*spurs.Workflow, error) {
			return m.dash.Workflows.ImportFile(ctx, path)
		}))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m DashboardModel) handleConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y":
		confirming := m.mode
		m.mode = modeBrowse
		if confirming == modeConfirmDelete {
			wf := m.pendingWorkflow
			return m.start(m.exec("delete", func(ctx context.Context) error {
				return m.dash.Workflows.Delete(ctx, wf, dashboard.AlwaysConfirm)
			}))
		}
		pw := m.pendingPaused
		return m.start(m.exec("cancel", func(ctx context.Context) error {
			return m.dash.Paused.Cancel(ctx, pw, dashboard.AlwaysConfirm)
		}))
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m DashboardModel) openDecision(pw spurs.PausedWorkflow) (tea.Model, tea.Cmd) {
	m.decision = &DecisionInput{}
	m.form = NewDecisionForm(pw, m.decision)
	m.pendingPaused = pw
	m.mode = modeDecision
	m.dash.Paused.Open(pw)
	return m, m.form.Init()
}

func (m DashboardModel) updateDecision(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m.abortDecision(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.abortDecision(), nil
	case huh.StateCompleted:
		return m.submitDecision()
	}
	return m, cmd
}

func (m DashboardModel) abortDecision() DashboardModel {
	m.mode = modeBrowse
	m.form = nil
	m.decision = nil
	m.dash.Paused.CloseDialog()
	return m
}

func (m DashboardModel) submitDecision() (tea.Model, tea.Cmd) {
	in := *m.decision
	pw := m.pendingPaused
	m.mode = modeBrowse
	m.form = nil
	m.decision = nil

	action, inputs, err := in.Parse()
	if err != nil {
		m.dash.Notifier.Notify("Invalid decision: "+err.Error(), dashboard.SeverityDanger)
		m.dash.Paused.CloseDialog()
		m.sync()
		return m, nil
	}

	return m.start(m.exec("resume", func(ctx context.Context) error {
		return m.dash.Paused.DetailedDecision(ctx, pw, action, inputs, in.Comments)
	}))
}

func (m DashboardModel) mount() tea.Cmd {
	ctx, d := m.ctx, m.dash
	return func() tea.Msg {
		return mountedMsg{err: d.Mount(ctx)}
	}
}

func (m DashboardModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m DashboardModel) call(op string, fn func(ctx context.Context) (*spurs.Workflow, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		wf, err := fn(ctx)
		return opDoneMsg{op: op, wf: wf, err: err}
	}
}

func (m DashboardModel) exec(op string, fn func(ctx context.Context) error) tea.Cmd {
	return m.call(op, func(ctx context.Context) (*spurs.Workflow, error) {
		return nil, fn(ctx)
	})
}

func (m DashboardModel) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy++
	return m, cmd
}

func (m *DashboardModel) done() {
	if m.busy > 0 {
		m.busy--
	}
}

func (m *DashboardModel) finish(msg opDoneMsg) {
	switch {
	case msg.err == nil && msg.wf != nil:
		m.status = m.createdStatus(msg.op, msg.wf)
	case msg.err != nil && !deckerrors.IsCanceled(msg.err) && !deckerrors.IsDisposed(msg.err):
		m.status = ""
	}
	m.sync()
}

func (m DashboardModel) createdStatus(op string, wf *spurs.Workflow) string {
	var text string
	switch op {
	case "duplicate":
		text = fmt.Sprintf("Duplicated as %q", wf.Name)
	case "import":
		text = fmt.Sprintf("Imported %q", wf.Name)
	case "template":
		text = fmt.Sprintf("Created %q from template", wf.Name)
	default:
		text = fmt.Sprintf("Created %q", wf.Name)
	}
	if link := m.link(wf.ID); link != "" {
		text += ": " + link
	}
	return text
}

// sync re-reads every controller snapshot.
func (m *DashboardModel) sync() {
	m.wfSnap = m.dash.Workflows.Snapshot()
	m.pausedSnp = m.dash.Paused.Snapshot()
	m.tmplSnap = m.dash.Templates.Snapshot()
	m.keys = m.dash.APIKeys.Status()
	m.alert, m.alertOn = m.dash.Notifier.Current()

	m.workflows.SetRows(m.workflowRows())
	m.paused.SetRows(m.pausedRows())
	if m.tmplIdx >= len(m.tmplSnap.Templates) {
		m.tmplIdx = max(len(m.tmplSnap.Templates)-1, 0)
	}
}

func (m *DashboardModel) setFocus(p pane) {
	m.focus = p
	m.workflows.Blur()
	m.paused.Blur()
	m.workflows.SetStyles(m.styles.Table(p == paneWorkflows))
	m.paused.SetStyles(m.styles.Table(p == panePaused))
	switch p {
	case paneWorkflows:
		m.workflows.Focus()
	case panePaused:
		m.paused.Focus()
	}
}

func (m DashboardModel) selectedWorkflow() (spurs.Workflow, bool) {
	i := m.workflows.Cursor()
	if i < 0 || i >= len(m.wfSnap.Workflows) {
		return spurs.Workflow{}, false
	}
	return m.wfSnap.Workflows[i], true
}

func (m DashboardModel) selectedPaused() (spurs.PausedWorkflow, bool) {
	i := m.paused.Cursor()
	if i < 0 || i >= len(m.pausedSnp.Paused) {
		return spurs.PausedWorkflow{}, false
	}
	return m.pausedSnp.Paused[i], true
}

func (m DashboardModel) workflowRows() []table.Row {
	now := m.clock.Now()
	rows := make([]table.Row, len(m.wfSnap.Workflows))
	for i, wf := range m.wfSnap.Workflows {
		marker := ""
		if wf.ID != "" && wf.ID == m.wfSnap.Highlighted {
			marker = "*"
		}
		rows[i] = table.Row{
			marker,
			Truncate(wf.ID, 12),
			Truncate(wf.Name, 32),
			wf.SpurType().Label(),
			Truncate(RunSummary(m.wfSnap.RunsFor(wf.ID)), 30),
			Ago(now, wf.UpdatedAt),
		}
	}
	return rows
}

func (m DashboardModel) pausedRows() []table.Row {
	now := m.clock.Now()
	rows := make([]table.Row, len(m.pausedSnp.Paused))
	for i, pw := range m.pausedSnp.Paused {
		name := pw.Workflow.Name
		if name == "" {
			name = pw.Run.WorkflowID
		}
		rows[i] = table.Row{
			Truncate(pw.RunID(), 12),
			Truncate(name, 24),
			Truncate(pw.CurrentPause.Message, 40),
			Ago(now, pw.CurrentPause.PauseTime),
		}
	}
	return rows
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder

	title := m.styles.Title.Render("spurdeck")
	if m.busy > 0 || m.wfSnap.Loading || m.wfSnap.LoadingMore || m.pausedSnp.Loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.keys.Missing() {
		b.WriteString(m.styles.Warning.Render(dashboard.MsgNoAPIKeys))
		b.WriteString("\n\n")
	}
	if m.wfSnap.ShowWelcome {
		b.WriteString(m.styles.Welcome.Render(welcomeText))
		b.WriteString("\n\n")
	}
	if m.alertOn {
		b.WriteString(m.styles.Alert(m.alert.Severity).Render(m.alert.Message))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteString("\n\n")
	}

	if m.mode == modeDecision && m.form != nil {
		b.WriteString(m.styles.Section.Render("Resume Workflow"))
		b.WriteString("\n")
		b.WriteString(m.form.View())
		return b.String()
	}

	b.WriteString(m.sectionTitle("Recent Spurs", paneWorkflows))
	b.WriteString("\n")
	if len(m.wfSnap.Workflows) == 0 && m.wfSnap.Loaded {
		b.WriteString(m.styles.Muted.Render("No spurs yet."))
	} else {
		b.WriteString(m.workflows.View())
	}
	b.WriteString("\n")
	if m.wfSnap.Cursor.HasMore {
		b.WriteString(m.styles.Muted.Render("More spurs available (m to load more)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.sectionTitle("Awaiting Approval", panePaused))
	b.WriteString("\n")
	if len(m.pausedSnp.Paused) == 0 {
		b.WriteString(m.styles.Muted.Render("Nothing is waiting on you."))
	} else {
		b.WriteString(m.paused.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.sectionTitle("Templates", paneTemplates))
	b.WriteString("\n")
	b.WriteString(m.renderTemplates())
	b.WriteString("\n")

	switch m.mode {
	case modeImport:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(m.styles.Prompt.Render(fmt.Sprintf("Delete workflow %q? (y/n)", m.pendingWorkflow.Name)))
		b.WriteString("\n")
	case modeConfirmCancel:
		b.WriteString("\n")
		b.WriteString(m.styles.Prompt.Render(fmt.Sprintf("Cancel run %s? This action cannot be undone. (y/n)", m.pendingPaused.RunID())))
		b.WriteString("\n")
	}

	if m.help {
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(m.helpText()))
	}

	return b.String()
}

func (m DashboardModel) sectionTitle(title string, p pane) string {
	if m.focus == p {
		return m.styles.Section.Render("> " + title)
	}
	return m.styles.Section.Render("  " + title)
}

func (m DashboardModel) renderTemplates() string {
	if len(m.tmplSnap.Templates) == 0 {
		return m.styles.Muted.Render("No templates.")
	}

	var b strings.Builder
	for i, t := range m.tmplSnap.Templates {
		line := t.Name
		if t.Description != "" {
			line += " - " + Truncate(t.Description, 60)
		}
		if m.focus == paneTemplates && i == m.tmplIdx {
			b.WriteString(m.styles.Highlight.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m DashboardModel) helpText() string {
	switch m.focus {
	case panePaused:
		return "tab focus • a approve • z decline • enter decide • c cancel • r reload • q quit"
	case paneTemplates:
		return "tab focus • ↑/↓ select • enter use template • q quit"
	default:
		return "tab focus • n/N new workflow/chatbot • i import • d duplicate • x delete • m more • r reload • w dismiss • q quit"
	}
}
