package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/browser"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/pipeline"
	"github.com/matheuskafuri/newsvoice/internal/speech"
)

const analyzeTimeout = 2 * time.Minute

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHome mode = iota
	modeLoading
	modeResult
	modeFilter
	modeHelp
)

type tab int

const (
	tabSummary tab = iota
	tabDetailed
	tabArticles
)

var tabNames = []string{"Summary", "Detailed Analysis", "Articles"}

// Analyzer runs the full pipeline for one company.
type Analyzer interface {
	Run(ctx context.Context, company string, opts pipeline.RunOpts) (*pipeline.Result, error)
}

// History lists previous runs.
type History interface {
	Runs(limit int) ([]cache.Run, error)
}

type App struct {
	analyzer Analyzer
	history  History
	synth    speech.Synthesizer
	audioDir string

	mode     mode
	prevMode mode
	tab      tab
	focus    focusPane

	width  int
	height int

	// Sub-components
	companyInput textinput.Model
	spinner      spinner.Model
	filterBar    filterBar

	languages    []speech.Language
	langCursor   int
	recent       []cache.Run
	recentCursor int

	// Result state
	digest        *analysis.Digest
	cached        bool
	fetchErrors   int
	cursor        int
	scroll        int
	previewScroll int
	savingAudio   bool
	status        string
	cancel        context.CancelFunc

	updateVersion string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Analyzer      Analyzer
	History       History
	Synth         speech.Synthesizer
	AudioDir      string
	Language      speech.Language
	Company       string
	UpdateVersion string
}

var openURL = browser.Open

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Tesla, Infosys, Reliance..."
	ti.CharLimit = 100
	ti.Prompt = ""
	ti.SetValue(opts.Company)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	langs := speech.Languages()
	langCursor := 0
	for i, l := range langs {
		if l.Code == opts.Language.Code {
			langCursor = i
		}
	}

	return &App{
		analyzer:      opts.Analyzer,
		history:       opts.History,
		synth:         opts.Synth,
		audioDir:      opts.AudioDir,
		companyInput:  ti,
		spinner:       sp,
		filterBar:     newFilterBar(),
		languages:     langs,
		langCursor:    langCursor,
		recentCursor:  -1,
		updateVersion: opts.UpdateVersion,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.loadRecentCmd()}
	if strings.TrimSpace(a.companyInput.Value()) != "" {
		cmds = append(cmds, a.startAnalysis(a.companyInput.Value(), false))
	}
	return tea.Batch(cmds...)
}

func (a *App) language() speech.Language {
	if a.langCursor < len(a.languages) {
		return a.languages[a.langCursor]
	}
	return speech.DefaultLanguage
}

func (a *App) loadRecentCmd() tea.Cmd {
	h := a.history
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		runs, err := h.Runs(maxRecent)
		if err != nil {
			return errMsg{err: err}
		}
		return recentLoadedMsg{runs: runs}
	}
}

// startAnalysis switches to the loading screen and runs the pipeline in the background.
func (a *App) startAnalysis(company string, refresh bool) tea.Cmd {
	company = strings.TrimSpace(company)
	if company == "" {
		a.err = pipeline.ErrEmptyCompany
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	a.cancel = cancel
	a.mode = modeLoading
	a.status = "Analyzing " + company

	analyzer := a.analyzer
	run := func() tea.Msg {
		defer cancel()
		res, err := analyzer.Run(ctx, company, pipeline.RunOpts{Refresh: refresh})
		if err != nil {
			return analysisErrMsg{err: err}
		}
		return analysisDoneMsg{result: res}
	}
	return tea.Batch(a.spinner.Tick, run)
}

func (a *App) saveAudioCmd() tea.Cmd {
	if a.digest == nil || a.synth == nil {
		return nil
	}
	a.savingAudio = true
	d, lang, synth, dir := a.digest, a.language(), a.synth, a.audioDir
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()
		out, err := speech.Render(ctx, synth, d, lang, dir)
		if err != nil {
			return errMsg{err: err}
		}
		return audioSavedMsg{out: out}
	})
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := openURL(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) visibleArticles() []analysis.Article {
	if a.digest == nil {
		return nil
	}
	return filterArticles(a.digest.Articles, a.filterBar.activeLabels())
}

func (a *App) selected() *analysis.Article {
	articles := a.visibleArticles()
	if a.cursor < len(articles) {
		return &articles[a.cursor]
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case recentLoadedMsg:
		a.recent = msg.runs
		return a, nil

	case analysisDoneMsg:
		a.cancel = nil
		a.digest = msg.result.Digest
		a.cached = msg.result.Cached
		a.fetchErrors = len(msg.result.FetchErrors)
		a.mode = modeResult
		a.tab = tabSummary
		a.cursor, a.scroll, a.previewScroll = 0, 0, 0
		a.filterBar = newFilterBar()
		a.status = ""
		return a, a.loadRecentCmd()

	case analysisErrMsg:
		a.cancel = nil
		a.mode = modeHome
		a.status = ""
		if !errors.Is(msg.err, context.Canceled) {
			a.err = msg.err
		}
		return a, nil

	case audioSavedMsg:
		a.savingAudio = false
		a.status = fmt.Sprintf("Saved %s audio to %s", msg.out.Language, msg.out.AudioPath)
		return a, nil

	case errMsg:
		a.savingAudio = false
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.mode == modeLoading || a.savingAudio {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.mode == modeHome {
		var cmd tea.Cmd
		a.companyInput, cmd = a.companyInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		if a.cancel != nil {
			a.cancel()
		}
		return a, tea.Quit
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeLoading:
		if msg.String() == "esc" && a.cancel != nil {
			a.cancel()
		}
		return a, nil
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc":
			a.mode = a.prevMode
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}
	return a.handleResultKey(msg)
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, tea.Quit
	case "tab":
		a.langCursor = (a.langCursor + 1) % len(a.languages)
		return a, nil
	case "shift+tab":
		a.langCursor = (a.langCursor + len(a.languages) - 1) % len(a.languages)
		return a, nil
	case "down":
		if a.recentCursor < min(len(a.recent), maxRecent)-1 {
			a.recentCursor++
			a.companyInput.Blur()
		}
		return a, nil
	case "up":
		if a.recentCursor >= 0 {
			a.recentCursor--
		}
		if a.recentCursor < 0 {
			return a, a.companyInput.Focus()
		}
		return a, nil
	case "enter":
		if a.recentCursor >= 0 && a.recentCursor < len(a.recent) {
			r := a.recent[a.recentCursor]
			return a, func() tea.Msg {
				return analysisDoneMsg{result: &pipeline.Result{Digest: r.Digest, Cached: true}}
			}
		}
		return a, a.startAnalysis(a.companyInput.Value(), false)
	}

	if a.recentCursor >= 0 {
		return a, nil
	}
	var cmd tea.Cmd
	a.companyInput, cmd = a.companyInput.Update(msg)
	return a, cmd
}

func (a *App) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.prevMode = a.mode
		a.mode = modeHelp
		return a, nil
	case "n", "h":
		a.mode = modeHome
		a.digest = nil
		a.status = ""
		a.recentCursor = -1
		a.companyInput.SetValue("")
		return a, tea.Batch(a.companyInput.Focus(), a.loadRecentCmd())
	case "r":
		if a.digest != nil {
			return a, a.startAnalysis(a.digest.Company, true)
		}
		return a, nil
	case "1", "2", "3":
		a.tab = tab(msg.String()[0] - '1')
		a.scroll = 0
		return a, nil
	case "right", "l":
		a.tab = (a.tab + 1) % tab(len(tabNames))
		a.scroll = 0
		return a, nil
	case "left":
		a.tab = (a.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		a.scroll = 0
		return a, nil
	case "L":
		a.langCursor = (a.langCursor + 1) % len(a.languages)
		return a, nil
	case "a":
		if a.savingAudio {
			return a, nil
		}
		return a, a.saveAudioCmd()
	}

	if a.tab != tabArticles {
		switch msg.String() {
		case "j", "down":
			a.scroll++
		case "k", "up":
			if a.scroll > 0 {
				a.scroll--
			}
		}
		return a, nil
	}

	articles := a.visibleArticles()
	switch msg.String() {
	case "j", "down":
		if a.focus == focusList {
			if a.cursor < len(articles)-1 {
				a.cursor++
				a.previewScroll = 0
			}
		} else {
			a.previewScroll++
		}
	case "k", "up":
		if a.focus == focusList {
			if a.cursor > 0 {
				a.cursor--
				a.previewScroll = 0
			}
		} else if a.previewScroll > 0 {
			a.previewScroll--
		}
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
	case "o", "enter":
		if art := a.selected(); art != nil && art.Link != "" {
			return a, openBrowserCmd(art.Link)
		}
	}
	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeResult
		a.filterBar.filterMode = false
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.labels)-1 {
			a.filterBar.filterCursor++
		}
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.cursor = 0
	case "1", "2", "3":
		a.filterBar.toggle(a.filterBar.labels[msg.String()[0]-'1'])
		a.cursor = 0
	}
	return a, nil
}

func (a *App) withBottomBar(content, left, hints string) string {
	bar := renderStatusBar(left, hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsvoice")
	}

	switch a.mode {
	case modeHome:
		errText := ""
		if a.err != nil {
			errText = a.err.Error()
		}
		home := renderHomeScreen(a.width, a.height, homeState{
			input:         a.companyInput.View(),
			languages:     a.languages,
			langCursor:    a.langCursor,
			recent:        a.recent,
			recentCursor:  a.recentCursor,
			updateVersion: a.updateVersion,
			errText:       errText,
		})
		return a.withBottomBar(home, "", "enter analyze  ↑/↓ recent  tab language  esc quit")
	case modeLoading:
		msg := a.spinner.View() + " " + a.status + "..."
		return a.withBottomBar(lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, msg), "", "esc cancel")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "", "? close  q quit")
	}

	return a.renderResult()
}

func (a *App) renderTabs() string {
	var parts []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == a.tab {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	row := strings.Join(parts, tabSeparatorStyle.Render(" · "))
	return lipgloss.NewStyle().Background(colorSurface).Width(a.width).PaddingLeft(1).Render(row)
}

func (a *App) renderResult() string {
	d := a.digest
	headerHeight := 1
	tabsHeight := 1
	statusHeight := 1
	contentHeight := max(a.height-headerHeight-tabsHeight-statusHeight, 3)

	headerLeft := headerStyle.Render("newsvoice · " + d.Company)
	meta := fmt.Sprintf("%d articles", len(d.Articles))
	if a.cached {
		meta += " · cached"
	}
	if a.fetchErrors > 0 {
		meta += fmt.Sprintf(" · %d sources failed", a.fetchErrors)
	}
	headerRight := headerMetaStyle.Render(meta + " ")
	headerGap := max(a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight), 0)
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	var body, hints string
	switch a.tab {
	case tabSummary:
		body = renderSummaryView(d, a.language(), a.width, contentHeight, a.scroll)
		hints = "L language  a audio  1-3 tabs  n new  r refresh  ? help"
	case tabDetailed:
		body = renderDetailedView(d, a.width, contentHeight, a.scroll)
		hints = "j/k scroll  1-3 tabs  n new  r refresh  ? help"
	case tabArticles:
		body = a.renderArticles(contentHeight - 1 - 4)
		hints = "o open  f filter  tab focus  1-3 tabs  n new  ? help"
		if a.mode == modeFilter {
			hints = "←/→ move  space toggle  esc done"
		}
	}

	left := a.language().Name
	if a.tab == tabArticles {
		left = fmt.Sprintf("%d shown · %s", len(a.visibleArticles()), a.filterBar.activeLabel())
	}
	if a.savingAudio {
		left = a.spinner.View() + " saving audio"
	} else if a.status != "" {
		left = a.status
	}
	status := renderStatusBar(left, hints, a.width)
	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, a.renderTabs(), body, status)
}

func (a *App) renderArticles(contentHeight int) string {
	contentHeight = max(contentHeight, 3)
	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	articles := a.visibleArticles()
	listContent := renderList(articles, a.cursor, contentHeight, listWidth-4)
	listStyle := listPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	previewContent := renderPreview(a.selected(), previewWidth-4, contentHeight, a.previewScroll)
	previewStyle := previewPaneStyle
	if a.focus == focusPreview {
		previewStyle = previewPaneActiveStyle
	}
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.filterBar.render(a.width),
		lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane),
	)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsvoice")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Tabs") + "\n" +
		"  1/2/3, ←/→    Summary, detailed analysis, articles\n" +
		"  j/k, ↑/↓      Scroll or move through articles\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article in browser\n" +
		"  a             Save spoken summary as audio\n" +
		"  L             Cycle speech language\n" +
		"  f             Filter articles by sentiment\n" +
		"  r             Re-run analysis ignoring cache\n" +
		"  n             Analyze another company\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
