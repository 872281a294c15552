package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/models"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const regradeBatchSize = 500

// RegradeChange is a submission whose stored result differs from the current
// answer key.
type RegradeChange struct {
	Submission *models.Submission
	// Correct is the result under the current answer key.
	Correct bool
}

// RegradeSummary counts the outcome of a regrade run.
type RegradeSummary struct {
	Total     int
	Changed   int
	Unchanged int
	Failed    int
}

// PreviewRegrade lists the submissions that a regrade would change. Nothing is written.
func (c *Context) PreviewRegrade(ctx context.Context) ([]RegradeChange, error) {
	if c.submissionService == nil {
		return nil, errors.New("submission service is not set")
	}

	submissions, err := c.allSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	var changes []RegradeChange
	for _, sub := range submissions {
		changed, err := c.submissionService.CheckRegrade(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("check submission %d: %w", sub.ID, err)
		}
		if changed {
			changes = append(changes, RegradeChange{Submission: sub, Correct: !sub.Correct})
		}
	}

	return changes, nil
}

// RegradeSubmissions grades every stored submission against the current
// answer keys and updates the changed ones.
func (c *Context) RegradeSubmissions(ctx context.Context) (*RegradeSummary, error) {
	if c.submissionService == nil {
		return nil, errors.New("submission service is not set")
	}

	submissions, err := c.allSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RegradeSummary{Total: len(submissions)}
	for _, sub := range submissions {
		changed, err := c.submissionService.Regrade(ctx, sub)
		switch {
		case err != nil:
			summary.Failed++
		case changed:
			summary.Changed++
		default:
			summary.Unchanged++
		}
	}

	return summary, nil
}

// RegradeSubmissionsTUI regrades every stored submission with a progress UI.
func (c *Context) RegradeSubmissionsTUI(ctx context.Context) error {
	if c.submissionService == nil {
		return errors.New("submission service is not set")
	}

	submissions, err := c.allSubmissions(ctx)
	if err != nil {
		return err
	}

	if len(submissions) == 0 {
		fmt.Println("No submissions found to regrade.")
		return nil
	}

	model := newRegradeModel(ctx, c, submissions)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	// the alt screen is gone once the program exits
	if m, ok := final.(*regradeModel); ok {
		fmt.Print(m.View())
	}

	return nil
}

// allSubmissions pages through every submission, oldest first.
func (c *Context) allSubmissions(ctx context.Context) ([]*models.Submission, error) {
	var (
		all     []*models.Submission
		afterID int
	)
	for {
		batch, err := c.store.ListSubmissions(ctx, store.SubmissionFilter{
			AfterID:   afterID,
			Ascending: true,
			Limit:     regradeBatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}

		all = append(all, batch...)
		if len(batch) < regradeBatchSize {
			return all, nil
		}
		afterID = batch[len(batch)-1].ID
	}
}

// regradeModel is the Bubble Tea model for the regrade progress UI
type regradeModel struct {
	ctx         context.Context
	cli         *Context
	submissions []*models.Submission
	index       int
	summary     RegradeSummary
	progress    progress.Model
	spinner     spinner.Model
	status      string
	done        bool
	mu          sync.Mutex
}

func newRegradeModel(ctx context.Context, c *Context, submissions []*models.Submission) *regradeModel {
	prog := progress.New(progress.WithScaledGradient("#FF7CCB", "#FDFF8C"))
	prog.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &regradeModel{
		ctx:         ctx,
		cli:         c,
		submissions: submissions,
		summary:     RegradeSummary{Total: len(submissions)},
		progress:    prog,
		spinner:     s,
		status:      "Initializing...",
	}
}

func (m *regradeModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.processNext(),
	)
}

func (m *regradeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" || m.done {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case regradeProgressMsg:
		m.mu.Lock()
		m.index++
		m.status = msg.Status
		switch {
		case msg.Err != nil:
			m.summary.Failed++
		case msg.Changed:
			m.summary.Changed++
		default:
			m.summary.Unchanged++
		}
		m.done = m.index >= len(m.submissions)
		m.mu.Unlock()

		if m.done {
			return m, tea.Quit
		}
		return m, m.processNext()

	default:
		return m, nil
	}
}

func (m *regradeModel) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	if m.done {
		var result string
		result += "\n"
		result += lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")).
			Render("✅ Regrade Complete!") + "\n\n"
		result += fmt.Sprintf("Total: %d\n", m.summary.Total)
		result += green.Render(fmt.Sprintf("Changed: %d", m.summary.Changed)) + "\n"
		result += fmt.Sprintf("Unchanged: %d\n", m.summary.Unchanged)
		if m.summary.Failed > 0 {
			result += red.Render(fmt.Sprintf("Failed: %d", m.summary.Failed)) + "\n"
		}
		return result
	}

	var s string
	s += "\n"
	s += lipgloss.NewStyle().Bold(true).Render("🔄 Regrading All Submissions") + "\n\n"

	percent := float64(m.index) / float64(len(m.submissions))
	s += fmt.Sprintf("Progress: %s %.1f%%\n", m.progress.ViewAs(percent), percent*100)
	s += "\n"

	s += m.spinner.View() + " " + m.status + "\n"
	s += "\n"

	s += fmt.Sprintf("Total: %d | ", m.summary.Total)
	s += green.Render(fmt.Sprintf("Changed: %d", m.summary.Changed))
	if m.summary.Failed > 0 {
		s += " | " + red.Render(fmt.Sprintf("Failed: %d", m.summary.Failed))
	}
	s += "\n\nPress 'q' to quit.\n"

	return s
}

type regradeProgressMsg struct {
	Changed bool
	Status  string
	Err     error
}

func (m *regradeModel) processNext() tea.Cmd {
	m.mu.Lock()
	sub := m.submissions[m.index]
	position := m.index + 1
	m.mu.Unlock()

	return func() tea.Msg {
		statusMsg := fmt.Sprintf("Regrading submission %d/%d (Question %d)...",
			position, len(m.submissions), sub.QuestionID)

		changed, err := m.cli.submissionService.Regrade(m.ctx, sub)
		if err != nil {
			return regradeProgressMsg{
				Status: fmt.Sprintf("Failed: %v", err),
				Err:    err,
			}
		}

		if changed {
			statusMsg += " changed"
		} else {
			statusMsg += " ✓"
		}
		return regradeProgressMsg{Changed: changed, Status: statusMsg}
	}
}
