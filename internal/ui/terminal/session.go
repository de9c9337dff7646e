package terminal

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// serviceActions routes model commands to one player's session on the quiz service.
type serviceActions struct {
	ctx      context.Context
	service  *app.QuizService
	observer *Observer
	playerID string
	setID    string
}

func (a *serviceActions) Select(key domain.OptionKey) error {
	return a.service.Select(a.playerID, key)
}

func (a *serviceActions) Submit() error {
	return a.service.Submit(a.playerID, domain.OptionNone)
}

func (a *serviceActions) Previous() error {
	return a.service.Previous(a.playerID)
}

func (a *serviceActions) Restart() error {
	_, err := a.service.Start(a.ctx, a.playerID, a.setID, a.observer)
	return err
}

// PlayOptions configures Play.
type PlayOptions struct {
	PlayerID string
	SetID    string
	Title    string
	NoColor  bool
	Output   io.Writer
	Input    io.Reader
}

// Play starts a session on service and runs the terminal UI until the player quits.
func Play(ctx context.Context, service *app.QuizService, countdown int, opts PlayOptions) error {
	observer := NewObserver()
	actions := &serviceActions{ctx: ctx, service: service, observer: observer, playerID: opts.PlayerID, setID: opts.SetID}
	controller, err := service.Start(ctx, opts.PlayerID, opts.SetID, observer)
	if err != nil {
		observer.Close()
		return err
	}

	title := opts.Title
	if title == "" {
		title = "Quiz: " + opts.SetID
	}
	model := NewModel(observer.Events(), actions, Options{
		Title:     title,
		Total:     controller.State().Total,
		Countdown: countdown,
		NoColor:   opts.NoColor,
	})

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	programOpts := []tea.ProgramOption{tea.WithOutput(output), tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	_, err = tea.NewProgram(model, programOpts...).Run()

	// Unblock the presenter before abandoning whichever restart is live.
	observer.Close()
	service.Leave(opts.PlayerID)
	return err
}
