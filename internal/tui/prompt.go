package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/taxiload/internal/tui/components"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Prompt field keys.
const (
	FieldHost     = "host"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldDatabase = "database"
	FieldFile     = "file"
)

// PromptValues are the values the interactive prompt edits.
type PromptValues struct {
	Host     string
	Username string
	Password string
	Database string
	FilePath string
}

// PromptModel asks for the connection parameters and the trip file.
type PromptModel struct {
	form   components.Form
	target string
}

// NewPromptModel prefills the form with initial. target names the database
// server kind in the title.
func NewPromptModel(initial PromptValues, target string) PromptModel {
	form := components.NewForm(
		fmt.Sprintf("Load taxi trips into %s", target),
		components.NewTextField(FieldHost, "Host", taxiload.DefaultHost).
			WithRequired(true).
			WithValue(initial.Host),
		components.NewTextField(FieldUsername, "User", taxiload.DefaultUser).
			WithRequired(true).
			WithValue(initial.Username),
		components.NewTextField(FieldPassword, "Password", "").
			WithPassword().
			WithValue(initial.Password),
		components.NewTextField(FieldDatabase, "Database", taxiload.DefaultDatabase).
			WithRequired(true).
			WithValue(initial.Database),
		components.NewTextField(FieldFile, "Trip file (.bz2)", "trip_data.csv.bz2").
			WithRequired(true).
			WithValidator(validateTripFile).
			WithCompleter(components.NewPathCompleter(components.WithSuffixes(".bz2"))).
			WithValue(initial.FilePath),
	)
	return PromptModel{form: form, target: target}
}

func validateTripFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found")
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// Init implements tea.Model.
func (m PromptModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.form.Update(msg)
	m.form = updated.(components.Form)
	return m, cmd
}

// View implements tea.Model.
func (m PromptModel) View() string {
	var b strings.Builder
	b.WriteString(BoxStyle.Render(m.form.View()))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("tab on the file field completes paths"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the submitted values, or ErrPromptCancelled.
func (m PromptModel) Result() (PromptValues, error) {
	if m.form.Cancelled() || !m.form.Submitted() {
		return PromptValues{}, taxiload.ErrPromptCancelled
	}
	v := m.form.Values()
	return PromptValues{
		Host:     v[FieldHost],
		Username: v[FieldUsername],
		Password: v[FieldPassword],
		Database: v[FieldDatabase],
		FilePath: v[FieldFile],
	}, nil
}

// RunPrompt shows the prompt on the terminal and blocks until it is submitted
// or cancelled.
func RunPrompt(initial PromptValues, target string) (PromptValues, error) {
	final, err := tea.NewProgram(NewPromptModel(initial, target)).Run()
	if err != nil {
		return PromptValues{}, fmt.Errorf("prompt: %w", err)
	}
	return final.(PromptModel).Result()
}
