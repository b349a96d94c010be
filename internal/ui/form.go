package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formResultMsg reports the outcome of a login or register submission
type formResultMsg struct {
	register bool
	err      error
}

type formView struct {
	register   bool
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newFormView(register bool) formView {
	labels := []string{"Username", "Password"}
	if register {
		labels = append(labels, "Confirm Password")
	}

	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 32
		if i > 0 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}

	return formView{register: register, inputs: inputs}
}

func (v *formView) focusCmd() tea.Cmd {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	return v.inputs[v.focus].Focus()
}

func (v formView) value(i int) string {
	if i >= len(v.inputs) {
		return ""
	}
	return v.inputs[i].Value()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}

	if m.form.submitting {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m.navigate(pageProducts)
	case "tab", "down":
		m.form.focus = (m.form.focus + 1) % len(m.form.inputs)
		cmd := m.form.focusCmd()
		return m, cmd
	case "shift+tab", "up":
		m.form.focus = (m.form.focus - 1 + len(m.form.inputs)) % len(m.form.inputs)
		cmd := m.form.focusCmd()
		return m, cmd
	case "enter":
		m.form.submitting = true
		return m, m.submitForm(m.form)
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(key)
	return m, cmd
}

func (m Model) submitForm(form formView) tea.Cmd {
	username := form.value(0)
	password := form.value(1)
	confirm := form.value(2)

	if form.register {
		return func() tea.Msg {
			return formResultMsg{register: true, err: m.store.Register(m.ctx, username, password, confirm)}
		}
	}
	return func() tea.Msg {
		return formResultMsg{err: m.store.Login(m.ctx, username, password)}
	}
}

// handleFormResult moves on after a successful submission: a new account
// goes to the login form, a login goes back to the products page
func (m Model) handleFormResult(msg formResultMsg) (tea.Model, tea.Cmd) {
	m.form.submitting = false
	if msg.err != nil {
		return m, nil
	}
	if msg.register {
		return m.navigate(pageLogin)
	}
	return m.navigate(pageProducts)
}

func (m Model) viewForm() string {
	var sb strings.Builder

	title := "Login"
	action := "LOGIN TO QKART"
	if m.form.register {
		title = "Register"
		action = "REGISTER NOW"
	}

	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n\n")

	for i, in := range m.form.inputs {
		label := in.Placeholder
		if i == m.form.focus {
			label = m.styles.FocusLabel.Render(label)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(m.styles.Panel.Render(in.View()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.form.submitting {
		sb.WriteString(m.products.spinner.View() + " Please wait...")
	} else {
		sb.WriteString(m.styles.Selected.Render("[enter] " + action))
	}
	sb.WriteString("\n\n")

	if m.form.register {
		sb.WriteString(m.styles.Help.Render("Already have an account? Login here  [esc] Back to explore"))
	} else {
		sb.WriteString(m.styles.Help.Render("Don't have an account? Register now  [esc] Back to explore"))
	}
	return sb.String()
}
