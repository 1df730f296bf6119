package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

const (
	fieldEmail = iota
	fieldPassword
	fieldDisplayName
)

// authForm holds the login and registration inputs. Both modes share the
// email and password fields; registration adds a display name.
type authForm struct {
	mode       authMode
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	displayName := textinput.New()
	displayName.Placeholder = "display name"

	return authForm{inputs: []textinput.Model{email, password, displayName}}
}

func (f *authForm) fieldCount() int {
	if f.mode == modeRegister {
		return 3
	}
	return 2
}

func (f *authForm) next() { f.setFocus((f.focus + 1) % f.fieldCount()) }
func (f *authForm) prev() { f.setFocus((f.focus + f.fieldCount() - 1) % f.fieldCount()) }

func (f *authForm) email() string       { return f.inputs[fieldEmail].Value() }
func (f *authForm) password() string    { return f.inputs[fieldPassword].Value() }
func (f *authForm) displayName() string { return f.inputs[fieldDisplayName].Value() }

func (f *authForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *authForm) toggleMode() {
	if f.mode == modeLogin {
		f.mode = modeRegister
	} else {
		f.mode = modeLogin
	}
	f.setFocus(0)
}

// reset clears the password between attempts, keeping the email.
func (f *authForm) reset() {
	f.inputs[fieldPassword].SetValue("")
	f.submitting = false
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *authForm) view() string {
	title := "Sign in to BookMind"
	action := "create an account"
	if f.mode == modeRegister {
		title = "Join BookMind"
		action = "sign in instead"
	}

	out := styles.title.Render(title) + "\n"
	for i := 0; i < f.fieldCount(); i++ {
		out += f.inputs[i].View() + "\n"
	}
	out += "\n" + styles.help.Render(fmt.Sprintf("tab next field • enter submit • ctrl+t %s • ctrl+c quit", action))
	return out
}

// ratingForm edits a score and review for one book. The score is set with
// the number keys; zero stars cannot be submitted.
type ratingForm struct {
	bookID string
	title  string
	score  int
	review textinput.Model
}

func newRatingForm(bookID, title string, score int, review string) *ratingForm {
	input := textinput.New()
	input.Placeholder = "write a review (optional)"
	input.SetValue(review)
	input.Focus()

	return &ratingForm{bookID: bookID, title: title, score: score, review: input}
}

func (f *ratingForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.review, cmd = f.review.Update(msg)
	return cmd
}

func (f *ratingForm) view() string {
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s",
		styles.title.Render("Rate "+f.title),
		stars(f.score),
		f.review.View(),
		styles.help.Render("1-5 set stars • enter submit • esc cancel"))
}
