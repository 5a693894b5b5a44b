// Package ui defines the contracts for presentational components.
// Handlers depend only on these interfaces; a concrete renderer is
// injected at composition time, so the core never knows how the
// markup is produced.
package ui

import "html/template"

// ButtonProps configures a button element.
type ButtonProps struct {
	Label    string
	Type     string // "submit" or "button"; defaults to "button"
	Variant  string // "primary", "danger", "secondary"
	Disabled bool
}

// InputProps configures a form input.
type InputProps struct {
	ID          string
	Name        string
	Type        string // defaults to "text"
	Value       string
	Placeholder string
	Required    bool
}

// LabelProps configures a form label.
type LabelProps struct {
	For  string
	Text string
}

// FormFieldProps pairs a label with an input and an optional
// validation message.
type FormFieldProps struct {
	Label LabelProps
	Input InputProps
	Error string
}

// UserFormValues holds the current values of the account form.
type UserFormValues struct {
	Username string
	Email    string
}

// UserFormProps configures the registration/profile form. ShowPassword
// controls whether the password field is rendered (registration yes,
// profile edit no).
type UserFormProps struct {
	Action       string
	Values       UserFormValues
	Errors       map[string]string
	SubmitLabel  string
	ShowPassword bool
	CSRFToken    string
}

// UserCardProps configures a single row/card in the user listing.
type UserCardProps struct {
	UserID    string
	Username  string
	Email     string
	CreatedAt string
	DeleteURL string // empty hides the delete control
	CSRFToken string
}

// ConfirmDialogProps configures a confirmation dialog wrapping a
// destructive form submission.
type ConfirmDialogProps struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Action       string
	CSRFToken    string
}

// Components renders the presentational pieces of the application.
type Components interface {
	Button(ButtonProps) template.HTML
	Input(InputProps) template.HTML
	Label(LabelProps) template.HTML
	FormField(FormFieldProps) template.HTML
	UserForm(UserFormProps) template.HTML
	UserCard(UserCardProps) template.HTML
	ConfirmDialog(ConfirmDialogProps) template.HTML
}
