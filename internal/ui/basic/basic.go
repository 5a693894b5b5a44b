// Package basic is the built-in server-side renderer for the ui
// component contracts.
package basic

import (
	"bytes"
	"html/template"

	"github.com/kanriapp/kanri/internal/ui"
)

// Renderer implements ui.Components with plain html/template markup.
type Renderer struct {
	templates *template.Template
}

// New parses the component templates.
func New() (*Renderer, error) {
	tpl, err := template.New("components").Parse(componentTemplates)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tpl}, nil
}

// MustNew is New for composition roots where a parse failure is a
// programming error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) render(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// Button renders a button element.
func (r *Renderer) Button(p ui.ButtonProps) template.HTML {
	if p.Type == "" {
		p.Type = "button"
	}
	if p.Variant == "" {
		p.Variant = "primary"
	}
	return r.render("button", p)
}

// Input renders a form input.
func (r *Renderer) Input(p ui.InputProps) template.HTML {
	if p.Type == "" {
		p.Type = "text"
	}
	if p.ID == "" {
		p.ID = p.Name
	}
	return r.render("input", p)
}

// Label renders a form label.
func (r *Renderer) Label(p ui.LabelProps) template.HTML {
	return r.render("label", p)
}

// FormField renders a label, input and optional error message.
func (r *Renderer) FormField(p ui.FormFieldProps) template.HTML {
	return r.render("formfield", formFieldData{
		Label: r.Label(p.Label),
		Input: r.Input(p.Input),
		Error: p.Error,
	})
}

// UserForm renders the registration/profile form.
func (r *Renderer) UserForm(p ui.UserFormProps) template.HTML {
	fields := []template.HTML{
		r.FormField(ui.FormFieldProps{
			Label: ui.LabelProps{For: "username", Text: "ユーザー名"},
			Input: ui.InputProps{Name: "username", Value: p.Values.Username, Required: true},
			Error: p.Errors["username"],
		}),
		r.FormField(ui.FormFieldProps{
			Label: ui.LabelProps{For: "email", Text: "メールアドレス"},
			Input: ui.InputProps{Name: "email", Type: "email", Value: p.Values.Email, Required: true},
			Error: p.Errors["email"],
		}),
	}
	if p.ShowPassword {
		fields = append(fields, r.FormField(ui.FormFieldProps{
			Label: ui.LabelProps{For: "password", Text: "パスワード"},
			Input: ui.InputProps{Name: "password", Type: "password", Required: true},
			Error: p.Errors["password"],
		}))
	}
	return r.render("userform", userFormData{
		Action:    p.Action,
		Fields:    fields,
		General:   p.Errors["general"],
		Submit:    r.Button(ui.ButtonProps{Label: p.SubmitLabel, Type: "submit"}),
		CSRFToken: p.CSRFToken,
	})
}

// UserCard renders one user row with an optional delete control.
func (r *Renderer) UserCard(p ui.UserCardProps) template.HTML {
	data := userCardData{UserCardProps: p}
	if p.DeleteURL != "" {
		data.Dialog = r.ConfirmDialog(ui.ConfirmDialogProps{
			Title:        "ユーザーの削除",
			Message:      p.Username + " を削除します。この操作は取り消せません。",
			ConfirmLabel: "削除",
			CancelLabel:  "キャンセル",
			Action:       p.DeleteURL,
			CSRFToken:    p.CSRFToken,
		})
	}
	return r.render("usercard", data)
}

// ConfirmDialog renders a details-based confirmation around a
// destructive form post.
func (r *Renderer) ConfirmDialog(p ui.ConfirmDialogProps) template.HTML {
	return r.render("confirmdialog", confirmDialogData{
		ConfirmDialogProps: p,
		Confirm:            r.render("button", ui.ButtonProps{Label: p.ConfirmLabel, Type: "submit", Variant: "danger"}),
	})
}

type formFieldData struct {
	Label template.HTML
	Input template.HTML
	Error string
}

type userFormData struct {
	Action    string
	Fields    []template.HTML
	General   string
	Submit    template.HTML
	CSRFToken string
}

type userCardData struct {
	ui.UserCardProps
	Dialog template.HTML
}

type confirmDialogData struct {
	ui.ConfirmDialogProps
	Confirm template.HTML
}

const componentTemplates = `
{{define "button"}}<button type="{{.Type}}" class="btn btn-{{.Variant}}"{{if .Disabled}} disabled{{end}}>{{.Label}}</button>{{end}}

{{define "input"}}<input id="{{.ID}}" name="{{.Name}}" type="{{.Type}}" value="{{.Value}}"{{if .Placeholder}} placeholder="{{.Placeholder}}"{{end}}{{if .Required}} required{{end}} class="input">{{end}}

{{define "label"}}<label for="{{.For}}" class="label">{{.Text}}</label>{{end}}

{{define "formfield"}}<div class="form-field">{{.Label}}{{.Input}}{{if .Error}}<p class="field-error">{{.Error}}</p>{{end}}</div>{{end}}

{{define "userform"}}<form method="post" action="{{.Action}}" class="user-form">
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
{{if .General}}<p class="form-error">{{.General}}</p>{{end}}
{{range .Fields}}{{.}}{{end}}
{{.Submit}}
</form>{{end}}

{{define "usercard"}}<div class="user-card" data-user-id="{{.UserID}}">
<p class="user-card-name">{{.Username}}</p>
<p class="user-card-email">{{.Email}}</p>
<p class="user-card-created">{{.CreatedAt}}</p>
{{if .Dialog}}{{.Dialog}}{{end}}
</div>{{end}}

{{define "confirmdialog"}}<details class="confirm-dialog">
<summary class="btn btn-danger">削除</summary>
<div class="confirm-dialog-body">
<p class="confirm-dialog-title">{{.Title}}</p>
<p>{{.Message}}</p>
<form method="post" action="{{.Action}}">
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
{{.Confirm}}
</form>
<button type="button" class="btn btn-secondary">{{.CancelLabel}}</button>
</div>
</details>{{end}}
`

var _ ui.Components = (*Renderer)(nil)
