package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/aoideee/bootstrap-forms/internal/books"
	"github.com/aoideee/bootstrap-forms/internal/data"
	"github.com/aoideee/bootstrap-forms/internal/forms"
)

// maxAttempts bounds how often invalid answers are asked again.
const maxAttempts = 3

var errAborted = errors.New("aborted")

type prompter interface {
	Input(message, help, def string) (string, error)
	Confirm(message, help string, def bool) (bool, error)
	Select(message, help string, options []string, def string) (string, error)
	Multiline(message, help, def string) (string, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() prompter { return surveyPrompter{} }

func (surveyPrompter) Input(message, help, def string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Input{Message: message, Help: help, Default: def}, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Confirm(message, help string, def bool) (bool, error) {
	var out bool
	err := survey.AskOne(&survey.Confirm{Message: message, Help: help, Default: def}, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Select(message, help string, options []string, def string) (string, error) {
	var out string
	prompt := &survey.Select{Message: message, Help: help, Options: options}
	if slices.Contains(options, def) {
		prompt.Default = def
	}
	err := survey.AskOne(prompt, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Multiline(message, help, def string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Multiline{Message: message, Help: help, Default: def}, &out)
	return out, translateSurveyErr(err)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

// askBook prompts for every field of the creation form and validates the
// answers with the same rules as the web form. Fields with errors are asked
// again, up to maxAttempts rounds.
func askBook(p prompter, out io.Writer) (*data.Book, error) {
	values := url.Values{}
	form := books.NewCreateForm(nil, nil)
	pending := form.Names()

	for attempt := 1; ; attempt++ {
		for _, name := range pending {
			if err := ask(p, form.Field(name), values); err != nil {
				return nil, err
			}
		}

		form = books.NewCreateForm(values, nil)
		if form.IsValid() {
			return form.Book(), nil
		}

		errs := form.Errors()
		for _, message := range errs[forms.NonFieldErrors] {
			fmt.Fprintf(out, "error: %s\n", message)
		}
		pending = pending[:0]
		for _, name := range form.Names() {
			for _, message := range errs[name] {
				fmt.Fprintf(out, "%s: %s\n", name, message)
			}
			if len(errs[name]) > 0 {
				pending = append(pending, name)
			}
		}
		if attempt == maxAttempts || len(pending) == 0 {
			return nil, errors.New("book is not valid")
		}
	}
}

// ask picks the prompt matching the field's widget and stores the answer in
// values the way a browser would submit it.
func ask(p prompter, bf *forms.BoundField, values url.Values) error {
	message := bf.Label()
	help := bf.HelpText()
	def := ""
	if v := bf.Value(); v != nil {
		def = fmt.Sprint(v)
	}

	switch bf.Field.Widget.Kind {
	case forms.WidgetCheckbox:
		checked, err := p.Confirm(message, help, def == "true")
		if err != nil {
			return err
		}
		if checked {
			values.Set(bf.Name, "on")
		} else {
			values.Del(bf.Name)
		}

	case forms.WidgetSelect:
		labels := make([]string, 0, len(bf.Field.Choices))
		defLabel := ""
		for _, c := range bf.Field.Choices {
			labels = append(labels, c.Label)
			if c.Value == def {
				defLabel = c.Label
			}
		}
		label, err := p.Select(message, help, labels, defLabel)
		if err != nil {
			return err
		}
		for _, c := range bf.Field.Choices {
			if c.Label == label {
				values.Set(bf.Name, c.Value)
			}
		}

	case forms.WidgetTextarea:
		text, err := p.Multiline(message, help, def)
		if err != nil {
			return err
		}
		values.Set(bf.Name, strings.TrimRight(text, "\n"))

	default:
		text, err := p.Input(message, help, def)
		if err != nil {
			return err
		}
		values.Set(bf.Name, text)
	}
	return nil
}
