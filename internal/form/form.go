package form

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/table"
)

// Builder turns a server-described task schema into a huh form and collects
// the entered values into the flat key→value map the executor expects.
type Builder struct {
	form     *huh.Form
	bindings map[string]*string
}

// Build constructs a form for the given schema. An empty schema yields a nil
// form: the caller should treat the task as input-free.
func Build(taskName string, schema *api.TaskSchema) (*Builder, error) {
	if schema == nil || len(schema.Fields) == 0 {
		return &Builder{bindings: map[string]*string{}}, nil
	}

	b := &Builder{bindings: make(map[string]*string, len(schema.Fields))}

	fields := make([]huh.Field, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		field, err := b.buildField(f)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	b.form = huh.NewForm(huh.NewGroup(fields...).Title(taskName))
	return b, nil
}

// buildField creates one typed input control
func (b *Builder) buildField(f api.Field) (huh.Field, error) {
	value := new(string)
	b.bindings[f.Name] = value

	title := table.Humanize(f.Name)

	switch f.Type {
	case "text":
		return huh.NewInput().
			Key(f.Name).
			Title(title).
			Placeholder(f.Placeholder).
			Value(value), nil

	case "password":
		return huh.NewInput().
			Key(f.Name).
			Title(title).
			Placeholder(f.Placeholder).
			EchoMode(huh.EchoModePassword).
			Value(value), nil

	case "select":
		options := make([]huh.Option[string], 0, len(f.Options))
		for _, opt := range f.Options {
			options = append(options, huh.NewOption(opt.Label, opt.Value))
		}
		return huh.NewSelect[string]().
			Key(f.Name).
			Title(title).
			Options(options...).
			Value(value).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("please select an option")
				}
				return nil
			}), nil

	case "textarea":
		return huh.NewText().
			Key(f.Name).
			Title(title).
			Placeholder(f.Placeholder).
			Value(value), nil

	default:
		return nil, errors.New(errors.ErrCodeSchemaFieldUnknown,
			fmt.Sprintf("unknown field type %q for field %q", f.Type, f.Name))
	}
}

// Empty reports whether the schema produced no input controls
func (b *Builder) Empty() bool {
	return b.form == nil
}

// Run presents the form and blocks until it is submitted or cancelled
func (b *Builder) Run() error {
	if b.form == nil {
		return nil
	}
	return b.form.Run()
}

// Values returns the collected field values as a flat map
func (b *Builder) Values() map[string]string {
	values := make(map[string]string, len(b.bindings))
	for name, v := range b.bindings {
		values[name] = *v
	}
	return values
}
