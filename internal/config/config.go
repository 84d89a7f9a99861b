// Package config loads form definitions: a list of parameter widgets with
// their bounds and initial values, read from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FormPathEnv overrides the default form file location.
	FormPathEnv = "MEGAWIDGET_FORM"
	// DefaultFormFile is looked up under the user's config directory.
	DefaultFormFile = "megawidget/form.yaml"
)

// Widget types.
const (
	TypeSpinner   = "spinner"
	TypeRange     = "range"
	TypeTimeScale = "timescale"
	TypeTimeDelta = "timedelta"
)

var (
	ErrNoWidgets     = errors.New("config: form has no widgets")
	ErrMissingField  = errors.New("config: required field missing")
	ErrUnknownType   = errors.New("config: unknown widget type")
	ErrDuplicateName = errors.New("config: duplicate widget name")
	ErrBadTime       = errors.New("config: unparseable time")
)

// Form is the top-level document.
type Form struct {
	Title string `yaml:"title"`
	// SendEveryChange is the default for widgets that don't set their own.
	SendEveryChange bool         `yaml:"sendEveryChange"`
	Widgets         []WidgetSpec `yaml:"widgets"`
}

// WidgetSpec declares one widget. Numeric fields hold whatever YAML
// produced (int, float64 or string) and are coerced to the widget's
// numeric kind when it is built. Time scales take timestamps and
// durations as strings; time deltas take durations.
type WidgetSpec struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Label string `yaml:"label,omitempty"`
	Kind  string `yaml:"kind,omitempty"`

	Min   interface{} `yaml:"min,omitempty"`
	Max   interface{} `yaml:"max,omitempty"`
	Value interface{} `yaml:"value,omitempty"`
	Lower interface{} `yaml:"lower,omitempty"`
	Upper interface{} `yaml:"upper,omitempty"`

	MinimumInterval interface{} `yaml:"minimumInterval,omitempty"`
	Increment       interface{} `yaml:"increment,omitempty"`
	Precision       int         `yaml:"precision,omitempty"`
	ShowScale       bool        `yaml:"showScale,omitempty"`
	Unit            string      `yaml:"unit,omitempty"`
	Locked          bool        `yaml:"locked,omitempty"`
	Thumbs          []ThumbSpec `yaml:"thumbs,omitempty"`

	Editable        *bool `yaml:"editable,omitempty"`
	Enabled         *bool `yaml:"enabled,omitempty"`
	SendEveryChange *bool `yaml:"sendEveryChange,omitempty"`
}

// ThumbSpec is one value of a time scale.
type ThumbSpec struct {
	ID       string `yaml:"id"`
	Value    string `yaml:"value"`
	Editable *bool  `yaml:"editable,omitempty"`
}

// FieldError names the widget and field a validation failure belongs to.
type FieldError struct {
	Widget string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: widget %q field %s: %v", e.Widget, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DefaultFormPath returns the path in MEGAWIDGET_FORM if set, otherwise
// DefaultFormFile under the user's config directory.
func DefaultFormPath() (string, error) {
	if p := os.Getenv(FormPathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFormFile), nil
}

// Load reads and validates the form at path. An empty path resolves through
// DefaultFormPath.
func Load(path string) (*Form, error) {
	if path == "" {
		p, err := DefaultFormPath()
		if err != nil {
			return nil, fmt.Errorf("config: resolve form path: %w", err)
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("config.Load: %s: %d widgets", path, len(f.Widgets))
	return f, nil
}

// Parse decodes and validates a YAML form document.
func Parse(data []byte) (*Form, error) {
	var f Form
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks structure only: names, types and required fields. Value
// ranges are checked when widgets are built.
func (f *Form) Validate() error {
	if len(f.Widgets) == 0 {
		return ErrNoWidgets
	}
	seen := make(map[string]bool, len(f.Widgets))
	for i := range f.Widgets {
		w := &f.Widgets[i]
		if w.Name == "" {
			return &FieldError{Widget: fmt.Sprintf("#%d", i), Field: "name", Err: ErrMissingField}
		}
		if seen[w.Name] {
			return &FieldError{Widget: w.Name, Field: "name", Err: ErrDuplicateName}
		}
		seen[w.Name] = true
		if err := w.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (w *WidgetSpec) validate() error {
	required := []string{"min", "max"}
	switch w.Type {
	case TypeSpinner, TypeTimeDelta:
		required = append(required, "value")
	case TypeRange:
		required = append(required, "lower", "upper")
	case TypeTimeScale:
		if len(w.Thumbs) == 0 {
			return &FieldError{Widget: w.Name, Field: "thumbs", Err: ErrMissingField}
		}
		for i, th := range w.Thumbs {
			if th.ID == "" || th.Value == "" {
				return &FieldError{Widget: w.Name, Field: fmt.Sprintf("thumbs[%d]", i), Err: ErrMissingField}
			}
		}
	case "":
		return &FieldError{Widget: w.Name, Field: "type", Err: ErrMissingField}
	default:
		return &FieldError{Widget: w.Name, Field: "type", Err: fmt.Errorf("%w: %q", ErrUnknownType, w.Type)}
	}
	fields := map[string]interface{}{"min": w.Min, "max": w.Max, "value": w.Value, "lower": w.Lower, "upper": w.Upper}
	for _, name := range required {
		if fields[name] == nil {
			return &FieldError{Widget: w.Name, Field: name, Err: ErrMissingField}
		}
	}
	return nil
}

// SendsEveryChange resolves the widget's notification mode against the
// form default.
func (w WidgetSpec) SendsEveryChange(formDefault bool) bool {
	if w.SendEveryChange != nil {
		return *w.SendEveryChange
	}
	return formDefault
}

// DisplayLabel returns Label, falling back to Name.
func (w WidgetSpec) DisplayLabel() string {
	if w.Label != "" {
		return w.Label
	}
	return w.Name
}

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

// ParseTime reads a timestamp field. Values without a zone are UTC.
func ParseTime(field string, raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrBadTime, field, v)
	}
	return time.Time{}, fmt.Errorf("%w: %s has type %T", ErrBadTime, field, raw)
}

// ParseDuration reads a duration field: a Go duration string, or a number
// of milliseconds.
func ParseDuration(field string, raw interface{}) (time.Duration, error) {
	switch v := raw.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("config: %s: %w", field, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	case nil:
		return 0, fmt.Errorf("config: %s: %w", field, ErrMissingField)
	}
	return 0, fmt.Errorf("config: %s: unsupported duration type %T", field, raw)
}
