package settings

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/message"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/options"
)

// FieldType controls how a settings field is rendered and validated.
type FieldType string

const (
	FieldTitle      FieldType = "title"
	FieldSelect     FieldType = "select"
	FieldCheckbox   FieldType = "checkbox"
	FieldSectionEnd FieldType = "sectionend"
)

// Choice is one option of a select field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is an entry on a settings page. Title and sectionend fields only
// structure the page and hold no value.
type Field struct {
	ID      string    `json:"id"`
	Type    FieldType `json:"type"`
	Title   string    `json:"title,omitempty"`
	Desc    string    `json:"desc,omitempty"`
	Default string    `json:"default,omitempty"`
	Options []Choice  `json:"options,omitempty"`
}

// HasValue reports whether the field stores an option.
func (f Field) HasValue() bool {
	return f.Type == FieldSelect || f.Type == FieldCheckbox
}

// ValidationError reports a value a field does not accept.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("unknown setting %q", e.Field)
	}
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// Panel is the general settings page. Extensions append their own fields
// through the General filter.
type Panel struct {
	options *options.Store
	audit   *audit.Store

	// General filters the field list of the general settings page.
	General *hooks.ScopedFilter[[]Field, *message.Printer]
}

// NewPanel creates the general settings page. auditStore may be nil.
func NewPanel(opts *options.Store, auditStore *audit.Store) *Panel {
	return &Panel{
		options: opts,
		audit:   auditStore,
		General: hooks.NewScopedFilter[[]Field, *message.Printer]("woocommerce_general_settings"),
	}
}

func hostFields(p *message.Printer) []Field {
	return []Field{
		{ID: "general_options", Type: FieldTitle, Title: p.Sprintf("General options")},
		{
			ID:      options.AjaxAddToCart,
			Type:    FieldCheckbox,
			Title:   p.Sprintf("Enable AJAX add to cart buttons on archives"),
			Default: "yes",
		},
		{ID: "general_options", Type: FieldSectionEnd},
	}
}

// Fields returns the general settings fields labelled for p.
func (s *Panel) Fields(p *message.Printer) []Field {
	return s.General.Apply(hostFields(p), p)
}

// Values returns the stored value of every valued field, falling back to
// the field default.
func (s *Panel) Values(ctx context.Context, fields []Field) (map[string]string, error) {
	values := make(map[string]string)
	for _, f := range fields {
		if !f.HasValue() {
			continue
		}
		v, ok, err := s.options.Get(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			v = f.Default
		}
		values[f.ID] = v
	}
	return values, nil
}

// Save validates and stores values keyed by field id. Nothing is written
// unless every value is valid, and the values are written in one
// transaction. Audit entries are logged after the write commits. It returns
// the ids whose value changed.
func (s *Panel) Save(ctx context.Context, actor audit.ActorType, actorID string, p *message.Printer, values map[string]string) ([]string, error) {
	byID := make(map[string]Field)
	for _, f := range s.Fields(p) {
		if f.HasValue() {
			byID[f.ID] = f
		}
	}

	ids := make([]string, 0, len(values))
	for id, v := range values {
		f, ok := byID[id]
		if !ok {
			return nil, &ValidationError{Field: id}
		}
		if !f.accepts(v) {
			return nil, &ValidationError{Field: id, Value: v}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	previousByID, err := s.options.UpdateMany(ctx, values)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, id := range ids {
		previous := previousByID[id]
		if previous == values[id] {
			continue
		}
		changed = append(changed, id)
		if s.audit == nil {
			continue
		}
		if err := s.audit.Log(ctx, audit.Entry{
			ActorType:     actor,
			ActorID:       actorID,
			Action:        audit.ActionSettingUpdated,
			Scope:         audit.ScopeOption,
			ScopeID:       id,
			Summary:       fmt.Sprintf("Changed %s", byID[id].Title),
			PreviousValue: previous,
			NewValue:      values[id],
		}); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (f Field) accepts(v string) bool {
	switch f.Type {
	case FieldCheckbox:
		return v == "yes" || v == "no"
	case FieldSelect:
		for _, c := range f.Options {
			if c.Value == v {
				return true
			}
		}
	}
	return false
}
