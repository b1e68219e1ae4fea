// Package settings holds the admin settings framework and the quick view
// trigger preference stored in it.
package settings

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/message"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/options"
)

// TriggerMode selects which interaction opens the quick view overlay.
type TriggerMode string

const (
	// TriggerButton adds a dedicated button to every listing item.
	TriggerButton TriggerMode = "button"
	// TriggerNonAjax opens the overlay from add-to-cart buttons that would
	// otherwise navigate away.
	TriggerNonAjax TriggerMode = "non_ajax"
)

// OptionTrigger is the option holding the trigger mode.
const OptionTrigger = "quick_view_trigger"

var validTriggerModes = map[TriggerMode]bool{
	TriggerButton:  true,
	TriggerNonAjax: true,
}

// ParseTriggerMode converts a stored value, treating anything unknown as
// TriggerButton.
func ParseTriggerMode(s string) TriggerMode {
	if m := TriggerMode(s); validTriggerModes[m] {
		return m
	}
	return TriggerButton
}

// Trigger reads and initialises the trigger preference.
type Trigger struct {
	options *options.Store
	audit   *audit.Store
}

// NewTrigger creates a Trigger. auditStore may be nil.
func NewTrigger(opts *options.Store, auditStore *audit.Store) *Trigger {
	return &Trigger{options: opts, audit: auditStore}
}

// Mode returns the current trigger mode. A missing or unreadable option
// yields TriggerButton.
func (t *Trigger) Mode(ctx context.Context) TriggerMode {
	v, _, err := t.options.Get(ctx, OptionTrigger)
	if err != nil {
		slog.WarnContext(ctx, "reading quick view trigger", "error", err)
		return TriggerButton
	}
	return ParseTriggerMode(v)
}

// EnsureDefault stores def unless the option already has a value.
func (t *Trigger) EnsureDefault(ctx context.Context, def TriggerMode) error {
	created, err := t.options.Add(ctx, OptionTrigger, string(def))
	if err != nil {
		return fmt.Errorf("initialising %s: %w", OptionTrigger, err)
	}
	if !created || t.audit == nil {
		return nil
	}
	return t.audit.Log(ctx, audit.Entry{
		ActorType: audit.ActorSystem,
		ActorID:   "quickview",
		Action:    audit.ActionOptionAdded,
		Scope:     audit.ScopeOption,
		ScopeID:   OptionTrigger,
		Summary:   fmt.Sprintf("Created %s with default %q", OptionTrigger, def),
		NewValue:  string(def),
	})
}

// Contribution returns the quick view section of the general settings
// page, labelled for printer's language.
func Contribution(p *message.Printer) []Field {
	return []Field{
		{
			ID:    "wc_quick_view",
			Type:  FieldTitle,
			Title: p.Sprintf("Quick View"),
			Desc:  p.Sprintf("The following options are used to configure the Quick View extension."),
		},
		{
			ID:      OptionTrigger,
			Type:    FieldSelect,
			Title:   p.Sprintf("Quick View Trigger"),
			Desc:    p.Sprintf("Choose what event should trigger quick view"),
			Default: string(TriggerButton),
			Options: []Choice{
				{Value: string(TriggerButton), Label: p.Sprintf("Quick View Button")},
				{Value: string(TriggerNonAjax), Label: p.Sprintf("Any non-ajax add to cart button")},
			},
		},
		{
			ID:   "wc_quick_view",
			Type: FieldSectionEnd,
		},
	}
}
