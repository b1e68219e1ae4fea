// Package audit records changes made to storefront settings and catalog data.
package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorSystem ActorType = "system"
	ActorCLI    ActorType = "cli"
)

// Action describes what was done.
type Action string

const (
	ActionOptionAdded     Action = "option_added"
	ActionSettingUpdated  Action = "setting_updated"
	ActionCatalogImported Action = "catalog_imported"
	ActionProductDeleted  Action = "product_deleted"
)

// Scope describes what kind of record an action applies to.
type Scope string

const (
	ScopeOption  Scope = "option"
	ScopeCatalog Scope = "catalog"
	ScopeProduct Scope = "product"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorType     ActorType `json:"actor_type"`
	ActorID       string    `json:"actor_id"`
	Action        Action    `json:"action"`
	Scope         Scope     `json:"scope"`
	ScopeID       string    `json:"scope_id"` // option name, import run id
	Summary       string    `json:"summary"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}
