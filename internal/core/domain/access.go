package domain

import "encoding/json"

// DecisionKind is the outcome of an access check.
type DecisionKind int

const (
	// DecisionLoading means hydration has not finished; show a neutral
	// placeholder and do not navigate.
	DecisionLoading DecisionKind = iota
	DecisionRedirect
	DecisionRender
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionLoading:
		return "loading"
	case DecisionRedirect:
		return "redirect"
	case DecisionRender:
		return "render"
	}
	return "unknown"
}

// Variant is one of the mutually exclusive dashboard presentations.
type Variant string

const (
	VariantAdmin      Variant = "admin"
	VariantSupervisor Variant = "supervisor"
	VariantNormal     Variant = "normal"
)

// Decision tells a view what to do.
type Decision struct {
	Kind DecisionKind
	// To is the redirect target when Kind is DecisionRedirect.
	To string
	// Return is set on login redirects only.
	Return *ReturnState
	// Variant is set by variant selection when Kind is DecisionRender.
	Variant Variant
}

// Dashboard holds the opaque payloads fetched for a dashboard variant, keyed
// by resource name.
type Dashboard struct {
	Variant   Variant                    `json:"variant"`
	Resources map[string]json.RawMessage `json:"resources"`
}
