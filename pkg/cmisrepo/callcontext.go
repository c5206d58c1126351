package cmisrepo

import "fmt"

// Binding names a wire binding calling into the facade.
type Binding string

// Binding constants (typed).
const (
	BindingAtomPub Binding = "atompub"
	BindingBrowser Binding = "browser"
	BindingSOAP    Binding = "webservices"
	BindingLocal   Binding = "local"
)

// CallContext carries per-request identity and routing. The binding layer
// builds one per inbound request; the engine reads it and never stores it.
type CallContext struct {
	RepositoryID       string
	Username           string
	Password           string
	Binding            Binding
	Locale             string
	ObjectInfoRequired bool
}

// Validate checks the fields the engine depends on.
func (c CallContext) Validate() error {
	if c.RepositoryID == "" {
		return fmt.Errorf("%w: missing repository id", ErrInvalidArgument)
	}
	switch c.Binding {
	case BindingAtomPub, BindingBrowser, BindingSOAP, BindingLocal:
		return nil
	default:
		return fmt.Errorf("%w: unknown binding %q", ErrInvalidArgument, c.Binding)
	}
}
