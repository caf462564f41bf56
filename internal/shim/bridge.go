package shim

// Handle identifies a host-side DOM node. Only equality is meaningful.
type Handle string

// Bridge is the host side of the shim. Every method is a synchronous call
// into the embedding application; whatever error it returns is raised into
// the script untouched.
type Bridge interface {
	// Log receives console output.
	Log(message string) error

	// QuerySelectorAll returns the handles matching selector, in document order.
	QuerySelectorAll(selector string) ([]Handle, error)

	// GetAttribute reads an attribute. ok is false when the attribute is absent.
	GetAttribute(h Handle, name string) (value string, ok bool, err error)

	// SetInnerHTML replaces the content of the node behind h.
	SetInnerHTML(h Handle, html string) error
}

// Operation names as seen on the host side of the bridge.
const (
	OpLog              = "log"
	OpQuerySelectorAll = "query_selector_all"
	OpGetAttribute     = "get_attribute"
	OpInnerHTMLSet     = "innerHTML_set"
)
