// Package templates defines template identity and the registry that maps
// logical templates to bundled content and on-disk user paths.
package templates

import (
	"fmt"
	"strings"

	"github.com/margoproject/margo/pkg/errors"
)

// Kind classifies a template as a baseline covariate set or an outcome
// variable set.
type Kind string

// Template kinds.
const (
	KindBaseline Kind = "baseline"
	KindOutcome  Kind = "outcome"
)

// Kinds returns all template kinds in stable order.
func Kinds() []Kind {
	return []Kind{KindBaseline, KindOutcome}
}

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindBaseline, KindOutcome:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string { return string(k) }

// Dir returns the directory name for this kind under the config directory.
func (k Kind) Dir() string {
	switch k {
	case KindBaseline:
		return "baselines"
	case KindOutcome:
		return "outcomes"
	}
	return string(k)
}

// ParseKind parses a kind from user input, accepting singular and plural
// forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baseline", "baselines":
		return KindBaseline, nil
	case "outcome", "outcomes":
		return KindOutcome, nil
	default:
		return "", errors.NewValidationError("kind", s,
			fmt.Sprintf("unknown template kind %q: must be baseline or outcome", s))
	}
}

// ID uniquely identifies a logical template across the bundled and user
// namespaces.
type ID struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

// String returns the canonical "kind/name" form used in reports, errors,
// and manifest keys.
func (id ID) String() string {
	return string(id.Kind) + "/" + id.Name
}

// Validate checks that the identity is well formed.
func (id ID) Validate() error {
	if !id.Kind.IsValid() {
		return errors.NewValidationError("kind", id.Kind, "invalid template kind")
	}
	if id.Name == "" {
		return errors.NewValidationError("name", id.Name, "template name is empty")
	}
	if strings.ContainsAny(id.Name, "/\\") {
		return errors.NewValidationError("name", id.Name, "template name must not contain path separators")
	}
	return nil
}

// ParseID parses a "kind/name" identity string.
func ParseID(s string) (ID, error) {
	kindStr, name, ok := strings.Cut(s, "/")
	if !ok {
		return ID{}, errors.NewValidationError("id", s,
			fmt.Sprintf("invalid template id %q: expected kind/name", s))
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return ID{}, err
	}
	id := ID{Kind: kind, Name: name}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Template pairs an identity with its content.
type Template struct {
	ID      ID
	Content []byte
}
