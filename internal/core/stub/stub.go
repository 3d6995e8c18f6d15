// Package stub is the placeholder substitution engine.
// This is part of the Functional Core - no I/O, only pure functions.
//
// A stub is raw text containing bracket-delimited tokens such as
// "{{ model }}". Tokens are matched by exact literal text; the delimiters keep
// "{{ model }}" from ever matching inside "{{ modelVariable }}".
package stub

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern recognises anything shaped like a placeholder, whatever the
// spacing, so that unbound tokens can be reported instead of emitted.
var tokenPattern = regexp.MustCompile(`\{\{\s*[A-Za-z_][A-Za-z0-9_]*\s*\}\}`)

// Token formats a placeholder name as it appears in a stub: "{{ name }}".
func Token(name string) string {
	return "{{ " + name + " }}"
}

// Name returns the placeholder name inside token, whatever its spacing.
// ok is false when token is not shaped like a placeholder.
func Name(token string) (name string, ok bool) {
	loc := tokenPattern.FindStringIndex(token)
	if loc == nil || loc[0] != 0 || loc[1] != len(token) {
		return "", false
	}
	return strings.TrimSpace(token[2 : len(token)-2]), true
}

// Pair is a single token to value substitution.
type Pair struct {
	Token string
	Value string
}

// Binding is an ordered token to value mapping for one render.
// The zero value is an empty binding ready to use.
type Binding struct {
	pairs []Pair
	index map[string]int
}

// NewBinding builds a binding from name/value pairs. Names are wrapped with
// Token, so NewBinding("model", "User") binds "{{ model }}".
func NewBinding(nameValues ...string) (*Binding, error) {
	if len(nameValues)%2 != 0 {
		return nil, fmt.Errorf("odd number of name/value arguments: %d", len(nameValues))
	}
	b := &Binding{}
	for i := 0; i < len(nameValues); i += 2 {
		if err := b.Set(nameValues[i], nameValues[i+1]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Set binds the placeholder for name to value. Binding the same name twice is
// an error: positional ambiguity is exactly what named bindings exist to avoid.
func (b *Binding) Set(name, value string) error {
	if name == "" {
		return fmt.Errorf("empty placeholder name")
	}
	token := Token(name)
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if _, exists := b.index[token]; exists {
		return fmt.Errorf("placeholder %s bound twice", token)
	}
	b.index[token] = len(b.pairs)
	b.pairs = append(b.pairs, Pair{Token: token, Value: value})
	return nil
}

// Get returns the value bound to name.
func (b *Binding) Get(name string) (string, bool) {
	if b == nil || b.index == nil {
		return "", false
	}
	i, ok := b.index[Token(name)]
	if !ok {
		return "", false
	}
	return b.pairs[i].Value, true
}

// Pairs returns the bound pairs in insertion order.
func (b *Binding) Pairs() []Pair {
	if b == nil {
		return nil
	}
	out := make([]Pair, len(b.pairs))
	copy(out, b.pairs)
	return out
}

// Len returns the number of bound tokens.
func (b *Binding) Len() int {
	if b == nil {
		return 0
	}
	return len(b.pairs)
}

func (b *Binding) has(token string) bool {
	if b == nil || b.index == nil {
		return false
	}
	_, ok := b.index[token]
	return ok
}

// Tokens returns the distinct placeholders declared in text, sorted.
func Tokens(text string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// Missing returns the placeholders declared in text that binding leaves unbound.
func Missing(text string, binding *Binding) []string {
	var missing []string
	for _, tok := range Tokens(text) {
		if !binding.has(tok) {
			missing = append(missing, tok)
		}
	}
	return missing
}

// UnboundError reports placeholders a render could not substitute.
type UnboundError struct {
	Tokens []string
}

func (e *UnboundError) Error() string {
	return "unbound placeholders: " + strings.Join(e.Tokens, ", ")
}

// Render substitutes every bound token in text in a single left-to-right pass.
// It fails with *UnboundError, before substituting anything, when text declares
// a placeholder the binding does not cover. Extra bindings are allowed.
func Render(text string, binding *Binding) (string, error) {
	if missing := Missing(text, binding); len(missing) > 0 {
		return "", &UnboundError{Tokens: missing}
	}
	if binding.Len() == 0 {
		return text, nil
	}

	oldnew := make([]string, 0, binding.Len()*2)
	for _, p := range binding.pairs {
		oldnew = append(oldnew, p.Token, p.Value)
	}
	return strings.NewReplacer(oldnew...).Replace(text), nil
}
