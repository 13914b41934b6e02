package tokens

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"rawsort/internal/exif"
)

// ErrMetadataUnavailable reports that the extractor could not supply
// metadata for an entry. Only that entry's resolution fails.
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// Resolver produces the replacement text for one token.
type Resolver interface {
	Resolve(meta exif.Metadata, entry Entry) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(meta exif.Metadata, entry Entry) string

// Resolve calls f(meta, entry).
func (f ResolverFunc) Resolve(meta exif.Metadata, entry Entry) string { return f(meta, entry) }

// Description is the help text of one registered token.
type Description struct {
	Key         string
	Description string
}

type token struct {
	description string
	resolver    Resolver
}

// Registry holds the known tokens and the extractor used to feed them.
type Registry struct {
	extractor exif.Extractor
	tokens    map[string]token
	// keys is ordered longest first for matching.
	keys []string
}

// NewRegistry returns an empty registry reading metadata through extractor.
func NewRegistry(extractor exif.Extractor) *Registry {
	return &Registry{extractor: extractor, tokens: make(map[string]token)}
}

// Register adds key or replaces an existing registration.
func (r *Registry) Register(key, description string, resolver Resolver) {
	if key == "" || resolver == nil {
		return
	}
	if _, exists := r.tokens[key]; !exists {
		r.keys = append(r.keys, key)
		sort.SliceStable(r.keys, func(i, j int) bool {
			if len(r.keys[i]) != len(r.keys[j]) {
				return len(r.keys[i]) > len(r.keys[j])
			}
			return r.keys[i] < r.keys[j]
		})
	}
	r.tokens[key] = token{description: description, resolver: resolver}
}

// RegisterFunc is Register for plain functions.
func (r *Registry) RegisterFunc(key, description string, fn func(exif.Metadata, Entry) string) {
	if fn == nil {
		return
	}
	r.Register(key, description, ResolverFunc(fn))
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int { return len(r.tokens) }

// Describe lists every token sorted by key.
func (r *Registry) Describe() []Description {
	out := make([]Description, 0, len(r.tokens))
	for key, tok := range r.tokens {
		out = append(out, Description{Key: key, Description: tok.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Resolve reads metadata for entry and substitutes template with it.
func (r *Registry) Resolve(template string, entry Entry) (string, error) {
	if r.extractor == nil {
		return "", fmt.Errorf("%s: %w: no extractor configured", entry.Path, ErrMetadataUnavailable)
	}
	meta, err := r.extractor.Extract(entry.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	return r.Render(template, meta, entry), nil
}

// Render substitutes template using already extracted metadata.
func (r *Registry) Render(template string, meta exif.Metadata, entry Entry) string {
	if len(r.keys) == 0 || template == "" {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); {
		key, ok := r.match(template[i:])
		if !ok {
			b.WriteByte(template[i])
			i++
			continue
		}
		b.WriteString(r.tokens[key].resolver.Resolve(meta, entry))
		i += len(key)
	}
	return b.String()
}

func (r *Registry) match(s string) (string, bool) {
	for _, key := range r.keys {
		if strings.HasPrefix(s, key) {
			return key, true
		}
	}
	return "", false
}
