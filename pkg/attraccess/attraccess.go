// Package attraccess exposes the entries of a string-keyed mapping as
// attributes.
//
// Go cannot intercept p.foo, so attribute access is spelled Attr, SetAttr and
// DelAttr. Every call is forwarded to the wrapped mapping; a Proxy stores no
// entries itself. Attribute accessors report ErrAttributeNotFound where the
// mapping reports orderedmap.ErrKeyNotFound, while Item, SetItem and DelItem
// pass the mapping's errors through untouched.
package attraccess

import (
	"errors"
	"fmt"

	"github.com/UTD-JLA/odict/pkg/orderedmap"
	"github.com/mitchellh/mapstructure"
)

var ErrAttributeNotFound = errors.New("attribute not found")

type Proxy[V any] struct {
	context orderedmap.FullMapping[string, V]
}

// New wraps m. The proxy must not outlive m.
func New[V any](m orderedmap.FullMapping[string, V]) *Proxy[V] {
	return &Proxy[V]{context: m}
}

// Context returns the mapping behind p. Callers should go through the proxy;
// this exists for the rare code that really needs the mapping itself.
func Context[V any](p *Proxy[V]) orderedmap.FullMapping[string, V] {
	return p.context
}

func attributeError(name string, err error) error {
	if errors.Is(err, orderedmap.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrAttributeNotFound, name)
	}
	return err
}

func (p *Proxy[V]) Attr(name string) (V, error) {
	v, err := p.context.Item(name)
	return v, attributeError(name, err)
}

func (p *Proxy[V]) SetAttr(name string, value V) error {
	return attributeError(name, p.SetItem(name, value))
}

func (p *Proxy[V]) DelAttr(name string) error {
	return attributeError(name, p.context.Delete(name))
}

func (p *Proxy[V]) HasAttr(name string) bool {
	return p.context.Contains(name)
}

// Names lists the attribute names in the mapping's order.
func (p *Proxy[V]) Names() []string {
	return p.context.Keys()
}

func (p *Proxy[V]) Item(name string) (V, error) {
	return p.context.Item(name)
}

// SetItem stores value under name. Mappings implementing
// orderedmap.CheckedSetter may refuse the name.
func (p *Proxy[V]) SetItem(name string, value V) error {
	if checked, ok := p.context.(orderedmap.CheckedSetter[string, V]); ok {
		return checked.TrySet(name, value)
	}

	p.context.Set(name, value)
	return nil
}

func (p *Proxy[V]) DelItem(name string) error {
	return p.context.Delete(name)
}

// Decode copies the attributes into out, a pointer to a struct or map. Struct
// fields match attribute names case-insensitively or by their `attr` tag.
func (p *Proxy[V]) Decode(out any) error {
	attrs := make(map[string]V, p.context.Len())
	for name, value := range p.context.All() {
		attrs[name] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "attr",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err = decoder.Decode(attrs); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}

	return nil
}
