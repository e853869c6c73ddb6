package light

import (
	"github.com/flashlight-go/flashlight/pkg/errors"
)

// MultiFlashlight is an ordered collection of Flashlights keyed by label.
// Analysis operations fan out across the members in insertion order and
// concatenate the results with a label column.
type MultiFlashlight struct {
	members []*Flashlight
}

// NewMulti combines bundles into a collection. Common options fill only the
// fields a member did not set itself; a member's own value always wins over
// the common default. Duplicate labels are rejected.
func NewMulti(fls []*Flashlight, common ...Option) (*MultiFlashlight, error) {
	defaults := &Flashlight{}
	for _, opt := range common {
		opt(defaults)
	}

	seen := make(map[string]struct{}, len(fls))
	members := make([]*Flashlight, 0, len(fls))
	for _, f := range fls {
		if f == nil {
			return nil, errors.NewValidationError("flashlights", "must not contain nil", nil)
		}
		if _, dup := seen[f.label]; dup {
			return nil, errors.NewValidationError("label", "duplicate label in collection", f.label)
		}
		seen[f.label] = struct{}{}

		merged, err := fillDefaults(f, defaults)
		if err != nil {
			return nil, err
		}
		members = append(members, merged)
	}
	return &MultiFlashlight{members: members}, nil
}

// fillDefaults copies f and fills unset fields from the common defaults.
func fillDefaults(f *Flashlight, defaults *Flashlight) (*Flashlight, error) {
	var opts []Option
	if f.model == nil && defaults.model != nil {
		opts = append(opts, WithModel(defaults.model))
	}
	if f.predict == nil && defaults.predict != nil {
		opts = append(opts, WithPredictFunc(defaults.predict))
	}
	if f.data == nil && defaults.data != nil {
		opts = append(opts, WithData(defaults.data))
	}
	if f.response == "" && defaults.response != "" {
		opts = append(opts, WithResponse(defaults.response))
	}
	if f.weight == "" && defaults.weight != "" {
		opts = append(opts, WithWeight(defaults.weight))
	}
	if len(f.by) == 0 && len(defaults.by) > 0 {
		opts = append(opts, WithBy(defaults.by...))
	}
	if f.linkinv == nil && defaults.linkinv != nil {
		opts = append(opts, WithLinkInv(defaults.linkinv))
	}
	if len(f.metrics) == 0 && len(defaults.metrics) > 0 {
		opts = append(opts, WithMetrics(defaults.metrics...))
	}
	if len(opts) == 0 {
		return f, nil
	}
	return f.Update(opts...)
}

// Labels returns the member labels in insertion order.
func (m *MultiFlashlight) Labels() []string {
	out := make([]string, len(m.members))
	for i, f := range m.members {
		out[i] = f.label
	}
	return out
}

// Get returns the member with the given label.
func (m *MultiFlashlight) Get(label string) (*Flashlight, bool) {
	for _, f := range m.members {
		if f.label == label {
			return f, true
		}
	}
	return nil, false
}

// Len returns the number of members.
func (m *MultiFlashlight) Len() int { return len(m.members) }

// Remove returns a new collection without the named member. Removing an
// absent label is a no-op.
func (m *MultiFlashlight) Remove(label string) *MultiFlashlight {
	members := make([]*Flashlight, 0, len(m.members))
	for _, f := range m.members {
		if f.label != label {
			members = append(members, f)
		}
	}
	return &MultiFlashlight{members: members}
}

func (m *MultiFlashlight) lights() []*Flashlight {
	return m.members
}
