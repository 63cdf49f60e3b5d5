package tags

// Standard tag keys applied to every managed resource.
// Using the netforge.io prefix for clear namespacing.
const (
	// KeyPrefix identifies which topology a resource belongs to.
	KeyPrefix = "netforge.io/prefix"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "netforge.io/managed-by"

	// KeyName is the provider-visible display name tag.
	KeyName = "Name"
)

// ManagedBy value for resources created by this tool.
const ManagedByNetforge = "netforge"

// Builder provides a fluent interface for building resource tag sets.
// Generated keys never overwrite caller-supplied ones, with the single
// exception of the Name tag.
type Builder struct {
	tags map[string]string
	name string
}

// NewBuilder creates a tag builder with the topology prefix pre-set.
func NewBuilder(prefix string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyPrefix:    prefix,
			KeyManagedBy: ManagedByNetforge,
		},
	}
}

// WithName sets the generated Name tag. It takes precedence over any
// caller-supplied Name value.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// Merge adds all caller-supplied tags. Caller values win over previously
// set generated values.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tag set.
// Returns a copy to prevent external mutations.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.tags)+1)
	for k, v := range b.tags {
		result[k] = v
	}
	if b.name != "" {
		result[KeyName] = b.name
	}
	return result
}

// SelectorForPrefix returns the tag filter for all resources in a topology.
func SelectorForPrefix(prefix string) (key, value string) {
	return KeyPrefix, prefix
}
