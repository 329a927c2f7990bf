package readers

// Registry dispatches module/resource reads to the reader registered for a
// URI's scheme, mirroring the teacher's scheme-keyed collaborator tables.
type Registry struct {
	modules   map[string]ModuleReader
	resources map[string]ResourceReader
	Security  SecurityManager
}

// NewRegistry constructs an empty Registry with a permissive SecurityManager;
// callers needing a sandboxed embedding should replace Security.
func NewRegistry() *Registry {
	return &Registry{
		modules:   make(map[string]ModuleReader),
		resources: make(map[string]ResourceReader),
		Security:  AllowAll{},
	}
}

// RegisterModuleReader adds r under its own declared scheme.
func (reg *Registry) RegisterModuleReader(r ModuleReader) { reg.modules[r.Scheme()] = r }

// RegisterResourceReader adds r under its own declared scheme.
func (reg *Registry) RegisterResourceReader(r ResourceReader) { reg.resources[r.Scheme()] = r }

// ModuleReader looks up the reader for scheme.
func (reg *Registry) ModuleReader(scheme string) (ModuleReader, bool) {
	r, ok := reg.modules[scheme]
	return r, ok
}

// ResourceReader looks up the reader for scheme.
func (reg *Registry) ResourceReader(scheme string) (ResourceReader, bool) {
	r, ok := reg.resources[scheme]
	return r, ok
}
