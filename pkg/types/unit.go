package types

// Unit is one (Target, Source) pair reconciled independently at startup.
type Unit struct {
	// Name is a short label used in logs and status lines, e.g. "models"
	Name string `json:"name" yaml:"name"`

	// Target is the ephemeral path the application expects to be a directory
	Target string `json:"target" yaml:"target"`

	// Source is the durable directory Target must resolve to
	Source string `json:"source" yaml:"source"`

	// Subdirs are created inside Source once the unit is linked
	Subdirs []string `json:"subdirs,omitempty" yaml:"subdirs,omitempty"`
}

// Label returns the unit name, falling back to the target path
func (u Unit) Label() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Target
}
