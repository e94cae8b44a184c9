package fd

import "fmt"

// FDVariable represents a finite-domain decision variable.
//
// FDVariable stores only the initial domain. During solving the Solver tracks
// the current domain in SolverState by variable ID, so a variable can be
// shared by any number of solves.
type FDVariable struct {
	id     int
	domain Domain
	name   string
}

// NewFDVariable creates a variable with the given ID and initial domain.
func NewFDVariable(id int, domain Domain) *FDVariable {
	return &FDVariable{
		id:     id,
		domain: domain,
		name:   fmt.Sprintf("v%d", id),
	}
}

// NewFDVariableWithName creates a named variable for easier debugging.
func NewFDVariableWithName(id int, domain Domain, name string) *FDVariable {
	return &FDVariable{
		id:     id,
		domain: domain,
		name:   name,
	}
}

// ID returns the unique identifier of this variable within its model.
func (v *FDVariable) ID() int {
	return v.id
}

// Domain returns the initial domain.
func (v *FDVariable) Domain() Domain {
	return v.domain
}

// Name returns the variable's name.
func (v *FDVariable) Name() string {
	return v.name
}

// String returns a human-readable representation.
func (v *FDVariable) String() string {
	return fmt.Sprintf("%s∈%s", v.name, v.domain.String())
}
