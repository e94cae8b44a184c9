package testmodel

// Builder assembles a TestModel incrementally. Ids are assigned in call order
// starting at 1 unless a list is added with an explicit id.
//
//	model, err := testmodel.NewBuilder(2).
//		Parameters(3, 3, 3).
//		Error([]int{0, 1}, []int{1, 0}, []int{2, 0}).
//		Exclusion([]int{2}, []int{2}).
//		Build()
type Builder struct {
	strength   int
	sizes      []int
	exclusions []TupleList
	errors     []TupleList
	nextID     int
}

// NewBuilder starts a model with the given strength.
func NewBuilder(strength int) *Builder {
	return &Builder{strength: strength, nextID: 1}
}

// Parameters appends parameters with the given sizes.
func (b *Builder) Parameters(sizes ...int) *Builder {
	b.sizes = append(b.sizes, sizes...)
	return b
}

// Exclusion adds an exclusion constraint with the next free id.
func (b *Builder) Exclusion(parameters []int, tuples ...[]int) *Builder {
	b.exclusions = append(b.exclusions, NewTupleList(b.allocate(), parameters, tuples, false))
	return b
}

// Error adds an error constraint with the next free id.
func (b *Builder) Error(parameters []int, tuples ...[]int) *Builder {
	b.errors = append(b.errors, NewTupleList(b.allocate(), parameters, tuples, false))
	return b
}

// ExclusionList adds a fully specified exclusion constraint.
func (b *Builder) ExclusionList(l TupleList) *Builder {
	b.exclusions = append(b.exclusions, l.Clone())
	b.reserve(l.ID)
	return b
}

// ErrorList adds a fully specified error constraint.
func (b *Builder) ErrorList(l TupleList) *Builder {
	b.errors = append(b.errors, l.Clone())
	b.reserve(l.ID)
	return b
}

// Build validates and returns the model.
func (b *Builder) Build() (*TestModel, error) {
	return NewTestModel(b.strength, b.sizes, b.exclusions, b.errors)
}

func (b *Builder) allocate() int {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Builder) reserve(id int) {
	if id >= b.nextID {
		b.nextID = id + 1
	}
}
