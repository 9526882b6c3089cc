package invoice

import "sync"

// Draft holds the field-set being edited along with its latest Result.
// The Result is recomputed only when a dependency field changes.
type Draft struct {
	mu     sync.RWMutex
	fields FieldSet
	result Result
}

func NewDraft(initial FieldSet) *Draft {
	d := &Draft{fields: initial.Clone()}
	d.result = Compute(d.fields)
	return d
}

// Set stores a field value and reports whether the Result was recomputed.
func (d *Draft) Set(name, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fields[name] = value
	if !DependsOn(name) {
		return false
	}
	d.result = Compute(d.fields)
	return true
}

func (d *Draft) Get(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fields[name]
}

func (d *Draft) Fields() FieldSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fields.Clone()
}

func (d *Draft) Result() Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.result
}

func (d *Draft) Empty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.fields) == 0
}

// Reset discards every field.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields = FieldSet{}
	d.result = Compute(d.fields)
}
