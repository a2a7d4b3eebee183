package elem

// A Factory creates values, all values created by a factory share its tracker.
type Factory struct {
	tracker *Tracker
}

// NewFactory returns a factory, tracker can be nil.
func NewFactory(tracker *Tracker) *Factory {
	return &Factory{tracker: tracker}
}

func (f *Factory) Tracker() *Tracker {
	return f.tracker
}

func (f *Factory) Int(i int64) *Value {
	return f.register(&Value{kind: IntKind, i: i})
}

func (f *Factory) Float(d float64) *Value {
	return f.register(&Value{kind: FloatKind, f: d})
}

func (f *Factory) String(s string) *Value {
	return f.register(&Value{kind: StringKind, s: s})
}

// Strings creates a value for each string.
func (f *Factory) Strings(strings ...string) []*Value {
	values := make([]*Value, len(strings))
	for i, s := range strings {
		values[i] = f.String(s)
	}
	return values
}

// Ints creates the values start, start+1, ..., start+count-1.
func (f *Factory) Ints(start int64, count int) []*Value {
	values := make([]*Value, count)
	for i := range values {
		values[i] = f.Int(start + int64(i))
	}
	return values
}

func (f *Factory) register(v *Value) *Value {
	v.id = nextValueId.Add(1)
	if f.tracker != nil {
		v.tracker = f.tracker
		f.tracker.onCreate(v)
	}
	return v
}

// Elems converts a slice of values to a slice of Elem.
func Elems[V Elem](values []V) []Elem {
	elems := make([]Elem, len(values))
	for i, v := range values {
		elems[i] = v
	}
	return elems
}
