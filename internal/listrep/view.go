package listrep

import "fmt"

// A View is a read-only window on the elements of a list, it is only valid until the next mutation of a
// list sharing the same store. When the allocator checks views, using a view of a store that has been
// modified since the view was created panics.
type View struct {
	elems      []Elem
	store      *Store
	generation uint64
	checked    bool
}

func newView(r rep, checked bool) View {
	return View{
		elems:      r.elements(),
		store:      r.store,
		generation: r.store.generation,
		checked:    checked,
	}
}

func (v View) Len() int {
	return len(v.elems)
}

// At returns the element at index i, it panics if i is out of range.
func (v View) At(i int) Elem {
	v.assertValid()
	return v.elems[i]
}

// Slice returns the elements, the slice should not be modified.
func (v View) Slice() []Elem {
	v.assertValid()
	return v.elems
}

// Valid returns false if the store has been modified since the creation of the view.
func (v View) Valid() bool {
	return v.store == nil || (!v.store.freed && v.store.generation == v.generation)
}

func (v View) assertValid() {
	if v.checked && !v.Valid() {
		panic(fmt.Errorf("%w (store %d, generation %d, current generation %d)",
			ErrStaleView, v.store.id, v.generation, v.store.generation))
	}
}
