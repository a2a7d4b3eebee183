package listrep

// A Store is a flat array of element slots shared by one or more lists. Only the slots in
// [firstUsed, firstUsed+numUsed) hold live elements, the store holds a reference on each of them.
type Store struct {
	id        uint64
	slots     []Elem //len(slots) is the capacity
	firstUsed int
	numUsed   int

	//number of lists referencing the store, spans are not counted since each span is referenced by lists
	//that also reference the store.
	refCount int

	//set when the string form of a list has been derived from exactly the used slots.
	canonical bool

	//incremented by every change of the slots or of the used range.
	generation uint64
	freed      bool
}

func (s *Store) Id() uint64 {
	return s.id
}

func (s *Store) Capacity() int {
	return len(s.slots)
}

func (s *Store) FirstUsed() int {
	return s.firstUsed
}

func (s *Store) NumUsed() int {
	return s.numUsed
}

func (s *Store) RefCount() int {
	return s.refCount
}

func (s *Store) IsCanonical() bool {
	return s.canonical
}

func (s *Store) Generation() uint64 {
	return s.generation
}

func (s *Store) Freed() bool {
	return s.freed
}

func (s *Store) used() []Elem {
	return s.slots[s.firstUsed : s.firstUsed+s.numUsed]
}

func (s *Store) touch() {
	s.generation++
}

// contentChanged should be called after any modification of the used slots.
func (s *Store) contentChanged() {
	s.canonical = false
	s.touch()
}

// clearVacated clears the slots of the previous used range [prevStart, prevEnd) that are not in the current one.
// The elements in these slots have either been released or moved.
func (s *Store) clearVacated(prevStart, prevEnd int) {
	start, end := s.firstUsed, s.firstUsed+s.numUsed

	clear(s.slots[prevStart:max(prevStart, min(prevEnd, start))])
	clear(s.slots[min(prevEnd, max(prevStart, end)):prevEnd])
}

// A Span is a view of a sub-range of the used slots of a store, lists with a span share the store
// of other lists without copying. The span of an unshared list can be modified in place.
type Span struct {
	start    int
	length   int
	refCount int
}

func (s *Span) Start() int {
	return s.start
}

func (s *Span) Length() int {
	return s.length
}

func (s *Span) RefCount() int {
	return s.refCount
}

// copyIn copies src to dst and takes a reference on each copied element.
func copyIn(dst, src []Elem) {
	for i, e := range src {
		e.IncrRef()
		dst[i] = e
	}
}

// releaseAll drops the reference on each element and clears the slots.
func releaseAll(slots []Elem) {
	for i, e := range slots {
		e.DecrRef()
		slots[i] = nil
	}
}

func incrRefs(elems []Elem) {
	for _, e := range elems {
		e.IncrRef()
	}
}
