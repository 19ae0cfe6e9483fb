package announce

import "container/list"

// seenSet - ограниченное множество ключей с вытеснением самых старых
type seenSet struct {
	order    *list.List
	index    map[string]*list.Element
	capacity int
}

func newSeenSet(capacity int) *seenSet {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &seenSet{
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
		capacity: capacity,
	}
}

// add возвращает false, если ключ уже был
func (s *seenSet) add(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}

	s.index[key] = s.order.PushBack(key)

	for s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(string))
	}

	return true
}

func (s *seenSet) has(key string) bool {
	_, ok := s.index[key]
	return ok
}

func (s *seenSet) len() int {
	return s.order.Len()
}

func (s *seenSet) reset() {
	s.order.Init()
	s.index = make(map[string]*list.Element, s.capacity)
}
