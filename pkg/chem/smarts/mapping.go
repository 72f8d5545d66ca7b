package smarts

// Mapping is the result-accumulation strategy fed by Search.  Add receives
// one embedding as molecule-atom indices in pattern declaration order; the
// slice is freshly allocated per call and may be retained.  Add returns
// false to stop the search early.
//
// A Mapping instance is not safe for concurrent use; give each concurrent
// search its own.  Reusing one sequentially across calls accumulates
// results (see MappingList).
type Mapping interface {
	Add(embedding []int) bool
}

// NoMapping records only whether any embedding was found and stops the
// search after the first one.
type NoMapping struct {
	Match bool
}

// Add implements Mapping.
func (m *NoMapping) Add([]int) bool {
	m.Match = true
	return false
}

// CountMapping counts every embedding the search reports.
type CountMapping struct {
	Count int
}

// Add implements Mapping.
func (m *CountMapping) Add([]int) bool {
	m.Count++
	return true
}

// SingleMapping keeps the first embedding and stops the search.
type SingleMapping struct {
	Map []int
}

// Add implements Mapping.
func (m *SingleMapping) Add(embedding []int) bool {
	if m.Map == nil {
		m.Map = embedding
	}
	return false
}

// MappingList collects every embedding.  It is designed to be reused across
// successive Search calls without resetting, so repeated searches append to
// Maps.
type MappingList struct {
	Maps [][]int
}

// Add implements Mapping.
func (m *MappingList) Add(embedding []int) bool {
	m.Maps = append(m.Maps, embedding)
	return true
}
