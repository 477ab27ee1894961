package requests

import "sort"

// Registry owns every Resource seen so far and tracks which are in the
// Waiting state, ordered by id.
type Registry struct {
	resources map[ID]*Resource
	waiting   map[ID]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		resources: make(map[ID]*Resource),
		waiting:   make(map[ID]struct{}),
	}
}

// Add registers a newly-announced resource in the Announced state.
func (r *Registry) Add(res *Resource) {
	r.resources[res.ID] = res
}

// Get returns the resource with id, or nil if unknown.
func (r *Registry) Get(id ID) *Resource {
	return r.resources[id]
}

// EnterWaiting marks id as Waiting (entering the current batch window).
func (r *Registry) EnterWaiting(id ID) {
	if res := r.resources[id]; res != nil {
		res.State = Waiting
	}
	r.waiting[id] = struct{}{}
}

// Assign marks id Assigned and removes it from the waiting set.
func (r *Registry) Assign(id ID) {
	if res := r.resources[id]; res != nil {
		res.State = Assigned
	}
	delete(r.waiting, id)
}

// ExpireIfWaiting marks id Expired and removes it from the waiting set,
// returning true if the resource was actually in the waiting set. A
// ResourceExpire event for a resource that has already been assigned is
// a stale no-op.
func (r *Registry) ExpireIfWaiting(id ID) bool {
	if _, ok := r.waiting[id]; !ok {
		return false
	}
	if res := r.resources[id]; res != nil {
		res.State = Expired
	}
	delete(r.waiting, id)
	return true
}

// WaitingIDs returns the ids of all currently-Waiting resources, sorted
// ascending for deterministic batch ordering.
func (r *Registry) WaitingIDs() []ID {
	ids := make([]ID, 0, len(r.waiting))
	for id := range r.waiting {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Total returns the number of resources ever registered.
func (r *Registry) Total() int { return len(r.resources) }
