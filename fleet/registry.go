package fleet

import "sort"

// Registry owns every Agent for the run and tracks which are currently
// empty (Searching), ordered by id.
type Registry struct {
	agents map[ID]*Agent
	empty  map[ID]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[ID]*Agent),
		empty:  make(map[ID]struct{}),
	}
}

// Add registers a new agent. Agents are created Searching,
// so Add also marks it empty.
func (r *Registry) Add(a *Agent) {
	r.agents[a.ID] = a
	if a.State == Searching {
		r.empty[a.ID] = struct{}{}
	}
}

// Get returns the agent with id, or nil if unknown.
func (r *Registry) Get(id ID) *Agent {
	return r.agents[id]
}

// MarkEmpty adds id to the empty-agents set (entering Searching).
func (r *Registry) MarkEmpty(id ID) {
	r.empty[id] = struct{}{}
}

// MarkReserved removes id from the empty-agents set (entering Approaching).
func (r *Registry) MarkReserved(id ID) {
	delete(r.empty, id)
}

// EmptyAgentIDs returns the ids of all currently-empty agents, sorted
// ascending for deterministic downstream iteration.
func (r *Registry) EmptyAgentIDs() []ID {
	ids := make([]ID, 0, len(r.empty))
	for id := range r.empty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EmptyAgents returns the Agent pointers for every currently-empty
// agent, in the same id-ascending order as EmptyAgentIDs.
func (r *Registry) EmptyAgents() []*Agent {
	ids := r.EmptyAgentIDs()
	out := make([]*Agent, len(ids))
	for i, id := range ids {
		out[i] = r.agents[id]
	}
	return out
}

// Len returns the total number of registered agents.
func (r *Registry) Len() int { return len(r.agents) }

// All returns every registered agent, sorted by id.
func (r *Registry) All() []*Agent {
	ids := make([]ID, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Agent, len(ids))
	for i, id := range ids {
		out[i] = r.agents[id]
	}
	return out
}
