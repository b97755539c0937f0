// Package memstore keeps agents and tasks in process memory.
// It backs tests and the --storage=memory mode; transactions are serialised by a single mutex.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/ports/dispatchtx"
)

// Store implements the dispatch ports in memory.
type Store struct {
	mu        sync.Mutex
	agents    map[int64]*domain.Agent
	tasks     map[int64]*domain.Task
	nextAgent int64
	nextTask  int64
	now       func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		agents: make(map[int64]*domain.Agent),
		tasks:  make(map[int64]*domain.Task),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func cloneAgent(a *domain.Agent) *domain.Agent {
	c := *a
	if a.Latitude != nil {
		v := *a.Latitude
		c.Latitude = &v
	}
	if a.Longitude != nil {
		v := *a.Longitude
		c.Longitude = &v
	}
	if a.LastLocationUpdate != nil {
		v := *a.LastLocationUpdate
		c.LastLocationUpdate = &v
	}
	return &c
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AgentID != nil {
		v := *t.AgentID
		c.AgentID = &v
	}
	if t.PickupTime != nil {
		v := *t.PickupTime
		c.PickupTime = &v
	}
	if t.DeliveryTime != nil {
		v := *t.DeliveryTime
		c.DeliveryTime = &v
	}
	return &c
}

type snapshot struct {
	agents    map[int64]*domain.Agent
	tasks     map[int64]*domain.Task
	nextAgent int64
	nextTask  int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		agents:    make(map[int64]*domain.Agent, len(s.agents)),
		tasks:     make(map[int64]*domain.Task, len(s.tasks)),
		nextAgent: s.nextAgent,
		nextTask:  s.nextTask,
	}
	for id, a := range s.agents {
		snap.agents[id] = cloneAgent(a)
	}
	for id, t := range s.tasks {
		snap.tasks[id] = cloneTask(t)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.agents = snap.agents
	s.tasks = snap.tasks
	s.nextAgent = snap.nextAgent
	s.nextTask = snap.nextTask
}

// WithTx runs fn with exclusive access to the store and restores the prior state if fn fails or panics.
func (s *Store) WithTx(ctx context.Context, fn func(tx dispatchtx.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(txView{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Create - registers a new agent.
func (s *Store) Create(_ context.Context, a *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUser(a.UserID) != nil {
		return apperr.ErrConflict
	}
	s.nextAgent++
	now := s.now()
	a.ID = s.nextAgent
	a.CreatedAt = now
	a.UpdatedAt = now
	s.agents[a.ID] = cloneAgent(a)
	return nil
}

func (s *Store) findByUser(userID string) *domain.Agent {
	for _, a := range s.agents {
		if a.UserID == userID {
			return a
		}
	}
	return nil
}

// GetByUserID - returns a copy of the agent, nil if unknown.
func (s *Store) GetByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a := s.findByUser(userID); a != nil {
		return cloneAgent(a), nil
	}
	return nil, nil
}

// UpdateLocation overwrites the agent's coordinates.
func (s *Store) UpdateLocation(_ context.Context, u domain.LocationUpdate) (*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByUser(u.UserID)
	if a == nil {
		return nil, nil
	}
	lat, lon, at := u.Latitude, u.Longitude, u.ReportedAt
	a.Latitude = &lat
	a.Longitude = &lon
	a.LastLocationUpdate = &at
	a.UpdatedAt = at
	return cloneAgent(a), nil
}

// CountAvailable returns the number of available agents.
func (s *Store) CountAvailable(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, a := range s.agents {
		if a.IsAvailable {
			n++
		}
	}
	return n, nil
}

// Get - returns a copy of the task, nil if unknown.
func (s *Store) Get(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[id]; ok {
		return cloneTask(t), nil
	}
	return nil, nil
}

// CountByStatus returns how many tasks are in status.
func (s *Store) CountByStatus(_ context.Context, status domain.TaskStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, t := range s.tasks {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

// txView operates on the store while WithTx holds the lock.
type txView struct{ s *Store }

func (v txView) Agents() dispatchtx.AgentStore { return txAgents(v) }
func (v txView) Tasks() dispatchtx.TaskStore   { return txTasks(v) }

type txAgents struct{ s *Store }

func (r txAgents) ListAvailableForUpdate(context.Context) ([]domain.Agent, error) {
	out := make([]domain.Agent, 0, len(r.s.agents))
	for _, a := range r.s.agents {
		if a.IsAvailable {
			out = append(out, *cloneAgent(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r txAgents) GetByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	if a := r.s.findByUser(userID); a != nil {
		return cloneAgent(a), nil
	}
	return nil, nil
}

func (r txAgents) Reserve(_ context.Context, id int64) (bool, error) {
	a, ok := r.s.agents[id]
	if !ok || !a.IsAvailable {
		return false, nil
	}
	a.IsAvailable = false
	a.UpdatedAt = r.s.now()
	return true, nil
}

func (r txAgents) SetAvailability(_ context.Context, id int64, available bool) error {
	a, ok := r.s.agents[id]
	if !ok {
		return apperr.ErrNotFound
	}
	a.IsAvailable = available
	a.UpdatedAt = r.s.now()
	return nil
}

type txTasks struct{ s *Store }

func (r txTasks) Insert(_ context.Context, t *domain.Task) error {
	r.s.nextTask++
	t.ID = r.s.nextTask
	r.s.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r txTasks) GetForUpdate(_ context.Context, id int64) (*domain.Task, error) {
	if t, ok := r.s.tasks[id]; ok {
		return cloneTask(t), nil
	}
	return nil, nil
}

func (r txTasks) ApplyStatus(_ context.Context, c domain.StatusChange) error {
	t, ok := r.s.tasks[c.TaskID]
	if !ok {
		return apperr.ErrNotFound
	}
	cp := cloneTask(&domain.Task{PickupTime: c.PickupTime, DeliveryTime: c.DeliveryTime})
	t.Status = c.Status
	t.PickupTime = cp.PickupTime
	t.DeliveryTime = cp.DeliveryTime
	t.UpdatedAt = c.UpdatedAt
	return nil
}
