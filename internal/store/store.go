package store

import (
	"clientbook/internal/ports"
	"clientbook/internal/types"
	"context"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store owns the client collection. Every operation reads the whole collection from the slot,
// and every mutation writes the whole collection back before returning.
// The mutex serializes read-modify-write cycles inside one process only; two processes sharing
// a slot still race, and the last write wins.
type Store struct {
	slot     ports.SlotStore
	notifier ports.ChangeNotifier
	newID    func() string
	now      func() time.Time

	mu sync.Mutex
}

type Option func(*Store)

// WithNotifier sets the sink signalled after each committed mutation.
func WithNotifier(n ports.ChangeNotifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithIDFunc replaces the id generator. Used in tests.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

func WithClock(f func() time.Time) Option {
	return func(s *Store) { s.now = f }
}

func New(slot ports.SlotStore, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		newID: NewID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns the collection in storage order. A slot that was never written yields an
// empty slice. The returned slice is a fresh copy the caller may keep.
func (s *Store) LoadAll(ctx context.Context) ([]types.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the client with the given id or types.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.ClientRecord, error) {
	clients, err := s.LoadAll(ctx)
	if err != nil {
		return types.ClientRecord{}, err
	}
	i := indexOf(clients, id)
	if i < 0 {
		return types.ClientRecord{}, types.Err(types.ErrNotFound, nil, "client %s", id)
	}
	return clients[i], nil
}

// Create validates fields, assigns a new id, appends the record and persists the collection.
func (s *Store) Create(ctx context.Context, fields types.ClientFields) (types.ClientRecord, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return types.ClientRecord{}, err
	}
	var created types.ClientRecord
	err := s.mutate(ctx, func(clients []types.ClientRecord) ([]types.ClientRecord, error) {
		created = types.ClientRecord{ID: s.uniqueID(clients), ClientFields: fields}
		return append(clients, created), nil
	})
	if err != nil {
		return types.ClientRecord{}, err
	}
	s.signal(types.OpCreate, created.ID)
	log.WithFields(log.Fields{"clientID": created.ID, "grade": created.Grade}).Debug("client created")
	return created, nil
}

// Update replaces every field of the client except its id. Optional fields missing from
// fields become empty; nothing is merged from the previous version.
func (s *Store) Update(ctx context.Context, id string, fields types.ClientFields) (types.ClientRecord, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return types.ClientRecord{}, err
	}
	updated := types.ClientRecord{ID: id, ClientFields: fields}
	err := s.mutate(ctx, func(clients []types.ClientRecord) ([]types.ClientRecord, error) {
		i := indexOf(clients, id)
		if i < 0 {
			return nil, types.Err(types.ErrNotFound, nil, "client %s", id)
		}
		clients[i] = updated
		return clients, nil
	})
	if err != nil {
		return types.ClientRecord{}, err
	}
	s.signal(types.OpUpdate, id)
	log.WithField("clientID", id).Debug("client updated")
	return updated, nil
}

// Delete removes the client if present. Deleting an unknown id is not an error; the
// collection is written back either way.
func (s *Store) Delete(ctx context.Context, id string) error {
	removed := false
	err := s.mutate(ctx, func(clients []types.ClientRecord) ([]types.ClientRecord, error) {
		n := len(clients)
		clients = slices.DeleteFunc(clients, func(c types.ClientRecord) bool { return c.ID == id })
		removed = len(clients) != n
		return clients, nil
	})
	if err != nil {
		return err
	}
	s.signal(types.OpDelete, id)
	log.WithFields(log.Fields{"clientID": id, "removed": removed}).Debug("client deleted")
	return nil
}

// mutate runs one locked read-modify-write cycle. Nothing is written when fn fails.
func (s *Store) mutate(ctx context.Context, fn func([]types.ClientRecord) ([]types.ClientRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(clients)
	if err != nil {
		return err
	}
	return s.save(ctx, next)
}

func (s *Store) load(ctx context.Context) ([]types.ClientRecord, error) {
	payload, err := s.slot.Read(ctx)
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "read client slot")
	}
	clients, err := Decode(payload)
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "decode client slot")
	}
	return clients, nil
}

func (s *Store) save(ctx context.Context, clients []types.ClientRecord) error {
	payload, err := Encode(clients)
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "encode client slot")
	}
	if err := s.slot.Write(ctx, payload); err != nil {
		log.WithError(err).Error("failed to write client slot")
		return types.Err(types.ErrDataStoreAccess, err, "write client slot")
	}
	return nil
}

// signal runs outside the lock so subscribers may query the store.
func (s *Store) signal(op types.ChangeOp, id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(types.Change{Op: op, ID: id, At: s.now().Unix()})
}

func (s *Store) uniqueID(clients []types.ClientRecord) string {
	for {
		id := s.newID()
		if indexOf(clients, id) < 0 {
			return id
		}
	}
}

func indexOf(clients []types.ClientRecord, id string) int {
	return slices.IndexFunc(clients, func(c types.ClientRecord) bool { return c.ID == id })
}
