package state

import "context"

// Op identifies the kind of pending mutation on a record.
type Op int

const (
	OpNone Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "none"
	}
}

// Call performs the remote side of a mutation. The returned value replaces the
// local one when canonical is true (the server recomputed an aggregate or
// reported the resulting state).
type Call[V any] func(ctx context.Context) (value V, canonical bool, err error)

// Mutation describes one optimistic change to a subject's value.
type Mutation[V any] struct {
	Op Op
	// Compute derives the new local value from the latest locally-applied
	// value. Toggles must chain off this argument, never a pre-fetch snapshot.
	Compute func(V) V
	// Call is the remote operation confirming the mutation.
	Call Call[V]
	// FailureMessage is raised as an error notification when Call fails.
	FailureMessage string
}

// Record is a subject's local interaction value together with its
// confirmation state. PendingOp != OpNone means an optimistic change has been
// applied but not yet confirmed; a record is never held with PendingOp ==
// OpNone and Confirmed == false.
type Record[V any] struct {
	SubjectID string
	ActorID   string
	Value     V
	PendingOp Op
	Confirmed bool
}

// pending is a staged mutation with the rollback snapshot taken at its apply
// time.
type pending[V any] struct {
	mutation  Mutation[V]
	snapshot  Record[V]
	hadRecord bool
}

type entry[V any] struct {
	record   Record[V]
	inFlight *pending[V]
	queue    []*pending[V]
}

// Engine applies optimistic mutations to a keyed collection of records and
// reconciles them with server responses. One engine instance serves one value
// type (like state, rating state, ...) for the current user.
type Engine[V any] struct {
	entries  map[string]*entry[V]
	actorID  string
	notifier *Notifier
}

// NewEngine creates an engine reporting failures through notifier.
func NewEngine[V any](notifier *Notifier) *Engine[V] {
	return &Engine[V]{
		entries:  make(map[string]*entry[V]),
		notifier: notifier,
	}
}

// SetActor records the acting user. Existing records are discarded; they
// belonged to the previous actor.
func (e *Engine[V]) SetActor(userID string) {
	e.actorID = userID
	e.entries = make(map[string]*entry[V])
}

// Get returns the record for a subject, if one exists.
func (e *Engine[V]) Get(subjectID string) (Record[V], bool) {
	ent, ok := e.entries[subjectID]
	if !ok {
		return Record[V]{}, false
	}
	return ent.record, true
}

// Value returns the latest locally-applied value for a subject, or the zero
// value when no record exists.
func (e *Engine[V]) Value(subjectID string) V {
	ent, ok := e.entries[subjectID]
	if !ok {
		var zero V
		return zero
	}
	return ent.record.Value
}

// Pending reports whether a mutation is awaiting confirmation for a subject.
func (e *Engine[V]) Pending(subjectID string) bool {
	ent, ok := e.entries[subjectID]
	return ok && (ent.inFlight != nil || len(ent.queue) > 0)
}

// Seed installs a server-confirmed value for a subject. Ignored while a
// mutation is pending so a stale fetch cannot clobber an optimistic value.
func (e *Engine[V]) Seed(subjectID string, value V) {
	if e.Pending(subjectID) {
		return
	}
	e.entries[subjectID] = &entry[V]{
		record: Record[V]{
			SubjectID: subjectID,
			ActorID:   e.actorID,
			Value:     value,
			PendingOp: OpNone,
			Confirmed: true,
		},
	}
}

// Apply stages a mutation: the local value is updated synchronously from the
// latest applied value, and the remote call is returned for the caller to
// issue: immediately when the subject is idle, or later via [Engine.Resolve]
// when an earlier mutation is still in flight. The returned bool reports
// whether the call should start now.
func (e *Engine[V]) Apply(subjectID string, m Mutation[V]) (Call[V], bool) {
	ent, hadRecord := e.entries[subjectID]
	if !hadRecord {
		ent = &entry[V]{record: Record[V]{SubjectID: subjectID, ActorID: e.actorID}}
		e.entries[subjectID] = ent
	}

	p := &pending[V]{
		mutation:  m,
		snapshot:  ent.record,
		hadRecord: hadRecord,
	}

	ent.record.Value = m.Compute(ent.record.Value)
	ent.record.PendingOp = m.Op
	ent.record.Confirmed = false

	if ent.inFlight != nil {
		ent.queue = append(ent.queue, p)
		return nil, false
	}

	ent.inFlight = p
	return m.Call, true
}

// Resolve reconciles the in-flight mutation for a subject with its server
// response. On success the record is confirmed, adopting the canonical value
// when the server supplied one and no later mutation has been applied on top.
// On failure the record reverts to its pre-mutation snapshot, queued mutations
// for the subject are discarded, and an error notification is raised.
//
// Returns the next queued call to issue for this subject, if any, together
// with its operation kind.
func (e *Engine[V]) Resolve(subjectID string, value V, canonical bool, err error) (Call[V], Op, bool) {
	ent, ok := e.entries[subjectID]
	if !ok || ent.inFlight == nil {
		return nil, OpNone, false
	}

	p := ent.inFlight
	ent.inFlight = nil

	if err != nil {
		// Roll back to the snapshot taken when this mutation was applied.
		// Queued mutations presumed its success; they are dropped with it.
		// A failed delete in particular restores the prior state.
		ent.queue = nil
		if p.hadRecord {
			ent.record = p.snapshot
			ent.record.PendingOp = OpNone
			ent.record.Confirmed = true
		} else {
			delete(e.entries, subjectID)
		}

		message := p.mutation.FailureMessage
		if message == "" {
			message = err.Error()
		}
		e.notifier.Error(message)
		return nil, OpNone, false
	}

	if len(ent.queue) > 0 {
		// Later mutations are already applied locally; start the next call.
		next := ent.queue[0]
		ent.queue = ent.queue[1:]
		ent.inFlight = next
		return next.mutation.Call, next.mutation.Op, true
	}

	if p.mutation.Op == OpDelete {
		delete(e.entries, subjectID)
		return nil, OpNone, false
	}

	if canonical {
		ent.record.Value = value
	}
	ent.record.PendingOp = OpNone
	ent.record.Confirmed = true
	return nil, OpNone, false
}

// notifier exposure for controllers sharing the engine's channel.
func (e *Engine[V]) Notifier() *Notifier { return e.notifier }
