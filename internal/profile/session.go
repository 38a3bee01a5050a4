package profile

import (
	"context"
	"errors"
	"sync"
)

// Status is the state of an edit session.
type Status string

const (
	StatusViewing Status = "viewing"
	StatusEditing Status = "editing"
	StatusSaving  Status = "saving"
	// StatusError marks a session without a committed profile to edit.
	StatusError Status = "error"
)

// Writer persists the editable fields of the profile owned by ownerID and
// returns the stored record.
type Writer interface {
	UpdateProfile(ctx context.Context, ownerID string, fields Fields) (*Profile, error)
}

// OutcomeKind classifies how a submit ended.
type OutcomeKind string

const (
	OutcomeSaved   OutcomeKind = "saved"
	OutcomeInvalid OutcomeKind = "invalid"
	OutcomeFailed  OutcomeKind = "failed"
)

// Outcome is emitted to subscribers every time a submit resolves.
type Outcome struct {
	Kind    OutcomeKind
	OwnerID string
	Profile *Profile // set for OutcomeSaved
	Errors  ErrorSet // set for OutcomeInvalid
	Message string   // set for OutcomeFailed
}

// Session coordinates one owner's edit of their profile:
//
//	viewing --StartEdit--> editing --Submit--> saving --ok--> viewing
//	                       editing <--invalid-- saving
//	                       editing <--failed--- saving
//	editing --Cancel--> viewing
//
// Only one submit may be in flight. The mutex is released while the store
// write runs so the session can report its state meanwhile.
type Session struct {
	mu          sync.Mutex
	status      Status
	isOwner     bool
	committed   *Profile
	draft       Fields
	errors      ErrorSet
	failure     string
	subscribers []func(Outcome)
}

// NewSession starts a session in the viewing state. A nil committed profile
// yields a session stuck in StatusError.
func NewSession(committed *Profile, isOwner bool) *Session {
	s := &Session{
		status:    StatusViewing,
		isOwner:   isOwner,
		committed: committed.Clone(),
		errors:    ErrorSet{},
	}
	if committed == nil {
		s.status = StatusError
	}
	return s
}

// Subscribe registers fn to receive submit outcomes. fn runs synchronously
// on the goroutine that resolved the submit, outside the session lock.
func (s *Session) Subscribe(fn func(Outcome)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) IsOwner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOwner
}

// Committed returns a copy of the last profile known to be stored.
func (s *Session) Committed() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

func (s *Session) Draft() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Errors returns a copy of the current field errors.
func (s *Session) Errors() ErrorSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// Failure returns the message of the last failed store write, if any.
func (s *Session) Failure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// StartEdit seeds the draft from the committed profile.
func (s *Session) StartEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOwner {
		return ErrNotOwner
	}
	if s.status != StatusViewing {
		return ErrInvalidTransition
	}
	s.status = StatusEditing
	s.draft = s.committed.Fields()
	s.errors = ErrorSet{}
	s.failure = ""
	return nil
}

// ChangeField updates one draft field and clears that field's error only.
func (s *Session) ChangeField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusEditing {
		return ErrInvalidTransition
	}
	draft, ok := s.draft.With(name, value)
	if !ok {
		return ErrUnknownField
	}
	s.draft = draft
	delete(s.errors, name)
	return nil
}

// Cancel discards the draft and its errors. The committed profile is untouched.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusEditing {
		return ErrInvalidTransition
	}
	s.reset()
	return nil
}

// Submit sanitizes and validates the draft and, when it is clean, writes it
// through w. It returns the stored profile, a *ValidationError, a
// *StoreError, or a transition error.
func (s *Session) Submit(ctx context.Context, w Writer) (*Profile, error) {
	ownerID, fields, err := s.beginSubmit()
	if err != nil {
		return nil, err
	}

	stored, err := w.UpdateProfile(ctx, ownerID, fields)
	if err == nil && stored == nil {
		err = errors.New("store returned no profile")
	}
	if err != nil {
		se := NewStoreError(err)
		if failErr := s.Fail(se.Message); failErr != nil {
			return nil, failErr
		}
		return nil, se
	}

	if err := s.Succeed(stored); err != nil {
		return nil, err
	}
	return s.Committed(), nil
}

// BeginSubmit moves an editing session to saving and returns the sanitized
// fields to write. Callers that drive the store themselves must finish with
// Succeed or Fail.
func (s *Session) BeginSubmit() (Fields, error) {
	_, fields, err := s.beginSubmit()
	return fields, err
}

func (s *Session) beginSubmit() (string, Fields, error) {
	s.mu.Lock()
	switch s.status {
	case StatusSaving:
		s.mu.Unlock()
		return "", Fields{}, ErrSubmitInFlight
	case StatusEditing:
	default:
		s.mu.Unlock()
		return "", Fields{}, ErrInvalidTransition
	}

	clean := Sanitize(s.draft)
	if errs := Validate(clean); len(errs) > 0 {
		s.errors = errs
		s.failure = ""
		out := Outcome{Kind: OutcomeInvalid, OwnerID: s.committed.OwnerID, Errors: errs.Clone()}
		subs := s.subscribers
		s.mu.Unlock()
		notify(subs, out)
		return "", Fields{}, &ValidationError{Errors: errs.Clone()}
	}

	s.status = StatusSaving
	s.failure = ""
	ownerID := s.committed.OwnerID
	s.mu.Unlock()
	return ownerID, clean, nil
}

// Succeed completes a save with the profile the store returned.
func (s *Session) Succeed(stored *Profile) error {
	s.mu.Lock()
	if s.status != StatusSaving || stored == nil {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	next := stored.Clone()
	// The owner never changes, whatever the store echoes.
	next.OwnerID = s.committed.OwnerID
	s.committed = next
	s.reset()
	out := Outcome{Kind: OutcomeSaved, OwnerID: next.OwnerID, Profile: next.Clone()}
	subs := s.subscribers
	s.mu.Unlock()
	notify(subs, out)
	return nil
}

// Fail returns a saving session to editing with its draft intact.
func (s *Session) Fail(message string) error {
	s.mu.Lock()
	if s.status != StatusSaving {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.status = StatusEditing
	s.failure = message
	out := Outcome{Kind: OutcomeFailed, OwnerID: s.committed.OwnerID, Message: message}
	subs := s.subscribers
	s.mu.Unlock()
	notify(subs, out)
	return nil
}

func (s *Session) reset() {
	s.status = StatusViewing
	s.draft = Fields{}
	s.errors = ErrorSet{}
	s.failure = ""
}

func notify(subs []func(Outcome), out Outcome) {
	for _, fn := range subs {
		fn(out)
	}
}
