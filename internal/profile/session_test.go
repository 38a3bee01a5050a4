package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeWriter struct {
	mu      sync.Mutex
	calls   int
	got     Fields
	ownerID string
	result  func(ownerID string, f Fields) *Profile
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (w *fakeWriter) UpdateProfile(_ context.Context, ownerID string, f Fields) (*Profile, error) {
	w.mu.Lock()
	w.calls++
	w.got = f
	w.ownerID = ownerID
	w.mu.Unlock()
	if w.entered != nil {
		close(w.entered)
	}
	if w.block != nil {
		<-w.block
	}
	if w.err != nil {
		return nil, w.err
	}
	if w.result != nil {
		return w.result(ownerID, f), nil
	}
	return nil, nil
}

func (w *fakeWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func testCommitted() *Profile {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Profile{
		ID:          "p-1",
		OwnerID:     "uid-1",
		Name:        "Ion Popescu",
		Email:       "ion@example.ro",
		Phone:       "0790454647",
		Location:    "Sibiu",
		Description: "Vând biciclete recondiționate.",
		Website:     "https://ion.example.ro",
		Verified:    true,
		Rating:      4.5,
		ReviewCount: 12,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func serverEcho(base *Profile) func(string, Fields) *Profile {
	return func(_ string, f Fields) *Profile {
		p := base.Clone()
		p.Name = f.Name + " (srv)"
		p.Phone = f.Phone
		p.Location = f.Location
		p.Description = f.Description
		p.Website = f.Website
		p.UpdatedAt = p.UpdatedAt.Add(time.Hour)
		return p
	}
}

func TestSessionStartsViewing(t *testing.T) {
	s := NewSession(testCommitted(), true)
	if s.Status() != StatusViewing {
		t.Fatalf("expected viewing, got %s", s.Status())
	}
	if s.Committed().Name != "Ion Popescu" {
		t.Fatalf("unexpected committed: %+v", s.Committed())
	}
}

func TestSessionWithoutProfileIsError(t *testing.T) {
	s := NewSession(nil, true)
	if s.Status() != StatusError {
		t.Fatalf("expected error status, got %s", s.Status())
	}
	if err := s.StartEdit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStartEditRequiresOwner(t *testing.T) {
	s := NewSession(testCommitted(), false)
	if err := s.StartEdit(); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if s.Status() != StatusViewing {
		t.Fatalf("expected viewing, got %s", s.Status())
	}
}

func TestStartEditSeedsDraft(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	if err := s.StartEdit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status() != StatusEditing {
		t.Fatalf("expected editing, got %s", s.Status())
	}
	if s.Draft() != committed.Fields() {
		t.Fatalf("expected draft %+v, got %+v", committed.Fields(), s.Draft())
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", s.Errors())
	}
	if err := s.StartEdit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second start, got %v", err)
	}
}

func TestChangeFieldClearsOnlyThatFieldError(t *testing.T) {
	s := NewSession(testCommitted(), true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldName, "")
	_ = s.ChangeField(FieldPhone, "123")

	_, err := s.Submit(context.Background(), &fakeWriter{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(s.Errors()) != 2 {
		t.Fatalf("expected two errors, got %v", s.Errors())
	}

	if err := s.ChangeField(FieldName, "Maria"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errs := s.Errors()
	if _, ok := errs[FieldName]; ok {
		t.Fatalf("expected name error cleared, got %v", errs)
	}
	if _, ok := errs[FieldPhone]; !ok {
		t.Fatalf("expected phone error kept, got %v", errs)
	}
	if s.Draft().Name != "Maria" {
		t.Fatalf("expected draft name Maria, got %q", s.Draft().Name)
	}
}

func TestChangeFieldRejectsUnknownField(t *testing.T) {
	s := NewSession(testCommitted(), true)
	_ = s.StartEdit()
	if err := s.ChangeField("email", "x@y.z"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestChangeFieldRequiresEditing(t *testing.T) {
	s := NewSession(testCommitted(), true)
	if err := s.ChangeField(FieldName, "Maria"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldName, "Altcineva")
	if err := s.Cancel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status() != StatusViewing {
		t.Fatalf("expected viewing, got %s", s.Status())
	}
	if s.Draft() != (Fields{}) {
		t.Fatalf("expected empty draft, got %+v", s.Draft())
	}
	if s.Committed().Name != committed.Name {
		t.Fatalf("committed changed: %+v", s.Committed())
	}
	if err := s.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSubmitInvalidDraftNeverReachesStore(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldDescription, "short")

	w := &fakeWriter{}
	_, err := s.Submit(context.Background(), w)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors[FieldDescription] != MsgDescriptionLength {
		t.Fatalf("unexpected errors: %v", ve.Errors)
	}
	if w.callCount() != 0 {
		t.Fatalf("expected no store call, got %d", w.callCount())
	}
	if s.Status() != StatusEditing {
		t.Fatalf("expected editing, got %s", s.Status())
	}
	if *s.Committed() != *committed {
		t.Fatalf("committed changed: %+v", s.Committed())
	}
	if s.Errors()[FieldDescription] == "" {
		t.Fatalf("expected session errors populated, got %v", s.Errors())
	}
}

func TestSubmitSuccessUsesStoreEcho(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldName, "  Maria Ionescu ")
	_ = s.ChangeField(FieldPhone, "0790 454 647")

	w := &fakeWriter{result: serverEcho(committed)}
	got, err := s.Submit(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ownerID != "uid-1" {
		t.Fatalf("expected write for uid-1, got %q", w.ownerID)
	}
	if w.got.Name != "Maria Ionescu" || w.got.Phone != "0790454647" {
		t.Fatalf("expected sanitized write, got %+v", w.got)
	}
	if got.Name != "Maria Ionescu (srv)" {
		t.Fatalf("expected store echo, got %q", got.Name)
	}
	if s.Committed().Name != "Maria Ionescu (srv)" {
		t.Fatalf("expected committed from store echo, got %q", s.Committed().Name)
	}
	if s.Committed().Email != committed.Email {
		t.Fatalf("email changed: %q", s.Committed().Email)
	}
	if s.Status() != StatusViewing {
		t.Fatalf("expected viewing, got %s", s.Status())
	}
	if s.Draft() != (Fields{}) {
		t.Fatalf("expected draft discarded, got %+v", s.Draft())
	}
}

func TestSubmitKeepsOwnerWhateverStoreEchoes(t *testing.T) {
	s := NewSession(testCommitted(), true)
	_ = s.StartEdit()
	w := &fakeWriter{result: func(_ string, f Fields) *Profile {
		p := testCommitted()
		p.OwnerID = "someone-else"
		return p
	}}
	if _, err := s.Submit(context.Background(), w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Committed().OwnerID != "uid-1" {
		t.Fatalf("owner changed to %q", s.Committed().OwnerID)
	}
}

func TestSubmitStoreFailureKeepsDraft(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldLocation, "Brașov")

	w := &fakeWriter{err: errors.New("deadline exceeded")}
	_, err := s.Submit(context.Background(), w)
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if se.Message != "deadline exceeded" {
		t.Fatalf("expected message passthrough, got %q", se.Message)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Fatal("store failure must not be a validation error")
	}
	if s.Status() != StatusEditing {
		t.Fatalf("expected editing, got %s", s.Status())
	}
	if s.Draft().Location != "Brașov" {
		t.Fatalf("expected draft kept, got %+v", s.Draft())
	}
	if s.Failure() != "deadline exceeded" {
		t.Fatalf("expected failure message, got %q", s.Failure())
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected no field errors, got %v", s.Errors())
	}
	if *s.Committed() != *committed {
		t.Fatalf("committed changed: %+v", s.Committed())
	}

	// Re-submitting recovers.
	w.err = nil
	w.result = serverEcho(committed)
	if _, err := s.Submit(context.Background(), w); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if s.Failure() != "" {
		t.Fatalf("expected failure cleared, got %q", s.Failure())
	}
}

func TestSubmitNilEchoIsStoreFailure(t *testing.T) {
	s := NewSession(testCommitted(), true)
	_ = s.StartEdit()
	_, err := s.Submit(context.Background(), &fakeWriter{})
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if s.Status() != StatusEditing {
		t.Fatalf("expected editing, got %s", s.Status())
	}
}

func TestSubmitRequiresEditing(t *testing.T) {
	s := NewSession(testCommitted(), true)
	if _, err := s.Submit(context.Background(), &fakeWriter{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSubmitWhileSavingIsRejected(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()

	w := &fakeWriter{
		result:  serverEcho(committed),
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), w)
		done <- err
	}()
	<-w.entered

	if s.Status() != StatusSaving {
		t.Fatalf("expected saving, got %s", s.Status())
	}
	if _, err := s.Submit(context.Background(), w); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	if _, err := s.BeginSubmit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected cancel to be refused while saving, got %v", err)
	}

	close(w.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.callCount() != 1 {
		t.Fatalf("expected exactly one store call, got %d", w.callCount())
	}
	if s.Status() != StatusViewing {
		t.Fatalf("expected viewing, got %s", s.Status())
	}
}

func TestSplitPhaseSubmit(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)
	_ = s.StartEdit()
	_ = s.ChangeField(FieldWebsite, " https://nou.example.ro ")

	fields, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Website != "https://nou.example.ro" {
		t.Fatalf("expected sanitized website, got %q", fields.Website)
	}
	if err := s.Fail("connection reset"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status() != StatusEditing || s.Failure() != "connection reset" {
		t.Fatalf("unexpected state %s / %q", s.Status(), s.Failure())
	}

	if _, err := s.BeginSubmit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := serverEcho(committed)(committed.OwnerID, fields)
	if err := s.Succeed(stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Committed().Website != "https://nou.example.ro" {
		t.Fatalf("unexpected committed website %q", s.Committed().Website)
	}
	if err := s.Succeed(stored); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Fail("late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSessionEmitsOutcomes(t *testing.T) {
	committed := testCommitted()
	s := NewSession(committed, true)

	var outcomes []Outcome
	s.Subscribe(func(o Outcome) { outcomes = append(outcomes, o) })

	_ = s.StartEdit()
	_ = s.ChangeField(FieldName, "")
	_, _ = s.Submit(context.Background(), &fakeWriter{})

	_ = s.ChangeField(FieldName, "Maria")
	_, _ = s.Submit(context.Background(), &fakeWriter{err: errors.New("unavailable")})
	_, _ = s.Submit(context.Background(), &fakeWriter{result: serverEcho(committed)})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Kind != OutcomeInvalid || outcomes[0].Errors[FieldName] != MsgNameRequired {
		t.Errorf("unexpected first outcome: %+v", outcomes[0])
	}
	if outcomes[1].Kind != OutcomeFailed || outcomes[1].Message != "unavailable" {
		t.Errorf("unexpected second outcome: %+v", outcomes[1])
	}
	if outcomes[2].Kind != OutcomeSaved || outcomes[2].Profile.Name != "Maria (srv)" {
		t.Errorf("unexpected third outcome: %+v", outcomes[2])
	}
	for _, o := range outcomes {
		if o.OwnerID != "uid-1" {
			t.Errorf("expected owner uid-1, got %q", o.OwnerID)
		}
	}
}
