// Package testkit provides in-memory port implementations for service
// tests. The stores enforce the same uniqueness and transaction contracts
// as the Postgres adapters.
package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/domain/verdict"
	"tribunal/ports"

	"github.com/google/uuid"
)

// CaseStore is an in-memory ports.CaseRepository and ports.CaseCounter.
type CaseStore struct {
	mu    sync.Mutex
	cases map[uuid.UUID]trial.Case

	Documents *DocumentStore
	Arguments *ArgumentStore
	Verdicts  *VerdictStore
}

func NewCaseStore() *CaseStore {
	return &CaseStore{cases: make(map[uuid.UUID]trial.Case)}
}

func (s *CaseStore) Create(_ context.Context, c *trial.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = *c
	return nil
}

func (s *CaseStore) GetByID(_ context.Context, id uuid.UUID) (*trial.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, core.ErrCaseNotFound
	}
	out := c
	return &out, nil
}

func (s *CaseStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]trial.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trial.Case
	for _, c := range s.cases {
		if c.CreatedBy == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CaseStore) Update(_ context.Context, c *trial.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; !ok {
		return core.ErrCaseNotFound
	}
	s.cases[c.ID] = *c
	return nil
}

func (s *CaseStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[id]; !ok {
		return core.ErrCaseNotFound
	}
	delete(s.cases, id)
	return nil
}

func (s *CaseStore) Finalize(_ context.Context, id uuid.UUID, at time.Time) (*trial.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, core.ErrCaseNotFound
	}
	if c.Status == trial.StatusFinalized {
		return nil, core.ErrCaseFinalized
	}
	c.Status = trial.StatusFinalized
	c.FinalizedAt = &at
	s.cases[id] = c
	out := c
	return &out, nil
}

func (s *CaseStore) Counts(ctx context.Context, caseID uuid.UUID) (*ports.CaseCounts, error) {
	counts := &ports.CaseCounts{}
	if s.Documents != nil {
		docs, _ := s.Documents.ListByCase(ctx, caseID)
		counts.Documents = len(docs)
		a, b := trial.SplitBySide(docs)
		counts.SideADocs = len(a)
		counts.SideBDocs = len(b)
	}
	if s.Arguments != nil {
		args, _ := s.Arguments.ListByCase(ctx, caseID)
		counts.Arguments = len(args)
	}
	if s.Verdicts != nil {
		vs, _ := s.Verdicts.ListByCase(ctx, caseID)
		counts.Verdicts = len(vs)
	}
	return counts, nil
}

// advance applies a verdict's progress update. Called by VerdictStore
// inside its own lock; the case lock is taken here.
func (s *CaseStore) advance(p trial.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[p.CaseID]
	if !ok {
		return
	}
	c.Status = p.Status
	c.CurrentRound = p.CurrentRound
	s.cases[p.CaseID] = c
}

// DocumentStore is an in-memory ports.DocumentRepository.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[uuid.UUID]trial.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[uuid.UUID]trial.Document)}
}

func (s *DocumentStore) Create(_ context.Context, d *trial.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = *d
	return nil
}

func (s *DocumentStore) GetByID(_ context.Context, caseID, id uuid.UUID) (*trial.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok || d.CaseID != caseID {
		return nil, core.ErrDocumentNotFound
	}
	out := d
	return &out, nil
}

func (s *DocumentStore) ListByCase(_ context.Context, caseID uuid.UUID) ([]trial.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trial.Document
	for _, d := range s.docs {
		if d.CaseID == caseID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (s *DocumentStore) ListReady(ctx context.Context, caseID uuid.UUID) ([]trial.Document, error) {
	all, _ := s.ListByCase(ctx, caseID)
	var out []trial.Document
	for _, d := range all {
		if d.Status == trial.DocReady {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DocumentStore) MarkProcessing(_ context.Context, id uuid.UUID) error {
	return s.mutate(id, func(d *trial.Document) {
		d.Status = trial.DocProcessing
	})
}

func (s *DocumentStore) MarkReady(_ context.Context, id uuid.UUID, fullText string, wordCount, pageCount int) error {
	return s.mutate(id, func(d *trial.Document) {
		d.Status = trial.DocReady
		d.FullText = &fullText
		d.WordCount = &wordCount
		d.PageCount = &pageCount
		d.ErrorMessage = nil
	})
}

func (s *DocumentStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return s.mutate(id, func(d *trial.Document) {
		d.Status = trial.DocFailed
		d.ErrorMessage = &reason
	})
}

func (s *DocumentStore) Delete(_ context.Context, caseID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok || d.CaseID != caseID {
		return core.ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *DocumentStore) mutate(id uuid.UUID, fn func(*trial.Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return core.ErrDocumentNotFound
	}
	fn(&d)
	s.docs[id] = d
	return nil
}

// ArgumentStore is an in-memory ports.ArgumentRepository enforcing the
// (case, round, side) uniqueness invariant.
type ArgumentStore struct {
	mu   sync.Mutex
	args []trial.Argument
}

func NewArgumentStore() *ArgumentStore {
	return &ArgumentStore{}
}

func (s *ArgumentStore) Create(_ context.Context, a *trial.Argument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.args {
		if existing.CaseID == a.CaseID && existing.Round == a.Round && existing.Side == a.Side {
			return core.ErrDuplicateSubmission
		}
	}
	s.args = append(s.args, *a)
	return nil
}

func (s *ArgumentStore) ListByRound(_ context.Context, caseID uuid.UUID, round int) ([]trial.Argument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trial.Argument
	for _, a := range s.args {
		if a.CaseID == caseID && a.Round == round {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Side < out[j].Side })
	return out, nil
}

func (s *ArgumentStore) ListByCase(_ context.Context, caseID uuid.UUID) ([]trial.Argument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trial.Argument
	for _, a := range s.args {
		if a.CaseID == caseID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Side < out[j].Side
	})
	return out, nil
}

// VerdictStore is an in-memory ports.VerdictRepository. CreateAndAdvance
// applies the verdict insert and the case progress update atomically under
// the store lock, mirroring the single-transaction persistence contract.
type VerdictStore struct {
	mu       sync.Mutex
	verdicts []verdict.Verdict
	cases    *CaseStore
}

func NewVerdictStore(cases *CaseStore) *VerdictStore {
	return &VerdictStore{cases: cases}
}

func (s *VerdictStore) Exists(_ context.Context, caseID uuid.UUID, round int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(caseID, round) != nil, nil
}

func (s *VerdictStore) GetByRound(_ context.Context, caseID uuid.UUID, round int) (*verdict.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.find(caseID, round); v != nil {
		out := *v
		return &out, nil
	}
	return nil, core.ErrVerdictNotFound
}

func (s *VerdictStore) ListByCase(_ context.Context, caseID uuid.UUID) ([]verdict.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []verdict.Verdict
	for _, v := range s.verdicts {
		if v.CaseID == caseID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (s *VerdictStore) CreateAndAdvance(_ context.Context, v *verdict.Verdict, next trial.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(v.CaseID, v.Round) != nil {
		return core.ErrDuplicateVerdict
	}
	s.verdicts = append(s.verdicts, *v)
	if s.cases != nil {
		s.cases.advance(next)
	}
	return nil
}

func (s *VerdictStore) find(caseID uuid.UUID, round int) *verdict.Verdict {
	for i := range s.verdicts {
		if s.verdicts[i].CaseID == caseID && s.verdicts[i].Round == round {
			return &s.verdicts[i]
		}
	}
	return nil
}

// UserStore is an in-memory ports.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]trial.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]trial.User)}
}

func (s *UserStore) Create(_ context.Context, u *trial.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*trial.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (s *UserStore) GetByPhoneHash(_ context.Context, phoneHash string) (*trial.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.PhoneHash == phoneHash {
			out := u
			return &out, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (s *UserStore) Touch(_ context.Context, id uuid.UUID, at time.Time, fullName, email *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.LastLogin = &at
	if fullName != nil {
		u.FullName = fullName
	}
	if email != nil {
		u.Email = email
	}
	s.users[id] = u
	return nil
}
