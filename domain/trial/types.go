package trial

import (
	"time"

	"github.com/google/uuid"
)

// Side identifies one of the two adversarial parties in a case.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Valid reports whether the side is one of the two known parties.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

const (
	StatusDraft      CaseStatus = "draft"
	StatusInProgress CaseStatus = "in_progress"
	StatusFinalized  CaseStatus = "finalized"
)

// DefaultMaxRounds is the number of argument rounds a new case allows.
const DefaultMaxRounds = 5

// MinArgumentLength is the minimum accepted argument text length.
const MinArgumentLength = 10

// Case represents one trial
type Case struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CaseNumber   string     `json:"case_number" db:"case_number"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	CaseType     string     `json:"case_type" db:"case_type"`
	Jurisdiction string     `json:"jurisdiction" db:"jurisdiction"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	Status       CaseStatus `json:"status" db:"status"`
	CurrentRound int        `json:"current_round" db:"current_round"`
	MaxRounds    int        `json:"max_rounds" db:"max_rounds"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty" db:"finalized_at"`
}

// DocumentStatus tracks the text extraction lifecycle of a document
type DocumentStatus string

const (
	DocPending    DocumentStatus = "pending"
	DocProcessing DocumentStatus = "processing"
	DocReady      DocumentStatus = "ready"
	DocFailed     DocumentStatus = "failed"
)

// Document represents uploaded case evidence. Immutable once ready.
type Document struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	CaseID       uuid.UUID      `json:"case_id" db:"case_id"`
	Side         Side           `json:"side" db:"side"`
	Title        string         `json:"title" db:"title"`
	FileName     string         `json:"file_name" db:"file_name"`
	FilePath     string         `json:"-" db:"file_path"`
	FileType     string         `json:"file_type" db:"file_type"`
	FullText     *string        `json:"full_text,omitempty" db:"full_text"`
	PageCount    *int           `json:"page_count,omitempty" db:"page_count"`
	WordCount    *int           `json:"word_count,omitempty" db:"word_count"`
	UploadedBy   uuid.UUID      `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt   time.Time      `json:"uploaded_at" db:"uploaded_at"`
	Status       DocumentStatus `json:"status" db:"status"`
	ErrorMessage *string        `json:"error_message,omitempty" db:"error_message"`
}

// Argument is one side's written argument for one round.
// At most one exists per (case, round, side).
type Argument struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CaseID       uuid.UUID `json:"case_id" db:"case_id"`
	Round        int       `json:"round" db:"round"`
	Side         Side      `json:"side" db:"side"`
	ArgumentText string    `json:"argument_text" db:"argument_text"`
	SubmittedBy  uuid.UUID `json:"submitted_by" db:"submitted_by"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
}

// User represents an authenticated actor. Phone numbers are stored hashed.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	PhoneHash string     `json:"-" db:"phone_hash"`
	FullName  *string    `json:"full_name,omitempty" db:"full_name"`
	Email     *string    `json:"email,omitempty" db:"email"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// Progress captures the case state written together with a new verdict.
// The verdict row and this update commit in one transaction or not at all.
type Progress struct {
	CaseID       uuid.UUID
	Status       CaseStatus
	CurrentRound int
}

// SplitBySide partitions documents into side A and side B groups,
// preserving order.
func SplitBySide(docs []Document) (sideA, sideB []Document) {
	for _, d := range docs {
		switch d.Side {
		case SideA:
			sideA = append(sideA, d)
		case SideB:
			sideB = append(sideB, d)
		}
	}
	return sideA, sideB
}

// SplitArgumentsBySide partitions arguments into side A and side B groups.
func SplitArgumentsBySide(args []Argument) (sideA, sideB []Argument) {
	for _, a := range args {
		switch a.Side {
		case SideA:
			sideA = append(sideA, a)
		case SideB:
			sideB = append(sideB, a)
		}
	}
	return sideA, sideB
}
