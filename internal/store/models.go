package store

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ScriptStatus represents the lifecycle of a script version.
type ScriptStatus string

const (
	ScriptStatusDraft             ScriptStatus = "DRAFT"
	ScriptStatusInReview          ScriptStatus = "IN_REVIEW"
	ScriptStatusRevisionRequested ScriptStatus = "REVISION_REQUESTED"
	ScriptStatusApproved          ScriptStatus = "APPROVED"
	ScriptStatusInProduction      ScriptStatus = "IN_PRODUCTION"
	ScriptStatusCompleted         ScriptStatus = "COMPLETED"
)

var allScriptStatuses = []ScriptStatus{
	ScriptStatusDraft,
	ScriptStatusInReview,
	ScriptStatusRevisionRequested,
	ScriptStatusApproved,
	ScriptStatusInProduction,
	ScriptStatusCompleted,
}

var scriptStatusSet = func() map[ScriptStatus]struct{} {
	set := make(map[ScriptStatus]struct{}, len(allScriptStatuses))
	for _, status := range allScriptStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// TaskType identifies one production stage's unit of work.
type TaskType string

const (
	TaskTypeFilming  TaskType = "FILMING"
	TaskTypeEditing  TaskType = "EDITING"
	TaskTypeReview   TaskType = "REVIEW"
	TaskTypeRevision TaskType = "REVISION"
	TaskTypeDelivery TaskType = "DELIVERY"
)

var allTaskTypes = []TaskType{
	TaskTypeFilming,
	TaskTypeEditing,
	TaskTypeReview,
	TaskTypeRevision,
	TaskTypeDelivery,
}

var taskTypeSet = func() map[TaskType]struct{} {
	set := make(map[TaskType]struct{}, len(allTaskTypes))
	for _, taskType := range allTaskTypes {
		set[taskType] = struct{}{}
	}
	return set
}()

// TaskStatus represents the state of a production task.
type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "QUEUED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

var allTaskStatuses = []TaskStatus{
	TaskStatusQueued,
	TaskStatusInProgress,
	TaskStatusBlocked,
	TaskStatusCompleted,
}

var taskStatusSet = func() map[TaskStatus]struct{} {
	set := make(map[TaskStatus]struct{}, len(allTaskStatuses))
	for _, status := range allTaskStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ConceptStatus represents the review state of a generated ad concept.
type ConceptStatus string

const (
	ConceptStatusGenerated         ConceptStatus = "GENERATED"
	ConceptStatusInReview          ConceptStatus = "IN_REVIEW"
	ConceptStatusApproved          ConceptStatus = "APPROVED"
	ConceptStatusRevisionRequested ConceptStatus = "REVISION_REQUESTED"
	ConceptStatusArchived          ConceptStatus = "ARCHIVED"
	ConceptStatusRejected          ConceptStatus = "REJECTED"
)

var conceptStatusSet = map[ConceptStatus]struct{}{
	ConceptStatusGenerated:         {},
	ConceptStatusInReview:          {},
	ConceptStatusApproved:          {},
	ConceptStatusRevisionRequested: {},
	ConceptStatusArchived:          {},
	ConceptStatusRejected:          {},
}

// AllScriptStatuses returns the ordered list of known script statuses.
func AllScriptStatuses() []ScriptStatus {
	cp := make([]ScriptStatus, len(allScriptStatuses))
	copy(cp, allScriptStatuses)
	return cp
}

// AllTaskTypes returns the ordered list of known task types.
func AllTaskTypes() []TaskType {
	cp := make([]TaskType, len(allTaskTypes))
	copy(cp, allTaskTypes)
	return cp
}

// AllTaskStatuses returns the ordered list of known task statuses.
func AllTaskStatuses() []TaskStatus {
	cp := make([]TaskStatus, len(allTaskStatuses))
	copy(cp, allTaskStatuses)
	return cp
}

// ParseScriptStatus converts a string into a known ScriptStatus.
func ParseScriptStatus(value string) (ScriptStatus, bool) {
	normalized := ScriptStatus(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := scriptStatusSet[normalized]
	return normalized, ok
}

// ParseTaskType converts a string into a known TaskType.
func ParseTaskType(value string) (TaskType, bool) {
	normalized := TaskType(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := taskTypeSet[normalized]
	return normalized, ok
}

// ParseTaskStatus converts a string into a known TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	normalized := TaskStatus(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := taskStatusSet[normalized]
	return normalized, ok
}

// ParseConceptStatus converts a string into a known ConceptStatus.
func ParseConceptStatus(value string) (ConceptStatus, bool) {
	normalized := ConceptStatus(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := conceptStatusSet[normalized]
	return normalized, ok
}

var labelCaser = cases.Title(language.English)

func labelize(value string) string {
	return labelCaser.String(strings.ToLower(strings.ReplaceAll(value, "_", " ")))
}

// Label returns a human-readable form for CLI and UI presentation.
func (s ScriptStatus) Label() string { return labelize(string(s)) }

// Label returns a human-readable form for CLI and UI presentation.
func (t TaskType) Label() string { return labelize(string(t)) }

// Label returns a human-readable form for CLI and UI presentation.
func (s TaskStatus) Label() string { return labelize(string(s)) }

// Script is one immutable version of an ad script. Edits create a new row
// with Version+1 and ParentID pointing at the previous version.
type Script struct {
	ID           string
	ConceptID    string
	Version      int
	Content      string // JSON: named sections with timing, spoken text, visual direction
	Duration     int    // seconds
	AspectRatios string // JSON array of strings
	TextOverlays string // JSON
	Status       ScriptStatus
	ApprovedAt   *time.Time
	ParentID     string // previous version, empty for version 1
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductionRequirement captures shooting and post-production needs for a
// script. One row per script, read-only after creation.
type ProductionRequirement struct {
	ID             string
	ScriptID       string
	LocationType   string
	TalentNeeded   string
	PropsRequired  string // JSON array
	ProductSamples bool
	SampleQuantity *int
	EquipmentNotes string
	AudioType      string
	StyleReference string
	Transitions    string
	ColorGrade     string
	MusicStyle     string
	Deliverables   string // JSON object: aspect ratio x caption variant
	CreatedAt      time.Time
}

// Task is a unit of production work attached to a script.
type Task struct {
	ID            string
	Type          TaskType
	Status        TaskStatus
	ScriptID      string
	AssigneeID    string // empty when unassigned
	EstimatedTime float64
	ActualTime    *float64
	DueDate       *time.Time
	ScheduledFor  *time.Time
	Notes         string
	Blockers      string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TeamMember is a person tasks can be assigned to. AssignedHours is derived
// on read from the member's non-completed tasks and never stored.
type TeamMember struct {
	ID            string
	Email         string
	Name          string
	Role          string
	CapacityHours float64
	AssignedHours float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Product is the thing being advertised.
type Product struct {
	ID          string
	Name        string
	Description string
	Features    string // JSON array
	USPs        string // JSON array
	PricePoint  string
	Offers      string
	ImageURLs   string // JSON array
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ICP is an ideal-customer profile concepts are targeted at.
type ICP struct {
	ID             string
	Name           string
	Demographics   string // JSON: ageRange, gender, location, income
	Psychographics string // JSON: interests, values, lifestyle
	PainPoints     string // JSON array
	Aspirations    string // JSON array
	BuyingTriggers string // JSON array
	Platforms      string // JSON array
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Concept is a generated ad concept tying a product to an ICP.
type Concept struct {
	ID          string
	ProductID   string
	ICPID       string
	Title       string
	HookType    string
	HookText    string
	Angle       string
	Format      string
	Platform    string
	CoreMessage string
	Rationale   string
	Complexity  string // LOW, MEDIUM, HIGH
	Status      ConceptStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
