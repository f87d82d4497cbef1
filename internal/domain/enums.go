package domain

type TaskType string

const (
	TaskDeadline        TaskType = "deadline"
	TaskNonNegotiable   TaskType = "nonNegotiable"
	TaskProcrastinating TaskType = "procrastinating"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[TaskType]bool{
	TaskDeadline: true, TaskNonNegotiable: true, TaskProcrastinating: true,
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// LearningStatus doubles as the user-facing stage label for modules.
type LearningStatus string

const (
	LearningNotStarted LearningStatus = "Not Started"
	LearningInProgress LearningStatus = "In Progress"
	LearningCompleted  LearningStatus = "Completed"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
)

var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectPlanning: true, ProjectInProgress: true, ProjectOnHold: true, ProjectCompleted: true,
}

type ModuleStatus string

const (
	ModuleNotStarted ModuleStatus = "Not Started"
	ModuleInProgress ModuleStatus = "In Progress"
	ModuleCompleted  ModuleStatus = "Completed"
)

var ValidModuleStatuses = map[ModuleStatus]bool{
	ModuleNotStarted: true, ModuleInProgress: true, ModuleCompleted: true,
}

type ModuleTaskStatus string

const (
	ModuleTaskPending    ModuleTaskStatus = "Pending"
	ModuleTaskInProgress ModuleTaskStatus = "In Progress"
	ModuleTaskCompleted  ModuleTaskStatus = "Completed"

	// moduleTaskDoneLegacy is an older spelling of Completed still accepted on input.
	moduleTaskDoneLegacy ModuleTaskStatus = "Done"
)

// NormalizeModuleTaskStatus maps legacy and empty values onto the canonical set.
func NormalizeModuleTaskStatus(s ModuleTaskStatus) (ModuleTaskStatus, error) {
	switch s {
	case "":
		return ModuleTaskPending, nil
	case moduleTaskDoneLegacy:
		return ModuleTaskCompleted, nil
	case ModuleTaskPending, ModuleTaskInProgress, ModuleTaskCompleted:
		return s, nil
	default:
		return "", Invalid("status", "unknown task status %q", s)
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}
