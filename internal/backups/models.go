package backups

import "time"

// BackupStatus is the outcome vocabulary shared by routines and logs. A
// routine's Status always mirrors its most recent log entry.
type BackupStatus string

const (
	StatusSuccess BackupStatus = "Sucesso"
	StatusError   BackupStatus = "Erro"
	StatusPending BackupStatus = "Pendente"
)

func (s BackupStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusPending:
		return true
	}
	return false
}

// BackupRoutine is a recurring backup job being tracked: what is backed
// up, how often, who owns it, and how its last run went.
type BackupRoutine struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Type        string       `json:"type" db:"type"`
	Frequency   string       `json:"frequency" db:"frequency"`
	Responsible string       `json:"responsible" db:"responsible"`
	Status      BackupStatus `json:"status" db:"status"`
	LastRun     *time.Time   `json:"lastRun" db:"last_run"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BackupLog is one recorded execution of a routine. Logs are append-only.
type BackupLog struct {
	ID        string       `json:"id" db:"id"`
	RoutineID string       `json:"routineId" db:"routine_id"`
	Status    BackupStatus `json:"status" db:"status"`
	Evidence  string       `json:"evidence" db:"evidence"`
	LogOutput string       `json:"logOutput" db:"log_output"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
}
