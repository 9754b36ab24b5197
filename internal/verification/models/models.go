package models

import (
	"sadapurne/internal/certificate"
	"sadapurne/internal/verification/classify"
	"sadapurne/internal/verification/format"
	"sadapurne/internal/verification/namematch"
)

// Stage identifies the pipeline step that rejected a claim.
type Stage string

const (
	StageInputValidation      Stage = "input_validation"
	StageExtraction           Stage = "extraction"
	StageFormatValidation     Stage = "format_validation"
	StageNameMatch            Stage = "name_match"
	StageIncomeClassification Stage = "income_classification"
	// StageServerError is only used by transport for unexpected faults.
	StageServerError Stage = "server_error"
)

// State is the position of a run in the verification state machine.
type State string

const (
	StateReceivedClaim State = "received_claim"
	StateExtracted     State = "extracted"
	StateFormatChecked State = "format_checked"
	StateNameChecked   State = "name_checked"
	StateClassified    State = "classified"
	StatePersisted     State = "persisted"
	StateFailed        State = "failed"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Claim is what a producer submits: identity, business name, certificate and income.
type Claim struct {
	Aadhar       string
	Name         string
	Certificate  []byte
	AnnualIncome float64
}

// Failure describes where and why a run stopped.
type Failure struct {
	Stage   Stage
	Message string
	Details map[string]any
	Issues  []format.Issue
}

// Verified is the outcome of a run that passed every stage.
type Verified struct {
	Record         certificate.Record
	Name           namematch.Result
	Format         format.Report
	Classification classify.Outcome
	DataStored     bool
	// PIN is returned once; only its hash is persisted.
	PIN string
}

// Result is exactly one of Failure or Verified.
type Result struct {
	Status   Status
	State    State
	Failure  *Failure
	Verified *Verified
}

// Failed builds a failed result for stage.
func Failed(stage Stage, message string, details map[string]any) *Result {
	return &Result{
		Status:  StatusFailed,
		State:   StateFailed,
		Failure: &Failure{Stage: stage, Message: message, Details: details},
	}
}

func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}
