// api/model/credential.go
package model

import (
	"net/http"
	"time"
)

// BearerToken is a long-lived opaque token issued without authentication.
type BearerToken struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

type CredentialKind int

const (
	CredentialMaster CredentialKind = iota + 1
	CredentialBearer
	CredentialValet
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialMaster:
		return "master"
	case CredentialBearer:
		return "bearer"
	case CredentialValet:
		return "valet"
	default:
		return "unknown"
	}
}

// Credential is the caller's identity, resolved once per request. Valet is
// set only for CredentialValet.
type Credential struct {
	Kind  CredentialKind
	Token string
	Valet *ValetKey
}

// RouteRequirement is declared per route and only applies to valet keys.
type RouteRequirement struct {
	Scope         string
	ResourceParam string
	Method        string
}

type DenialReason string

const (
	ReasonCredentialRequired   DenialReason = "credential_required"
	ReasonInvalidToken         DenialReason = "invalid_token"
	ReasonNotFound             DenialReason = "not_found"
	ReasonExpired              DenialReason = "expired"
	ReasonMissingScope         DenialReason = "missing_scope"
	ReasonMethodNotAllowed     DenialReason = "method_not_allowed"
	ReasonResourceNotPermitted DenialReason = "resource_not_permitted"
	ReasonValetCannotIssue     DenialReason = "valet_cannot_issue"
	ReasonCircuitOpen          DenialReason = "circuit_open"
	ReasonUnavailable          DenialReason = "unavailable"
	ReasonInvalidRequest       DenialReason = "invalid_request"
	ReasonForbidden            DenialReason = "forbidden"
	ReasonConflict             DenialReason = "conflict"
	ReasonInternal             DenialReason = "internal_error"
)

// Verdict is the outcome of a valet key check.
type Verdict struct {
	Allowed bool
	Reason  DenialReason
	Message string
}

func Allow() Verdict { return Verdict{Allowed: true} }

func Deny(reason DenialReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// Decision is the gatekeeper outcome for one request.
type Decision struct {
	Allowed bool         `json:"allowed"`
	Status  int          `json:"status"`
	Reason  DenialReason `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
}

func Admit() Decision { return Decision{Allowed: true, Status: http.StatusOK} }

func Reject(status int, reason DenialReason, message string) Decision {
	return Decision{Status: status, Reason: reason, Message: message}
}

// CircuitBreakerState is persisted per breaker key. CircuitOpen implies
// FailCount reached the threshold when it was opened.
type CircuitBreakerState struct {
	FailCount       int     `json:"fail_count"`
	CircuitOpen     bool    `json:"circuit_open"`
	LastFailureTime float64 `json:"last_failure_time"`
}

// AccessDecision is published once per gatekeeper decision.
type AccessDecision struct {
	Timestamp  time.Time
	Kind       CredentialKind
	Method     string
	Path       string
	ResourceID string
	Decision   Decision
}
