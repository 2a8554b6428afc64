// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeBadRequest        Code = "BAD_REQUEST"
	CodeDialogueEmptyID   Code = "DIALOGUE_EMPTY_ID"
	CodeDesignEmptyOwner  Code = "DESIGN_EMPTY_OWNER"
	CodeDesignEmptyRoot   Code = "DESIGN_EMPTY_ROOT_LOCUS"
	CodeDesignEmptyID     Code = "DESIGN_EMPTY_ID"
	CodeCommitmentNoLabel Code = "COMMITMENT_EMPTY_LABEL"

	// Locus errors
	CodeLocusPathInvalid     Code = "LOCUS_PATH_INVALID"
	CodeBaseNotFound         Code = "BASE_NOT_FOUND"
	CodeLocusNameEmpty       Code = "LOCUS_NAME_EMPTY"
	CodeLocusNameTaken       Code = "LOCUS_NAME_TAKEN"
	CodeLocusCopyCountNonPos Code = "LOCUS_COPY_COUNT_NOT_POSITIVE"

	// Act/design legality errors
	CodeActInvalidKind      Code = "ACT_INVALID_KIND"
	CodeActInvalidPolarity  Code = "ACT_INVALID_POLARITY"
	CodeActEmptyLocus       Code = "ACT_EMPTY_LOCUS"
	CodeLocusNotOpened      Code = "LOCUS_NOT_OPENED"
	CodeIllegalAlternation  Code = "ILLEGAL_ALTERNATION"
	CodeDesignBranchClosed  Code = "DESIGN_BRANCH_CLOSED"
	CodeDelocationEmptyTag  Code = "DELOCATION_EMPTY_TAG"
	CodeDelocationTagInUse  Code = "DELOCATION_TAG_IN_USE"
	CodeCompositionModeBad  Code = "COMPOSITION_MODE_INVALID"
	CodeStepFuelNonPositive Code = "STEP_FUEL_NOT_POSITIVE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Engine-internal invariant violations
	CodeInternal        Code = "INTERNAL"
	CodeTraceActMissing Code = "TRACE_ACT_MISSING"
	CodeStartActMissing Code = "START_ACT_MISSING"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeBadRequest,
		CodeDialogueEmptyID,
		CodeDesignEmptyOwner,
		CodeDesignEmptyRoot,
		CodeDesignEmptyID,
		CodeCommitmentNoLabel,
		CodeLocusPathInvalid,
		CodeLocusNameEmpty,
		CodeLocusCopyCountNonPos,
		CodeActInvalidKind,
		CodeActInvalidPolarity,
		CodeActEmptyLocus,
		CodeDelocationEmptyTag,
		CodeCompositionModeBad,
		CodeStepFuelNonPositive:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeLocusNotOpened,
		CodeIllegalAlternation,
		CodeDesignBranchClosed,
		CodeLocusNameTaken,
		CodeDelocationTagInUse:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeBaseNotFound,
		CodeStartActMissing:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
