package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeDialogueEmptyID      = "DIALOGUE_EMPTY_ID"
	CodeDesignEmptyOwner     = "DESIGN_EMPTY_OWNER"
	CodeDesignEmptyRoot      = "DESIGN_EMPTY_ROOT_LOCUS"
	CodeDesignEmptyID        = "DESIGN_EMPTY_ID"
	CodeCommitmentNoLabel    = "COMMITMENT_EMPTY_LABEL"
	CodeLocusPathInvalid     = "LOCUS_PATH_INVALID"
	CodeBaseNotFound         = "BASE_NOT_FOUND"
	CodeLocusNameEmpty       = "LOCUS_NAME_EMPTY"
	CodeLocusNameTaken       = "LOCUS_NAME_TAKEN"
	CodeLocusCopyCountNonPos = "LOCUS_COPY_COUNT_NOT_POSITIVE"
	CodeActInvalidKind       = "ACT_INVALID_KIND"
	CodeActInvalidPolarity   = "ACT_INVALID_POLARITY"
	CodeActEmptyLocus        = "ACT_EMPTY_LOCUS"
	CodeLocusNotOpened       = "LOCUS_NOT_OPENED"
	CodeIllegalAlternation   = "ILLEGAL_ALTERNATION"
	CodeDesignBranchClosed   = "DESIGN_BRANCH_CLOSED"
	CodeDelocationEmptyTag   = "DELOCATION_EMPTY_TAG"
	CodeDelocationTagInUse   = "DELOCATION_TAG_IN_USE"
	CodeCompositionModeBad   = "COMPOSITION_MODE_INVALID"
	CodeStepFuelNonPositive  = "STEP_FUEL_NOT_POSITIVE"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"
	CodeTraceActMissing      = "TRACE_ACT_MISSING"
	CodeStartActMissing      = "START_ACT_MISSING"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Request errors
		CodeBadRequest:        "The request is invalid",
		CodeDialogueEmptyID:   "Dialogue id cannot be empty",
		CodeDesignEmptyOwner:  "Design owner cannot be empty",
		CodeDesignEmptyRoot:   "Design root locus cannot be empty",
		CodeDesignEmptyID:     "Design id cannot be empty",
		CodeCommitmentNoLabel: "Commitment label cannot be empty",

		// Locus errors
		CodeLocusPathInvalid:     "Locus path {{.Path}} is not a valid dot path",
		CodeBaseNotFound:         "Base locus {{.Path}} does not exist",
		CodeLocusNameEmpty:       "Locus child name cannot be empty",
		CodeLocusNameTaken:       "Locus {{.Path}} already has a child named {{.Name}}",
		CodeLocusCopyCountNonPos: "Copy count must be positive",

		// Act/design legality errors
		CodeActInvalidKind:      "Act kind is not recognized",
		CodeActInvalidPolarity:  "Proper acts require a positive or negative polarity",
		CodeActEmptyLocus:       "Proper acts require a locus path",
		CodeLocusNotOpened:      "Locus {{.Path}} was not opened by a prior act",
		CodeIllegalAlternation:  "Consecutive proper acts must alternate polarity at {{.Path}}",
		CodeDesignBranchClosed:  "Design already played daimon; no further proper acts allowed",
		CodeDelocationEmptyTag:  "Delocation tag cannot be empty",
		CodeDelocationTagInUse:  "Delocation tag {{.Tag}} collides with an existing locus",
		CodeCompositionModeBad:  "Composition mode {{.Mode}} is not one of assoc, partial, spiritual",
		CodeStepFuelNonPositive: "Max pairs must be positive",

		// Storage errors
		CodeNotFound: "The requested record was not found",

		// Engine-internal invariant violations
		CodeInternal:        "Internal engine error",
		CodeTraceActMissing: "Trace references act {{.ActID}} that exists in neither design",
		CodeStartActMissing: "Start act {{.ActID}} is not part of the positive design",
	},
}
