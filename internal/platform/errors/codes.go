// Package errors provides structured error handling for puzzlebox services.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Content payload errors (load-time validation)
	CodeContentInvalidJSON        Code = "CONTENT_INVALID_JSON"
	CodeContentUnknownGameType    Code = "CONTENT_UNKNOWN_GAME_TYPE"
	CodeContentDimensionMismatch  Code = "CONTENT_DIMENSION_MISMATCH"
	CodeContentValueOutOfRange    Code = "CONTENT_VALUE_OUT_OF_RANGE"
	CodeContentMissingField       Code = "CONTENT_MISSING_FIELD"
	CodeContentSolutionMismatch   Code = "CONTENT_SOLUTION_MISMATCH"
	CodeContentDuplicateEntry     Code = "CONTENT_DUPLICATE_ENTRY"
	CodeContentUnreachableElement Code = "CONTENT_UNREACHABLE_ELEMENT"

	// Catalog errors
	CodeCatalogEmptyID            Code = "CATALOG_EMPTY_ID"
	CodeCatalogInvalidGameType    Code = "CATALOG_INVALID_GAME_TYPE"
	CodeCatalogInvalidDifficulty  Code = "CATALOG_INVALID_DIFFICULTY"
	CodeCatalogInvalidDate        Code = "CATALOG_INVALID_DATE"
	CodeCatalogInvalidFilter      Code = "CATALOG_INVALID_FILTER"
	CodeCatalogInvalidPageSize    Code = "CATALOG_INVALID_PAGE_SIZE"
	CodeCatalogInvalidPageToken   Code = "CATALOG_INVALID_PAGE_TOKEN"
	CodeCatalogInvalidOrderBy     Code = "CATALOG_INVALID_ORDER_BY"
	CodeCatalogDuplicateAssigned  Code = "CATALOG_DUPLICATE_ASSIGNMENT"
	CodeCatalogNoDailyCandidate   Code = "CATALOG_NO_DAILY_CANDIDATE"

	// Session errors
	CodeSessionEmptyID         Code = "SESSION_EMPTY_ID"
	CodeSessionUnknownOp       Code = "SESSION_UNKNOWN_OPERATION"
	CodeSessionUndoUnsupported Code = "SESSION_UNDO_UNSUPPORTED"
	CodeSessionUndoExhausted   Code = "SESSION_UNDO_EXHAUSTED"
	CodeSessionCompleted       Code = "SESSION_COMPLETED"
	CodeSessionMoveRejected    Code = "SESSION_MOVE_REJECTED"
	CodeSessionNothingToUndo   Code = "SESSION_NOTHING_TO_UNDO"

	// Authoring grant errors
	CodeGrantInvalid      Code = "GRANT_INVALID"
	CodeGrantExpired      Code = "GRANT_EXPIRED"
	CodeGrantScopeMissing Code = "GRANT_SCOPE_MISSING"

	// Dictionary errors
	CodeDictionaryWordTooShort    Code = "DICTIONARY_WORD_TOO_SHORT"
	CodeDictionaryTooManyLetters  Code = "DICTIONARY_TOO_MANY_LETTERS"
	CodeDictionaryWordRejected    Code = "DICTIONARY_WORD_REJECTED"
	CodeDictionaryMissingPangram  Code = "DICTIONARY_MISSING_PANGRAM"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeContentInvalidJSON,
		CodeContentUnknownGameType,
		CodeContentDimensionMismatch,
		CodeContentValueOutOfRange,
		CodeContentMissingField,
		CodeContentSolutionMismatch,
		CodeContentDuplicateEntry,
		CodeContentUnreachableElement,
		CodeCatalogEmptyID,
		CodeCatalogInvalidGameType,
		CodeCatalogInvalidDifficulty,
		CodeCatalogInvalidDate,
		CodeCatalogInvalidFilter,
		CodeCatalogInvalidPageSize,
		CodeCatalogInvalidPageToken,
		CodeCatalogInvalidOrderBy,
		CodeSessionEmptyID,
		CodeSessionUnknownOp,
		CodeGrantInvalid,
		CodeDictionaryWordTooShort,
		CodeDictionaryTooManyLetters,
		CodeDictionaryWordRejected,
		CodeDictionaryMissingPangram,
		CodeSeedOutOfRange:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeSessionUndoUnsupported,
		CodeSessionUndoExhausted,
		CodeSessionCompleted,
		CodeSessionMoveRejected,
		CodeSessionNothingToUndo,
		CodeGrantExpired,
		CodeCatalogNoDailyCandidate:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyExists,
		CodeCatalogDuplicateAssigned:
		return codes.AlreadyExists

	// PermissionDenied - authenticated but not allowed
	case CodeGrantScopeMissing:
		return codes.PermissionDenied

	default:
		return codes.Internal
	}
}
