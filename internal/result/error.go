// Package result provides a uniform value-or-error carrier for operations
// that can fail with a categorised, stable-numeric-identity error, plus a
// generic-condition equivalence relation so callers can ask "was this a
// timeout" without caring which concrete code produced it.
package result

import "fmt"

// ErrorCode is a stable numeric identifier for a failure kind. Values are
// never renumbered once assigned; a default-constructed ErrorCode(0) is
// InvalidErrorCode.
type ErrorCode int

const (
	InvalidErrorCode ErrorCode = iota

	// Domain errors.
	AccountExists
	BadAddress
	BadViewKey
	BadBlockchain
	BadClientTx
	BadDaemonResponse
	BlockchainReorg
	CreateQueueMax
	CryptoFailure
	DaemonTimeout
	DuplicateRequest
	ExceededBlockchainBuffer
	ExceededRestRequestLimit
	ExchangeRatesDisabled
	ExchangeRatesFetch
	ExchangeRatesOld
	NoSuchAccount
	SignalAbortProcess
	SignalAbortScan
	SignalUnknown
	SystemClockInvalidRange
	TxRelayFailed

	// JSON-layer errors.
	BufferOverflow
	ExpectedArray
	ExpectedBool
	ExpectedDouble
	ExpectedFloat
	ExpectedObject
	ExpectedString
	ExpectedUnsigned
	InvalidHex
	MissingField
	Overflow
	UnexpectedField
	Underflow

	// Internal invariant violations; always fatal (HTTP 500).
	InternalInvariantViolation
)

// GenericCondition is a cross-component, category-level condition that
// several concrete ErrorCodes may be equivalent to (e.g. DaemonTimeout is
// equivalent to the generic Timeout condition regardless of which call
// timed out).
type GenericCondition int

const (
	_ GenericCondition = iota
	Timeout
	Interrupted
	NotFound
	AlreadyExists
	InvalidInput
)

var codeNames = map[ErrorCode]string{
	InvalidErrorCode:           "InvalidErrorCode",
	AccountExists:              "AccountExists",
	BadAddress:                 "BadAddress",
	BadViewKey:                 "BadViewKey",
	BadBlockchain:              "BadBlockchain",
	BadClientTx:                "BadClientTx",
	BadDaemonResponse:          "BadDaemonResponse",
	BlockchainReorg:            "BlockchainReorg",
	CreateQueueMax:             "CreateQueueMax",
	CryptoFailure:              "CryptoFailure",
	DaemonTimeout:              "DaemonTimeout",
	DuplicateRequest:           "DuplicateRequest",
	ExceededBlockchainBuffer:   "ExceededBlockchainBuffer",
	ExceededRestRequestLimit:   "ExceededRestRequestLimit",
	ExchangeRatesDisabled:      "ExchangeRatesDisabled",
	ExchangeRatesFetch:         "ExchangeRatesFetch",
	ExchangeRatesOld:           "ExchangeRatesOld",
	NoSuchAccount:              "NoSuchAccount",
	SignalAbortProcess:         "SignalAbortProcess",
	SignalAbortScan:            "SignalAbortScan",
	SignalUnknown:              "SignalUnknown",
	SystemClockInvalidRange:    "SystemClockInvalidRange",
	TxRelayFailed:              "TxRelayFailed",
	BufferOverflow:             "BufferOverflow",
	ExpectedArray:              "ExpectedArray",
	ExpectedBool:               "ExpectedBool",
	ExpectedDouble:             "ExpectedDouble",
	ExpectedFloat:              "ExpectedFloat",
	ExpectedObject:             "ExpectedObject",
	ExpectedString:             "ExpectedString",
	ExpectedUnsigned:           "ExpectedUnsigned",
	InvalidHex:                 "InvalidHex",
	MissingField:               "MissingField",
	Overflow:                   "Overflow",
	UnexpectedField:            "UnexpectedField",
	Underflow:                  "Underflow",
	InternalInvariantViolation: "InternalInvariantViolation",
}

// equivalence maps each ErrorCode to the GenericCondition a caller may
// compare it against. Codes absent from this map have no generic
// equivalent.
var equivalence = map[ErrorCode]GenericCondition{
	DaemonTimeout:              Timeout,
	SignalAbortProcess:         Interrupted,
	SignalAbortScan:            Interrupted,
	SignalUnknown:              Interrupted,
	NoSuchAccount:              NotFound,
	AccountExists:              AlreadyExists,
	DuplicateRequest:           AlreadyExists,
	BadAddress:                 InvalidInput,
	BadViewKey:                 InvalidInput,
	BadClientTx:                InvalidInput,
	ExceededRestRequestLimit:   InvalidInput,
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Error is the carrier's failure shape: a category-stable code plus a
// human-readable message and an optional wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError builds an Error. A zero-value ErrorCode passed in is
// InvalidErrorCode by construction, per the carrier's "default-constructed
// error code is invalid" contract.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a causing error while preserving the code.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether e is semantically equivalent to the given generic
// condition, regardless of the concrete code that produced it.
func (e *Error) Is(cond GenericCondition) bool {
	if e == nil {
		return false
	}
	got, ok := equivalence[e.Code]
	return ok && got == cond
}

// Errorf builds an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}
