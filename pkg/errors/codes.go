package errors

// ErrorCode identifies a failure category.  Codes are stable strings so they
// can be emitted as metric labels and compared across process boundaries.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK             ErrorCode = "OK"
	CodeUnknown        ErrorCode = "COMMON_000"
	CodeInternal       ErrorCode = "COMMON_001"
	CodeInvalidParam   ErrorCode = "COMMON_002"
	CodeNotFound       ErrorCode = "COMMON_003"
	CodeConflict       ErrorCode = "COMMON_004"
	CodeUnavailable    ErrorCode = "COMMON_005"
	CodeSerialization  ErrorCode = "COMMON_006"
	CodeNotImplemented ErrorCode = "COMMON_007"
)

// Chemistry error codes.
const (
	// CodeInvalidSMILES marks a SMILES string that failed to parse.
	CodeInvalidSMILES ErrorCode = "CHEM_001"

	// CodeInvalidSMARTS marks a SMARTS pattern that failed to compile.
	CodeInvalidSMARTS ErrorCode = "CHEM_002"

	// CodeMoleculeNotFound marks a lookup miss in the molecule registry.
	CodeMoleculeNotFound ErrorCode = "CHEM_003"

	// CodeMoleculeExists marks an attempt to register a duplicate molecule.
	CodeMoleculeExists ErrorCode = "CHEM_004"

	// CodeSearchFailed marks a substructure search that could not run.
	CodeSearchFailed ErrorCode = "CHEM_005"
)

// Infrastructure error codes.
const (
	CodeDatabase ErrorCode = "INFRA_001"
	CodeCache    ErrorCode = "INFRA_002"
	CodeConfig   ErrorCode = "INFRA_003"
)
