package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Code generation
	CGInfo             Code = 4000
	CGUndeclaredSymbol Code = 4001
	CGError            Code = 4002
	CGInternal         Code = 4003
	CGUnsupported      Code = 4004
	CGLayout           Code = 4005

	// Lowering
	LowerInfo      Code = 5000
	LowerInternal  Code = 5001
	LowerFailed    Code = 5002
	LowerIllegalOp Code = 5003
	LowerVerify    Code = 5004

	// I/O, snapshots and emission
	IOInfo            Code = 6000
	IOReadFailed      Code = 6001
	IOWriteFailed     Code = 6002
	IOSnapshotFormat  Code = 6003
	IOSnapshotVersion Code = 6004
	IOConfig          Code = 6005
	IOEmitFailed      Code = 6006
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		CGInfo:             "Code generation information",
		CGUndeclaredSymbol: "Undeclared symbol",
		CGError:            "Code generation error",
		CGInternal:         "Internal code generator inconsistency",
		CGUnsupported:      "Unsupported construct",
		CGLayout:           "Type has no valid layout",
		LowerInfo:          "Lowering information",
		LowerInternal:      "Internal lowering inconsistency",
		LowerFailed:        "Lowering did not reach a legal module",
		LowerIllegalOp:     "Illegal operation remains after lowering",
		LowerVerify:        "Lowered module failed verification",
		IOInfo:             "I/O information",
		IOReadFailed:       "Cannot read input",
		IOWriteFailed:      "Cannot write output",
		IOSnapshotFormat:   "Malformed IR snapshot",
		IOSnapshotVersion:  "Unsupported IR snapshot version",
		IOConfig:           "Invalid configuration",
		IOEmitFailed:       "Backend emission failed",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
