// Package policy implements the eight scheduling algorithms (C5) sharing the driver loop
// of spec §4.5, plus their ULT-mode counterparts (§4.2-§4.4 integration).
package policy

import "strings"

// Name is a canonical, case-insensitive scheduling policy identifier (spec §6).
type Name string

const (
	FCFS     Name = "FCFS"
	RR       Name = "RR"
	PRIORITY Name = "PRIORITY"
	SJF      Name = "SJF"
	MLQ      Name = "MLQ"
	MLFQ     Name = "MLFQ"
	EDF      Name = "EDF"
	CFS      Name = "CFS"

	TFCFS     Name = "T_FCFS"
	TRR       Name = "T_RR"
	TPRIORITY Name = "T_PRIORITY"
	TMLFQ     Name = "T_MLFQ"
	TCFS      Name = "T_CFS"
)

// Parse normalizes a user-supplied policy name to its canonical form.
func Parse(s string) (Name, bool) {
	switch Name(strings.ToUpper(strings.TrimSpace(s))) {
	case FCFS:
		return FCFS, true
	case RR:
		return RR, true
	case PRIORITY:
		return PRIORITY, true
	case SJF:
		return SJF, true
	case MLQ:
		return MLQ, true
	case MLFQ:
		return MLFQ, true
	case EDF:
		return EDF, true
	case CFS:
		return CFS, true
	case TFCFS:
		return TFCFS, true
	case TRR:
		return TRR, true
	case TPRIORITY:
		return TPRIORITY, true
	case TMLFQ:
		return TMLFQ, true
	case TCFS:
		return TCFS, true
	default:
		return "", false
	}
}

// IsULT reports whether a policy name requests ULT-mode dispatch (the T_* family).
func (n Name) IsULT() bool {
	return strings.HasPrefix(string(n), "T_")
}

// Base strips the ULT "T_" prefix, mapping a ULT policy to the simulation policy whose
// ready-structure and post-slice semantics it reuses.
func (n Name) Base() Name {
	if n.IsULT() {
		return Name(strings.TrimPrefix(string(n), "T_"))
	}
	return n
}
