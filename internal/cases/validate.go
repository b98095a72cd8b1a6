package cases

import (
	"fmt"
	"strconv"
	"strings"

	"iat/internal/domain"
)

// Defaults the improver CLI applies when a flag is omitted.
const (
	defaultMaxLeadTime      = 360
	defaultLeadTimeInterval = 15
)

// ValidationError lists every problem found in a case definition.
type ValidationError struct {
	CaseID   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid case %q: %s", e.CaseID, strings.Join(e.Problems, "; "))
}

// Validate checks a case definition before anything is executed.
func Validate(c domain.Case) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Command == "" {
		add("command is required")
	}
	if c.Name == "" {
		add("name is required")
	}
	if c.KGO == "" {
		add("kgo is required")
	}
	if len(c.Inputs) == 0 {
		add("at least one input is required")
	}
	if c.Tolerance < 0 {
		add("tolerance must not be negative")
	}

	seen := make(map[string]bool, len(c.Options))
	for _, o := range c.Options {
		switch {
		case o.Flag == "":
			add("option with empty flag")
			continue
		case strings.HasPrefix(o.Flag, "-"):
			add("option %q must not include leading dashes", o.Flag)
		}
		if seen[o.Flag] {
			add("option --%s given more than once", o.Flag)
		}
		seen[o.Flag] = true
		if len(o.Paths) > 0 && len(o.Values) > 0 {
			add("option --%s mixes paths and values", o.Flag)
		}
	}

	if c.Command == CommandNowcastExtrapolate {
		problems = append(problems, validateExtrapolate(c)...)
	}

	if len(problems) > 0 {
		return &ValidationError{CaseID: c.ID(), Problems: problems}
	}
	return nil
}

// validateExtrapolate mirrors the argument rules nowcast-extrapolate enforces.
func validateExtrapolate(c domain.Case) []string {
	var problems []string

	_, hasUV := c.Option(FlagUAndVFilepath)
	_, hasSpeed := c.Option(FlagAdvectionSpeed)
	_, hasDirection := c.Option(FlagAdvectionDirection)
	switch {
	case hasUV && (hasSpeed || hasDirection):
		problems = append(problems, "cannot mix advection component velocities with speed and direction")
	case !hasUV && hasSpeed != hasDirection:
		problems = append(problems, "advection speed and direction must be given together")
	case !hasUV && !hasSpeed:
		problems = append(problems, "either --u_and_v_filepath or advection speed and direction is required")
	}

	ints := make(map[string]int)
	for _, flag := range []string{FlagMaxLeadTime, FlagLeadTimeInterval, FlagPressureLevel, FlagAccumulationFidelity} {
		o, ok := c.Option(flag)
		if !ok {
			continue
		}
		if len(o.Values) != 1 {
			problems = append(problems, fmt.Sprintf("--%s takes exactly one value", flag))
			continue
		}
		n, err := strconv.Atoi(o.Values[0])
		if err != nil {
			problems = append(problems, fmt.Sprintf("--%s must be an integer, got %q", flag, o.Values[0]))
			continue
		}
		ints[flag] = n
	}

	maxLead, ok := ints[FlagMaxLeadTime]
	if !ok {
		maxLead = defaultMaxLeadTime
	}
	interval, ok := ints[FlagLeadTimeInterval]
	if !ok {
		interval = defaultLeadTimeInterval
	}
	if maxLead <= 0 {
		problems = append(problems, "--max_lead_time must be positive")
	}
	if interval <= 0 {
		problems = append(problems, "--lead_time_interval must be positive")
	}
	if fidelity := ints[FlagAccumulationFidelity]; fidelity < 0 {
		problems = append(problems, "--accumulation_fidelity must not be negative")
	} else if fidelity > 0 && maxLead > 0 && maxLead%fidelity != 0 {
		problems = append(problems, fmt.Sprintf(
			"--max_lead_time (%d) is not cleanly divisible by --accumulation_fidelity (%d)", maxLead, fidelity))
	}

	return problems
}
