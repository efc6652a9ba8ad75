package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/Mullenmaster/terraform-version-manager/internal/core"
)

// NewConstraint compiles a version constraint. Terraform's pessimistic operator
// is accepted: "~> 1.5" means ">= 1.5, < 2.0" and "~> 1.5.2" means
// ">= 1.5.2, < 1.6.0". Everything else uses Masterminds/semver syntax.
func NewConstraint(expr string) (*semver.Constraints, error) {
	translated, err := translatePessimistic(expr)
	if err != nil {
		return nil, err
	}
	c, err := semver.NewConstraint(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: constraint %q: %v", core.ErrInvalidVersion, expr, err)
	}
	return c, nil
}

// Filter returns the versions that satisfy expr, preserving order.
func Filter(versions []string, expr string) ([]string, error) {
	if strings.TrimSpace(expr) == "" {
		return versions, nil
	}

	c, err := NewConstraint(expr)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(versions))
	for _, raw := range versions {
		sv, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if c.Check(sv) {
			out = append(out, raw)
		}
	}
	return out, nil
}

func translatePessimistic(expr string) (string, error) {
	clauses := strings.Split(expr, ",")
	for i, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if !strings.HasPrefix(clause, "~>") {
			clauses[i] = clause
			continue
		}

		operand := strings.TrimSpace(strings.TrimPrefix(clause, "~>"))
		parts := strings.Split(operand, ".")
		nums := make([]int, len(parts))
		for j, p := range parts {
			if _, err := fmt.Sscanf(p, "%d", &nums[j]); err != nil {
				return "", fmt.Errorf("%w: constraint %q", core.ErrInvalidVersion, clause)
			}
		}

		switch len(nums) {
		case 1:
			clauses[i] = fmt.Sprintf(">= %d.0.0", nums[0])
		case 2:
			clauses[i] = fmt.Sprintf(">= %d.%d.0, < %d.0.0", nums[0], nums[1], nums[0]+1)
		case 3:
			clauses[i] = fmt.Sprintf(">= %d.%d.%d, < %d.%d.0", nums[0], nums[1], nums[2], nums[0], nums[1]+1)
		default:
			return "", fmt.Errorf("%w: constraint %q", core.ErrInvalidVersion, clause)
		}
	}
	return strings.Join(clauses, ", "), nil
}
