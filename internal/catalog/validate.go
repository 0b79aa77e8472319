package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateDocument performs all structural checks on a catalog document.
// Returns ErrDegenerateCatalog for an empty catalog, otherwise a combined
// error describing every problem found, or nil if valid.
func validateDocument(doc Document) error {
	if len(doc.Questions) == 0 {
		return ErrDegenerateCatalog
	}

	var errs []string

	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if doc.Version != "" && !semver.IsValid(doc.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a valid semantic version (want vMAJOR.MINOR.PATCH)", doc.Version))
	}

	ids := make(map[string]bool, len(doc.Questions))
	roles := make(map[Role]string)
	for _, q := range doc.Questions {
		if q.ID != "" {
			if ids[q.ID] {
				errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
			}
			ids[q.ID] = true
		}

		if !q.Role.Valid() {
			errs = append(errs, fmt.Sprintf("question %q has unknown role %q", q.ID, q.Role))
		} else if q.Tracked() {
			if prev, ok := roles[q.Role]; ok {
				errs = append(errs, fmt.Sprintf("role %q assigned to both %q and %q", q.Role, prev, q.ID))
			}
			roles[q.Role] = q.ID
		}

		values := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value == "" {
				continue
			}
			if values[o.Value] {
				errs = append(errs, fmt.Sprintf("question %q has duplicate option value %q", q.ID, o.Value))
			}
			values[o.Value] = true
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
