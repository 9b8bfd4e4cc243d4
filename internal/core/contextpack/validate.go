package contextpack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validatePack runs once over the merged result, so an individual layer
// may be partial as long as the final merge is complete
func validatePack(r rawRouting, people []rawPerson, companies []rawCompany, projects []rawProject) error {
	if err := validate.Struct(routingFile{Routing: r}); err != nil {
		return fmt.Errorf("contextpack: routing: %w", flatten(err))
	}
	for _, p := range people {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("contextpack: person %q: %w", p.ID, flatten(err))
		}
	}
	for _, c := range companies {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("contextpack: company %q: %w", c.ID, flatten(err))
		}
	}
	for _, p := range projects {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("contextpack: project %q: %w", p.ID, flatten(err))
		}
	}
	return nil
}

// flatten turns validator's error list into one line a human can act on
func flatten(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
