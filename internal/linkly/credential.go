package linkly

import (
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/validation"
)

// Credential identifies a Linkly workspace. Every request carries both
// values as headers.
type Credential struct {
	APIKey      string `json:"api_key" validate:"notblank"`
	WorkspaceID string `json:"workspace_id" validate:"notblank,numeric"`
}

// Validate reports the first missing or malformed credential field.
func (c Credential) Validate() error {
	if err := validation.Validate(c); err != nil {
		field, tag := validation.FirstInvalidField(err)
		return fmt.Errorf("invalid linkly credential: %s failed %s", field, tag)
	}
	return nil
}
