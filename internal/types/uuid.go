package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex slot_01HZX3V6J8Q2M4K9D7R1T5W0YB
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_SLOT         = "slot"
	UUID_PREFIX_MODEL        = "model"
	UUID_PREFIX_SHIFT        = "shift"
	UUID_PREFIX_COMMENT      = "cmt"
	UUID_PREFIX_HISTORY      = "hist"
	UUID_PREFIX_CHANGE_EVENT = "evt"
)
