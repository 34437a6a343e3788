package todo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// IDFunc generates task identifiers.
type IDFunc func() string

// ID formats accepted by IDGenerator.
const (
	IDFormatXID  = "xid"
	IDFormatUUID = "uuid"
)

// NewXID returns a 20 character, time-ordered identifier.
func NewXID() string {
	return xid.New().String()
}

// NewUUIDv7 returns a time-ordered UUID (version 7).
func NewUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IDGenerator returns the generator for an ID format name.
// Empty selects xid.
func IDGenerator(format string) (IDFunc, error) {
	switch format {
	case "", IDFormatXID:
		return NewXID, nil
	case IDFormatUUID, "uuidv7":
		return NewUUIDv7, nil
	default:
		return nil, fmt.Errorf("unknown id format %q (expected xid or uuid)", format)
	}
}
