package postgres

import (
	"encoding/json"
	"fmt"

	id "placement/pkg/domain"
)

// EncodeModeration renders r for a nullable JSONB column.
func EncodeModeration(r *id.ModerationRecord) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal moderation record: %w", err)
	}
	return raw, nil
}

// DecodeModeration is the inverse of EncodeModeration; NULL decodes to nil.
func DecodeModeration(raw []byte) (*id.ModerationRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var r id.ModerationRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("unmarshal moderation record: %w", err)
	}
	return &r, nil
}
