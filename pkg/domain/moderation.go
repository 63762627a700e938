package domain

import "time"

// ModerationRecord stamps an administrator override onto the record it touched.
// It is retained for audit once set and never rewritten.
type ModerationRecord struct {
	AdminID   AdminID   `json:"adminId"`
	AdminName string    `json:"adminName"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"timestamp"`
}
