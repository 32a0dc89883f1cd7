package models

import "time"

// ConnectionStatus is the lifecycle state of a connection request
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// ConnectionRequest asks another user to connect as relatives
type ConnectionRequest struct {
	ID          string           `json:"id"`
	FromUserID  string           `json:"fromUserId"`
	ToUserID    string           `json:"toUserId"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
}

// ConnectionID builds the deterministic request id for a pair of users
func ConnectionID(fromUserID, toUserID string) string {
	return fromUserID + "_" + toUserID
}

// SuggestedMatch is a profile that looks related to the requesting user
type SuggestedMatch struct {
	UserID   string   `json:"userId"`
	FullName string   `json:"fullName,omitempty"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}
