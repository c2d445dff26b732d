package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecommendationLog is an audit row for a transfer recommendation run:
// the request as received and the ranked result, stored as JSON.
type RecommendationLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Strategy  string         `gorm:"index" json:"strategy"`
	Request   datatypes.JSON `json:"request"`
	Response  datatypes.JSON `json:"response"`
	NetGain   float64        `json:"net_gain"`
	CreatedAt time.Time      `json:"created_at"`
}

func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}
