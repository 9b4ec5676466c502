// Package entities defines the GORM models for the SeoDeck database.
package entities

import "time"

// Client is a site managed by the agency. The automation engine reads
// clients as monitored entities; it never writes them.
type Client struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	Domain              string     `gorm:"size:255;not null;uniqueIndex" json:"domain"`
	IsActive            bool       `gorm:"not null;index;default:true" json:"is_active"`
	LastDeployAt        *time.Time `json:"last_deploy_at"`
	LastContentUpdateAt *time.Time `json:"last_content_update_at"`
	// StaleAfterDays is the per-client staleness window. Zero means the
	// configured default applies.
	StaleAfterDays int       `gorm:"not null;default:0" json:"stale_after_days"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Client) TableName() string {
	return "clients"
}
