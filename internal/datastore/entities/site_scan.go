package entities

import "time"

// SiteScan is the result of one crawl of a client site. The "scan" snapshot
// source flattens the latest scan per client for condition evaluation.
type SiteScan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ClientID       uint      `gorm:"not null;index:idx_site_scans_client_created,priority:1" json:"client_id"`
	Score          int       `gorm:"not null" json:"score"`
	IssuesCritical int       `gorm:"not null;default:0" json:"issues_critical"`
	IssuesTotal    int       `gorm:"not null;default:0" json:"issues_total"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_site_scans_client_created,priority:2" json:"created_at"`
	Client         Client    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM.
func (SiteScan) TableName() string {
	return "site_scans"
}
