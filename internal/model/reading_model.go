package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Reading struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SpreadType       string         `gorm:"type:varchar(32);not null;index"`
	Spread           datatypes.JSON `gorm:"type:jsonb;not null"`
	Cards            datatypes.JSON `gorm:"type:jsonb;not null"`
	Focus            string         `gorm:"type:varchar(255)"`
	Question         string         `gorm:"type:text"`
	State            string         `gorm:"type:varchar(16);not null"`
	Fingerprint      string         `gorm:"type:char(64);not null;index"`
	Interpretation   datatypes.JSON `gorm:"type:jsonb"`
	PartialKnowledge bool           `gorm:"default:false"`
	FailureNote      string         `gorm:"type:text"`
	Model            string         `gorm:"type:varchar(64)"`
	Provider         string         `gorm:"type:varchar(32)"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Reading) TableName() string {
	return "readings"
}
