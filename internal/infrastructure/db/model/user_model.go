package model

import (
	"time"

	"gorm.io/gorm"
)

// UserModel 데이터베이스 ORM 모델
type UserModel struct {
	ID                string     `gorm:"type:char(12);primaryKey" json:"id"`
	MembershipID      *string    `gorm:"size:30;uniqueIndex" json:"membership_id,omitempty"`
	FullName          string     `gorm:"size:150;not null" json:"full_name"`
	Email             string     `gorm:"size:250;not null;uniqueIndex" json:"email"`
	PhoneNumber       string     `gorm:"size:20;not null;uniqueIndex" json:"phone_number"`
	Gender            string     `gorm:"size:10" json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	StateOfOrigin     string     `gorm:"size:100" json:"state_of_origin"`
	Lga               string     `gorm:"size:100" json:"lga"`
	Address           string     `gorm:"size:250" json:"address"`
	StateScoutCouncil string     `gorm:"size:150;index" json:"state_scout_council"`
	ScoutDivision     string     `gorm:"size:150" json:"scout_division"`
	ScoutDistrict     string     `gorm:"size:150" json:"scout_district"`
	Troop             string     `gorm:"size:150" json:"troop"`
	ScoutingRole      string     `gorm:"size:150" json:"scouting_role"`
	Section           string     `gorm:"size:50;default:'Volunteers'" json:"section"`
	ProfilePic        string     `gorm:"size:500" json:"profile_pic,omitempty"`

	Password string `gorm:"size:250;not null" json:"-"`
	Salt     string `gorm:"size:250;not null" json:"-"`

	Role   string `gorm:"size:50;not null;default:'member';index" json:"role"`
	Status string `gorm:"size:50;not null;default:'active';index" json:"status"`

	EmailVerified bool `gorm:"default:false" json:"email_verified"`
	PhoneVerified bool `gorm:"default:false" json:"phone_verified"`

	// MFA 설정
	EmailAuth      bool   `gorm:"default:false" json:"email_auth"`
	PhoneAuth      bool   `gorm:"default:false" json:"phone_auth"`
	AuthAppEnabled bool   `gorm:"default:false" json:"auth_app_enabled"`
	AuthAppSecret  string `gorm:"size:250" json:"-"`

	// OTP 슬롯
	EmailOtp        string     `gorm:"size:10" json:"-"`
	PhoneOtp        string     `gorm:"size:10" json:"-"`
	OtpExpires      *time.Time `json:"-"`
	ResetOtp        string     `gorm:"size:10" json:"-"`
	ResetOtpExpires *time.Time `json:"-"`

	// 로그인 잠금
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockUntil           *time.Time `json:"-"`
	IsLoggedIn          bool       `gorm:"default:false" json:"is_logged_in"`
	LastSignedIn        *time.Time `json:"last_signed_in,omitempty"`

	// 메타데이터 필드
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 테이블 이름 지정
func (UserModel) TableName() string {
	return "users"
}
