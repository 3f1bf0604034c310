package model

import "gorm.io/gorm"

// User represents the acting principal referenced by system log entries.
// The reference from system_logs is weak: deleting a user clears the
// user_id column (ON DELETE SET NULL), it never removes log rows.
type User struct {
	gorm.Model
	Name  string `json:"name" gorm:"column:name;type:varchar(191)"`
	Email string `json:"email" gorm:"column:email;type:varchar(191);index"`
}
