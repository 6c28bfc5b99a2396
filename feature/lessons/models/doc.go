// Package models defines the GORM models of the lesson store: teachers, their
// school memberships, school subjects and lessons.
package models
