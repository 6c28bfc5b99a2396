package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Teacher is a person who can be assigned lessons.
type Teacher struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Teacher) TableName() string {
	return "teachers"
}

// BeforeCreate assigns a UUID when none is set.
func (t *Teacher) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SchoolTeacher records a teacher's membership of a school.
// Only active members are eligible for name resolution.
type SchoolTeacher struct {
	SchoolID  string `gorm:"column:school_id;primaryKey;size:36"`
	TeacherID string `gorm:"column:teacher_id;primaryKey;size:36"`
	Active    bool   `gorm:"column:active;not null"`
}

// TableName overrides the table name.
func (SchoolTeacher) TableName() string {
	return "school_teachers"
}

// Subject is a school-scoped subject such as "Piano".
type Subject struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	SchoolID  string    `gorm:"column:school_id;size:36;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Subject) TableName() string {
	return "subjects"
}

// BeforeCreate assigns a UUID when none is set.
func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Lesson is the stored, authoritative lesson record.
type Lesson struct {
	ID          string  `gorm:"column:id;primaryKey;size:36"`
	SchoolID    string  `gorm:"column:school_id;size:36;not null;index"`
	StudentName string  `gorm:"column:student_name;not null"`
	Duration    int     `gorm:"column:duration;not null"`
	TeacherID   *string `gorm:"column:teacher_id;size:36;index:idx_lessons_teacher_day"`
	// DayOfWeek is 0 (Monday) to 4 (Friday).
	DayOfWeek *int `gorm:"column:day_of_week;index:idx_lessons_teacher_day"`
	// StartTime is "HH:MM".
	StartTime *string `gorm:"column:start_time;size:5"`
	SubjectID string  `gorm:"column:subject_id;size:36;not null"`
	// StartDate and EndDate are ISO dates.
	StartDate *string   `gorm:"column:start_date;size:10"`
	EndDate   *string   `gorm:"column:end_date;size:10"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Lesson) TableName() string {
	return "lessons"
}

// BeforeCreate assigns a UUID when none is set.
func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// All lists every model, in migration order.
func All() []any {
	return []any{&Teacher{}, &SchoolTeacher{}, &Subject{}, &Lesson{}}
}
