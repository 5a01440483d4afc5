package dto

// TimetableColumn heads one course column in the timetable grid.
type TimetableColumn struct {
	CourseName string `json:"course_name"`
	TimeSlot   string `json:"time_slot"`
}

// TimetableCell is one (course, lesson) intersection in the grid.
type TimetableCell struct {
	CourseName  string   `json:"course_name"`
	DateStr     string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	Completed   bool     `json:"completed"`
	Students    []string `json:"students"`
	Count       int      `json:"count"`
	Full        bool     `json:"full"`
}

// TimetableRow is one lesson sequence number across every displayed course.
type TimetableRow struct {
	LessonID    int             `json:"lesson_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Cells       []TimetableCell `json:"cells"`
}

// TimetableResponse is the aggregated grid for one category/round bucket.
type TimetableResponse struct {
	Category string            `json:"category"`
	Round    string            `json:"round"`
	Columns  []TimetableColumn `json:"columns"`
	Rows     []TimetableRow    `json:"rows"`
	CacheHit bool              `json:"cache_hit"`
}

// ReconcileIssue is one detected divergence between a course roster and a
// student's enrollment copies.
type ReconcileIssue struct {
	Type       string `json:"type"`
	StudentID  string `json:"student_id"`
	CourseName string `json:"course_name"`
	Round      string `json:"round"`
	LessonID   int    `json:"lesson_id"`
	Detail     string `json:"detail"`
}

// ReconcileReport summarises a full reconciliation pass.
type ReconcileReport struct {
	CheckedCourses  int              `json:"checked_courses"`
	CheckedStudents int              `json:"checked_students"`
	Issues          []ReconcileIssue `json:"issues"`
}
