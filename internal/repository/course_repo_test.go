package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/models"
)

func TestCourseRepositoryBucketKeyAndListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	first := models.Course{Name: "SPEC_C01", Category: "SPEC", Round: "round_001", TimeSlot: "10:00"}
	first.SetLessons([]models.Lesson{{ID: 1, Name: "Intro", DateStr: "2024-01-06", Students: []string{}}})
	second := models.Course{Name: "SPEC_C02", Category: "SPEC", Round: "round_002", TimeSlot: "14:00"}
	second.SetLessons([]models.Lesson{{ID: 1, Name: "Intro", DateStr: "2024-01-07", Students: []string{}}})

	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	all, err := repo.List(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	bucket, err := repo.List(ctx, CourseFilter{Category: "SPEC", Round: "round_002"})
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	require.Equal(t, "SPEC_C02", bucket[0].Name)

	got, err := repo.GetByKey(ctx, "SPEC", "round_001", "SPEC_C01")
	require.NoError(t, err)
	lessons := got.LessonList()
	require.Len(t, lessons, 1)
	require.Equal(t, "2024-01-06", lessons[0].DateStr)
}

func TestCourseRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	err := repo.Delete(context.Background(), "SPEC", "round_001", "SPEC_C09")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositorySearchAndPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	alice := models.Student{ID: "ST001", Name: "Alice Chan", Level: "K2"}
	bob := models.Student{ID: "ST002", Name: "Bob Lee", Level: "K3"}
	require.NoError(t, repo.Create(ctx, &alice))
	require.NoError(t, repo.Create(ctx, &bob))

	students, total, err := repo.List(ctx, StudentFilter{Search: "alice", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	require.Equal(t, "ST001", students[0].ID)

	students, total, err = repo.List(ctx, StudentFilter{PageSize: 1, Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, students, 1)
	require.Equal(t, "ST002", students[0].ID, "expected id ordering")
}

func TestSyncRepositorySavesBothSides(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseRepository(db)
	students := NewStudentRepository(db)
	sync := NewSyncRepository(db)
	ctx := context.Background()

	course := models.Course{Name: "ORAL_C01", Category: "ORAL", Round: "round_001"}
	course.SetLessons([]models.Lesson{{ID: 5, Name: "Sequencing", DateStr: "2024-02-10", Students: []string{}}})
	require.NoError(t, courses.Create(ctx, &course))

	student := models.Student{ID: "ST010", Name: "Mia Wong"}
	require.NoError(t, students.Create(ctx, &student))

	lessons := course.LessonList()
	lessons[0].Students = append(lessons[0].Students, student.ID)
	course.SetLessons(lessons)
	student.SetEnrollment([]models.EnrollmentRecord{{
		CourseName: course.Name,
		Round:      course.Round,
		Lessons:    []models.LessonCopy{{ID: 5, Name: "Sequencing", DateStr: "2024-02-10", CourseName: course.Name}},
	}})

	require.NoError(t, sync.SaveStudentAndCourses(ctx, &student, &course))

	savedCourse, err := courses.GetByKey(ctx, "ORAL", "round_001", "ORAL_C01")
	require.NoError(t, err)
	lesson, ok := savedCourse.Lesson(5)
	require.True(t, ok)
	require.True(t, lesson.HasStudent("ST010"))

	savedStudent, err := students.GetByID(ctx, "ST010")
	require.NoError(t, err)
	require.Equal(t, 0, savedStudent.EnrollmentIndex("ORAL_C01", "round_001"))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Course{}, &models.Student{}))
	return db
}
