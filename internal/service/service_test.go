package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig() config.Config {
	return config.Config{
		CategoryPrefixes: map[string]string{
			"SPEC": "SPEC",
			"WRIT": "WRIT",
			"ORAL": "ORAL",
		},
	}
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  uint
	courses []models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{nextID: 1}
}

func (r *fakeCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Course
	for _, course := range r.courses {
		if filter.Category != "" && course.Category != filter.Category {
			continue
		}
		if filter.Round != "" && course.Round != filter.Round {
			continue
		}
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *fakeCourseRepo) GetByKey(_ context.Context, category, round, name string) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, course := range r.courses {
		if course.Category == category && course.Round == round && course.Name == name {
			return course, nil
		}
	}

	return models.Course{}, gorm.ErrRecordNotFound
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course.ID = r.nextID
	r.nextID++
	r.courses = append(r.courses, *course)

	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save(course)
}

func (r *fakeCourseRepo) save(course *models.Course) error {
	for idx := range r.courses {
		if r.courses[idx].ID == course.ID {
			r.courses[idx] = *course
			return nil
		}
	}
	if course.ID == 0 {
		course.ID = r.nextID
		r.nextID++
	}
	r.courses = append(r.courses, *course)

	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, category, round, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, course := range r.courses {
		if course.Category == category && course.Round == round && course.Name == name {
			r.courses = append(r.courses[:idx], r.courses[idx+1:]...)
			return nil
		}
	}

	return gorm.ErrRecordNotFound
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[string]models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]models.Student{}}
}

func (r *fakeStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]models.Student, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Student
	for _, student := range r.students {
		if filter.Level != "" && student.Level != filter.Level {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(student.ID), needle) &&
				!strings.Contains(strings.ToLower(student.Name), needle) &&
				!strings.Contains(student.ChineseName, filter.Search) {
				continue
			}
		}
		out = append(out, student)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}

	return out, total, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}

	return student, nil
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students[student.ID] = *student

	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	return r.Create(context.Background(), student)
}

type fakeSyncRepo struct {
	courses  *fakeCourseRepo
	students *fakeStudentRepo
}

func newFakeSyncRepo(courses *fakeCourseRepo, students *fakeStudentRepo) *fakeSyncRepo {
	return &fakeSyncRepo{courses: courses, students: students}
}

func (r *fakeSyncRepo) SaveStudentAndCourses(ctx context.Context, student *models.Student, courses ...*models.Course) error {
	if student != nil {
		if err := r.students.Update(ctx, student); err != nil {
			return err
		}
	}
	for _, course := range courses {
		if course == nil {
			continue
		}
		r.courses.mu.Lock()
		err := r.courses.save(course)
		r.courses.mu.Unlock()
		if err != nil {
			return err
		}
	}

	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ScheduleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event ScheduleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}

	return out
}

type recordingInvalidator struct {
	mu      sync.Mutex
	buckets []string
}

func (i *recordingInvalidator) Invalidate(_ context.Context, category, round string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.buckets = append(i.buckets, category+"/"+round)
}

func seedCourse(t interface{ Fatalf(string, ...interface{}) }, repo *fakeCourseRepo, name, round, timeSlot, startDate string) models.Course {
	lessons := make([]models.Lesson, 0, 12)
	date := startDate
	for i := 0; i < 12; i++ {
		lessons = append(lessons, models.Lesson{
			ID:       i + 1,
			Name:     "Lesson " + string(rune('A'+i)),
			DateStr:  date,
			Students: []string{},
		})
		next, err := schedule.AddDays(date, 7)
		if err != nil {
			t.Fatalf("bad seed date %q: %v", startDate, err)
		}
		date = next
	}

	category := name[:4]
	course := models.Course{Name: name, Category: category, Round: round, TimeSlot: timeSlot}
	course.SetLessons(lessons)
	if err := repo.Create(context.Background(), &course); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	return course
}
