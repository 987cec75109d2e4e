package services

import (
	"testing"
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CalendarServiceTestSuite defines the test suite for CalendarService
type CalendarServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CalendarService
	admin   *models.User
	member  *models.User
}

// SetupTest runs before each test
func (suite *CalendarServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Event{},
	)
	suite.Require().NoError(err)

	suite.admin = &models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "hashedpassword",
		IsAdmin:      true,
		IsActive:     true,
	}
	suite.db.Create(suite.admin)

	suite.member = &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(suite.member)

	suite.service = NewCalendarService(
		repository.NewTaskRepository(suite.db),
		repository.NewEventRepository(suite.db),
	)
}

// TearDownTest runs after each test
func (suite *CalendarServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CalendarServiceTestSuite) createTask(title string, dueDate time.Time, assigneeID uint64) {
	task := &models.Task{
		Title:      title,
		DueDate:    dueDate,
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
		AssigneeID: &assigneeID,
		CreatorID:  suite.admin.ID,
	}
	suite.db.Create(task)
}

func (suite *CalendarServiceTestSuite) createEvent(title string, date time.Time, category models.EventCategory) {
	event := &models.Event{
		Title:       title,
		Date:        date,
		Category:    category,
		CreatedByID: &suite.admin.ID,
	}
	suite.db.Create(event)
}

func (suite *CalendarServiceTestSuite) memberActor() models.Actor {
	return models.Actor{ID: suite.member.ID}
}

// TestMonth_SparseBuckets tests that only populated days appear
func (suite *CalendarServiceTestSuite) TestMonth_SparseBuckets() {
	suite.createTask("Mid-month task", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), suite.member.ID)
	suite.createEvent("Planning", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), models.EventCategoryMeeting)
	suite.createEvent("Release", time.Date(2024, 3, 22, 0, 0, 0, 0, time.Local), models.EventCategoryDeadline)

	days, err := suite.service.Month(2024, 3, suite.memberActor())

	suite.Require().NoError(err)
	suite.Require().Len(days, 2)

	day15 := days[15]
	suite.Require().NotNil(day15)
	suite.Require().Len(day15.Tasks, 1)
	suite.Require().Len(day15.Events, 1)
	assert.Equal(suite.T(), "Mid-month task", day15.Tasks[0].Title)
	assert.Equal(suite.T(), models.EventCategoryMeeting, day15.Events[0].Category)

	day22 := days[22]
	suite.Require().NotNil(day22)
	assert.Empty(suite.T(), day22.Tasks)
	assert.Len(suite.T(), day22.Events, 1)
}

// TestMonth_Bounds tests that adjacent months are excluded
func (suite *CalendarServiceTestSuite) TestMonth_Bounds() {
	suite.createTask("Last of Feb", time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local), suite.member.ID)
	suite.createTask("First of Mar", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), suite.member.ID)
	suite.createTask("First of Apr", time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), suite.member.ID)

	days, err := suite.service.Month(2024, 3, suite.memberActor())

	suite.Require().NoError(err)
	suite.Require().Len(days, 1)
	assert.Equal(suite.T(), "First of Mar", days[1].Tasks[0].Title)
}

// TestMonth_LeapYear tests that Feb 29 lands in a leap-year February
func (suite *CalendarServiceTestSuite) TestMonth_LeapYear() {
	suite.createTask("Leap day task", time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local), suite.member.ID)

	days, err := suite.service.Month(2024, 2, suite.memberActor())
	suite.Require().NoError(err)
	suite.Require().Contains(days, 29)

	// Non-leap year: the same date string would be March 1st, so
	// February stays empty
	days, err = suite.service.Month(2023, 2, suite.memberActor())
	suite.Require().NoError(err)
	assert.Empty(suite.T(), days)
}

// TestMonth_ViewerScoping tests that members only see their own tasks
func (suite *CalendarServiceTestSuite) TestMonth_ViewerScoping() {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	suite.createTask("Alice's task", day, suite.member.ID)
	suite.createTask("Admin's task", day, suite.admin.ID)
	suite.createEvent("Company holiday", day, models.EventCategoryHoliday)

	days, err := suite.service.Month(2024, 3, suite.memberActor())
	suite.Require().NoError(err)
	suite.Require().Contains(days, 10)
	assert.Len(suite.T(), days[10].Tasks, 1)
	// Events are global regardless of viewer
	assert.Len(suite.T(), days[10].Events, 1)

	days, err = suite.service.Month(2024, 3, models.Actor{ID: suite.admin.ID, IsAdmin: true})
	suite.Require().NoError(err)
	assert.Len(suite.T(), days[10].Tasks, 2)
}

// TestMonth_InvalidMonth tests the month range check
func (suite *CalendarServiceTestSuite) TestMonth_InvalidMonth() {
	_, err := suite.service.Month(2024, 0, suite.memberActor())
	assert.ErrorIs(suite.T(), err, ErrInvalidMonth)

	_, err = suite.service.Month(2024, 13, suite.memberActor())
	assert.ErrorIs(suite.T(), err, ErrInvalidMonth)
}

func TestCalendarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceTestSuite))
}
