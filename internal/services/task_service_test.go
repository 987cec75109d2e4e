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

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	now     time.Time
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	suite.now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	suite.service.now = func() time.Time { return suite.now }
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTestUser(username, department string, isAdmin bool) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		FullName:     "Test " + username,
		Department:   department,
		IsAdmin:      isAdmin,
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskServiceTestSuite) createTestTask(title string, assigneeID *uint64, creatorID uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:      title,
		DueDate:    suite.now.AddDate(0, 0, 7),
		Status:     status,
		Priority:   models.TaskPriorityMedium,
		AssigneeID: assigneeID,
		CreatorID:  creatorID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskServiceTestSuite) notificationCount(userID uint64) int64 {
	var count int64
	suite.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count)
	return count
}

func (suite *TaskServiceTestSuite) actor(user *models.User) models.Actor {
	return models.Actor{ID: user.ID, IsAdmin: user.IsAdmin}
}

// TestCreateTask_WithAssignee tests that assignment notifies the assignee
func (suite *TaskServiceTestSuite) TestCreateTask_WithAssignee() {
	admin := suite.createTestUser("admin", "Management", true)
	member := suite.createTestUser("alice", "Development", false)

	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:      "Write onboarding docs",
		DueDate:    suite.now.AddDate(0, 0, 3),
		AssigneeID: &member.ID,
		CreatorID:  admin.ID,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, task.Priority)
	assert.Equal(suite.T(), int64(1), suite.notificationCount(member.ID))

	var notification models.Notification
	suite.db.Where("user_id = ?", member.ID).First(&notification)
	assert.Equal(suite.T(), "You have been assigned a new task: Write onboarding docs", notification.Content)
	assert.Equal(suite.T(), models.NotificationTaskAssigned, notification.Type)
	assert.False(suite.T(), notification.Read)
}

// TestCreateTask_Unassigned tests that no notification is created without an assignee
func (suite *TaskServiceTestSuite) TestCreateTask_Unassigned() {
	admin := suite.createTestUser("admin", "Management", true)

	_, err := suite.service.CreateTask(CreateTaskInput{
		Title:     "Backlog item",
		DueDate:   suite.now.AddDate(0, 0, 3),
		CreatorID: admin.ID,
	})

	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_Validation tests required fields
func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	admin := suite.createTestUser("admin", "Management", true)

	_, err := suite.service.CreateTask(CreateTaskInput{
		Title:     "   ",
		DueDate:   suite.now,
		CreatorID: admin.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrTitleRequired)

	_, err = suite.service.CreateTask(CreateTaskInput{
		Title:     "No due date",
		CreatorID: admin.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrDueDateRequired)

	_, err = suite.service.CreateTask(CreateTaskInput{
		Title:     "Bad priority",
		DueDate:   suite.now,
		Priority:  "urgent",
		CreatorID: admin.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidPriority)
}

// TestUpdateTask_NonAssigneeForbidden tests that others cannot touch the task
func (suite *TaskServiceTestSuite) TestUpdateTask_NonAssigneeForbidden() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	bob := suite.createTestUser("bob", "Development", false)
	task := suite.createTestTask("Alice's task", &alice.ID, admin.ID, models.TaskStatusPending)

	status := models.TaskStatusCompleted
	_, err := suite.service.UpdateTask(task.ID, suite.actor(bob), UpdateTaskInput{Status: &status})

	assert.ErrorIs(suite.T(), err, ErrTaskForbidden)
}

// TestUpdateTask_NonAdminOnlyStatus tests that a member's patch only applies status
func (suite *TaskServiceTestSuite) TestUpdateTask_NonAdminOnlyStatus() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Alice's task", &alice.ID, admin.ID, models.TaskStatusPending)

	newTitle := "Hijacked title"
	status := models.TaskStatusInProgress
	updated, err := suite.service.UpdateTask(task.ID, suite.actor(alice), UpdateTaskInput{
		Title:  &newTitle,
		Status: &status,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
	assert.Equal(suite.T(), "Alice's task", updated.Title)
	assert.Nil(suite.T(), updated.CompletedAt)
}

// TestUpdateTask_CompletionStampsAndNotifies tests the completion edge
func (suite *TaskServiceTestSuite) TestUpdateTask_CompletionStampsAndNotifies() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Finish the migration", &alice.ID, admin.ID, models.TaskStatusPending)

	status := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(task.ID, suite.actor(alice), UpdateTaskInput{Status: &status})

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.CompletedAt)
	assert.True(suite.T(), updated.CompletedAt.Equal(suite.now))

	var notification models.Notification
	suite.db.Where("user_id = ?", admin.ID).First(&notification)
	assert.Equal(suite.T(), "Test alice has completed the task: Finish the migration", notification.Content)
	assert.Equal(suite.T(), models.NotificationTaskCompleted, notification.Type)
}

// TestUpdateTask_CompletedAtNeverCleared tests that leaving completed keeps the stamp
func (suite *TaskServiceTestSuite) TestUpdateTask_CompletedAtNeverCleared() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Reopened task", &alice.ID, admin.ID, models.TaskStatusPending)

	completed := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(task.ID, suite.actor(alice), UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)
	firstStamp := *updated.CompletedAt

	// Reopen, then complete again later
	pending := models.TaskStatusPending
	updated, err = suite.service.UpdateTask(task.ID, suite.actor(alice), UpdateTaskInput{Status: &pending})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.CompletedAt)
	assert.True(suite.T(), updated.CompletedAt.Equal(firstStamp))

	suite.now = suite.now.Add(48 * time.Hour)
	updated, err = suite.service.UpdateTask(task.ID, suite.actor(alice), UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)
	assert.True(suite.T(), updated.CompletedAt.Equal(suite.now))
}

// TestUpdateTask_AdminCompletionSilent tests that admin completion skips the creator notice
func (suite *TaskServiceTestSuite) TestUpdateTask_AdminCompletionSilent() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Admin closes this", &alice.ID, admin.ID, models.TaskStatusPending)

	status := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(task.ID, suite.actor(admin), UpdateTaskInput{Status: &status})

	suite.Require().NoError(err)
	assert.NotNil(suite.T(), updated.CompletedAt)
	assert.Equal(suite.T(), int64(0), suite.notificationCount(admin.ID))
}

// TestUpdateTask_ReassignmentNotifies tests the admin reassignment notice
func (suite *TaskServiceTestSuite) TestUpdateTask_ReassignmentNotifies() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	bob := suite.createTestUser("bob", "Development", false)
	task := suite.createTestTask("Handover task", &alice.ID, admin.ID, models.TaskStatusPending)

	updated, err := suite.service.UpdateTask(task.ID, suite.actor(admin), UpdateTaskInput{AssigneeID: &bob.ID})

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.AssigneeID)
	assert.Equal(suite.T(), bob.ID, *updated.AssigneeID)
	assert.Equal(suite.T(), int64(1), suite.notificationCount(bob.ID))
	assert.Equal(suite.T(), int64(0), suite.notificationCount(alice.ID))

	// Re-saving the same assignee must not notify again
	_, err = suite.service.UpdateTask(task.ID, suite.actor(admin), UpdateTaskInput{AssigneeID: &bob.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), suite.notificationCount(bob.ID))
}

// TestUpdateTask_ClearAssignee tests explicit unassignment
func (suite *TaskServiceTestSuite) TestUpdateTask_ClearAssignee() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Orphan me", &alice.ID, admin.ID, models.TaskStatusPending)

	updated, err := suite.service.UpdateTask(task.ID, suite.actor(admin), UpdateTaskInput{ClearAssignee: true})

	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.AssigneeID)
}

// TestDeleteTask_AdminOnly tests the permission gate and the assignee notice
func (suite *TaskServiceTestSuite) TestDeleteTask_AdminOnly() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	task := suite.createTestTask("Doomed task", &alice.ID, admin.ID, models.TaskStatusPending)

	err := suite.service.DeleteTask(task.ID, suite.actor(alice))
	assert.ErrorIs(suite.T(), err, ErrTaskForbidden)

	err = suite.service.DeleteTask(task.ID, suite.actor(admin))
	suite.Require().NoError(err)

	var notification models.Notification
	suite.db.Where("user_id = ?", alice.ID).First(&notification)
	assert.Equal(suite.T(), "The task 'Doomed task' has been deleted by admin", notification.Content)

	_, err = suite.service.GetTask(task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestListTasks_MemberScoping tests that members only see their own assignments
func (suite *TaskServiceTestSuite) TestListTasks_MemberScoping() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	bob := suite.createTestUser("bob", "Development", false)
	suite.createTestTask("Alice 1", &alice.ID, admin.ID, models.TaskStatusPending)
	suite.createTestTask("Bob 1", &bob.ID, admin.ID, models.TaskStatusPending)

	tasks, err := suite.service.ListTasks(ListTasksInput{Viewer: suite.actor(alice)})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Alice 1", tasks[0].Title)

	tasks, err = suite.service.ListTasks(ListTasksInput{Viewer: suite.actor(admin)})
	suite.Require().NoError(err)
	assert.Len(suite.T(), tasks, 2)
}

// TestListTasks_DepartmentFilter tests the admin department filter
func (suite *TaskServiceTestSuite) TestListTasks_DepartmentFilter() {
	admin := suite.createTestUser("admin", "Management", true)
	alice := suite.createTestUser("alice", "Development", false)
	carol := suite.createTestUser("carol", "Sales", false)
	suite.createTestTask("Dev task", &alice.ID, admin.ID, models.TaskStatusPending)
	suite.createTestTask("Sales task", &carol.ID, admin.ID, models.TaskStatusPending)

	tasks, err := suite.service.ListTasks(ListTasksInput{
		Viewer:     suite.actor(admin),
		Department: "Sales",
	})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Sales task", tasks[0].Title)

	// Unknown department resolves to no users, so no tasks
	tasks, err = suite.service.ListTasks(ListTasksInput{
		Viewer:     suite.actor(admin),
		Department: "Legal",
	})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
