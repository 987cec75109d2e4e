package services

import (
	"testing"
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
	mailer  *fakeMailer
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	suite.mailer = &fakeMailer{}
	suite.service = NewUserService(repository.NewUserRepository(suite.db), suite.mailer)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

// TestCreateUser_Success tests provisioning with the welcome email
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	user, err := suite.service.CreateUser(CreateUserInput{
		Username:   "alice",
		Email:      "alice@example.com",
		FullName:   "Alice Doe",
		Department: "Development",
		Position:   "Engineer",
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), user.IsActive)
	assert.False(suite.T(), user.IsAdmin)
	assert.NotEmpty(suite.T(), user.PasswordHash)
	assert.NotEqual(suite.T(), "alice", user.PasswordHash)

	// The welcome mail carries the temporary password, which is never
	// returned over the API
	suite.Require().Len(suite.mailer.sent, 1)
	mail := suite.mailer.sent[0]
	assert.Equal(suite.T(), "alice@example.com", mail.to)
	assert.Contains(suite.T(), mail.body, "Temporary Password")
}

// TestCreateUser_MailFailureIsNotFatal tests best-effort delivery
func (suite *UserServiceTestSuite) TestCreateUser_MailFailureIsNotFatal() {
	suite.mailer.failing = true

	user, err := suite.service.CreateUser(CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	suite.Require().NoError(err)
	assert.NotZero(suite.T(), user.ID)
}

// TestCreateUser_DuplicateUsername tests the uniqueness check
func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	suite.createTestUser("alice")

	_, err := suite.service.CreateUser(CreateUserInput{
		Username: "alice",
		Email:    "other@example.com",
	})

	assert.ErrorIs(suite.T(), err, ErrUsernameTaken)
}

// TestCreateUser_DuplicateEmail tests the uniqueness check
func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createTestUser("alice")

	_, err := suite.service.CreateUser(CreateUserInput{
		Username: "alice2",
		Email:    "alice@example.com",
	})

	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

// TestUpdateUser_Deactivate tests the is_active patch
func (suite *UserServiceTestSuite) TestUpdateUser_Deactivate() {
	user := suite.createTestUser("alice")

	inactive := false
	updated, err := suite.service.UpdateUser(user.ID, UpdateUserInput{IsActive: &inactive})

	suite.Require().NoError(err)
	assert.False(suite.T(), updated.IsActive)
}

// TestUpdateUser_PasswordReset tests the admin password override
func (suite *UserServiceTestSuite) TestUpdateUser_PasswordReset() {
	user := suite.createTestUser("alice")

	newPassword := "fresh-password"
	updated, err := suite.service.UpdateUser(user.ID, UpdateUserInput{Password: &newPassword})

	suite.Require().NoError(err)
	err = bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword))
	assert.NoError(suite.T(), err)
}

// TestDeleteUser_Cleanup tests that tasks survive unassigned and
// notifications are removed
func (suite *UserServiceTestSuite) TestDeleteUser_Cleanup() {
	admin := suite.createTestUser("admin")
	alice := suite.createTestUser("alice")

	task := &models.Task{
		Title:      "Orphaned later",
		DueDate:    time.Now().AddDate(0, 0, 7),
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
		AssigneeID: &alice.ID,
		CreatorID:  admin.ID,
	}
	suite.db.Create(task)
	suite.db.Create(&models.Notification{
		UserID:  alice.ID,
		Content: "You have been assigned a new task: Orphaned later",
		Type:    models.NotificationTaskAssigned,
	})

	err := suite.service.DeleteUser(alice.ID, models.Actor{ID: admin.ID, IsAdmin: true})
	suite.Require().NoError(err)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	assert.Nil(suite.T(), reloaded.AssigneeID)

	var notificationCount int64
	suite.db.Model(&models.Notification{}).Where("user_id = ?", alice.ID).Count(&notificationCount)
	assert.Equal(suite.T(), int64(0), notificationCount)

	var userCount int64
	suite.db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&userCount)
	assert.Equal(suite.T(), int64(0), userCount)
}

// TestDeleteUser_Self tests that self-deletion is rejected
func (suite *UserServiceTestSuite) TestDeleteUser_Self() {
	admin := suite.createTestUser("admin")

	err := suite.service.DeleteUser(admin.ID, models.Actor{ID: admin.ID, IsAdmin: true})

	assert.ErrorIs(suite.T(), err, ErrCannotDeleteSelf)
}

// TestListUsers_DepartmentFilter tests the optional department filter
func (suite *UserServiceTestSuite) TestListUsers_DepartmentFilter() {
	alice := suite.createTestUser("alice")
	suite.db.Model(alice).Update("department", "Development")
	suite.createTestUser("bob")

	users, err := suite.service.ListUsers("Development")
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), "alice", users[0].Username)

	users, err = suite.service.ListUsers("")
	suite.Require().NoError(err)
	assert.Len(suite.T(), users, 2)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
