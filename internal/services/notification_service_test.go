package services

import (
	"testing"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NotificationServiceTestSuite defines the test suite for NotificationService
type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *NotificationService
	alice   *models.User
	bob     *models.User
}

// SetupTest runs before each test
func (suite *NotificationServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	suite.alice = &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", IsActive: true}
	suite.bob = &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", IsActive: true}
	suite.db.Create(suite.alice)
	suite.db.Create(suite.bob)

	suite.service = NewNotificationService(repository.NewNotificationRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *NotificationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NotificationServiceTestSuite) createNotification(userID uint64, content string) *models.Notification {
	n := &models.Notification{
		UserID:  userID,
		Content: content,
		Type:    models.NotificationTaskAssigned,
	}
	suite.db.Create(n)
	return n
}

// TestDispatch tests creating an unread notification
func (suite *NotificationServiceTestSuite) TestDispatch() {
	err := suite.service.Dispatch(suite.alice.ID, "You have been assigned a new task: X", models.NotificationTaskAssigned)

	suite.Require().NoError(err)

	notifications, err := suite.service.List(suite.alice.ID, false, 0)
	suite.Require().NoError(err)
	suite.Require().Len(notifications, 1)
	assert.False(suite.T(), notifications[0].Read)
}

// TestList_UnreadOnlyAndLimit tests the unread filter and the cap
func (suite *NotificationServiceTestSuite) TestList_UnreadOnlyAndLimit() {
	first := suite.createNotification(suite.alice.ID, "first")
	suite.createNotification(suite.alice.ID, "second")
	suite.createNotification(suite.alice.ID, "third")
	suite.db.Model(first).Update("read", true)

	unread, err := suite.service.List(suite.alice.ID, true, 0)
	suite.Require().NoError(err)
	assert.Len(suite.T(), unread, 2)

	capped, err := suite.service.List(suite.alice.ID, false, 2)
	suite.Require().NoError(err)
	assert.Len(suite.T(), capped, 2)
}

// TestMarkRead_OwnershipBoundary tests that foreign ids are ignored
func (suite *NotificationServiceTestSuite) TestMarkRead_OwnershipBoundary() {
	mine := suite.createNotification(suite.alice.ID, "mine")
	theirs := suite.createNotification(suite.bob.ID, "theirs")

	err := suite.service.MarkRead(suite.alice.ID, []uint64{mine.ID, theirs.ID})
	suite.Require().NoError(err)

	var reloaded models.Notification
	suite.db.First(&reloaded, mine.ID)
	assert.True(suite.T(), reloaded.Read)

	suite.db.First(&reloaded, theirs.ID)
	assert.False(suite.T(), reloaded.Read)
}

// TestMarkAllRead tests the bulk flip
func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	suite.createNotification(suite.alice.ID, "one")
	suite.createNotification(suite.alice.ID, "two")
	suite.createNotification(suite.bob.ID, "bob's")

	err := suite.service.MarkAllRead(suite.alice.ID)
	suite.Require().NoError(err)

	count, err := suite.service.UnreadCount(suite.alice.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), count)

	count, err = suite.service.UnreadCount(suite.bob.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), count)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
