package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UserRepositoryTestSuite verifies the SQL the repository issues
// against a mocked MySQL connection.
type UserRepositoryTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo UserRepository
}

// SetupTest runs before each test
func (suite *UserRepositoryTestSuite) SetupTest() {
	conn, mock, err := sqlmock.New()
	suite.Require().NoError(err)
	suite.mock = mock

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	suite.repo = NewUserRepository(db)
}

// TearDownTest runs after each test
func (suite *UserRepositoryTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// TestCount tests the user count query
func (suite *UserRepositoryTestSuite) TestCount() {
	suite.mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.Count()

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), count)
}

// TestFindByEmail tests the email lookup
func (suite *UserRepositoryTestSuite) TestFindByEmail() {
	rows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(7, "alice", "alice@example.com")
	suite.mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = (.+)").
		WillReturnRows(rows)

	user, err := suite.repo.FindByEmail("alice@example.com")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint64(7), user.ID)
	assert.Equal(suite.T(), "alice", user.Username)
}

// TestFindByEmail_NotFound tests the empty result
func (suite *UserRepositoryTestSuite) TestFindByEmail_NotFound() {
	suite.mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := suite.repo.FindByEmail("ghost@example.com")

	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

// TestDeleteWithCleanup tests that the cleanup runs in one transaction:
// tasks are unassigned, notifications removed, then the user deleted.
func (suite *UserRepositoryTestSuite) TestDeleteWithCleanup() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `tasks` SET (.+)`assignee_id`=(.+)").
		WillReturnResult(sqlmock.NewResult(0, 2))
	suite.mock.ExpectExec("DELETE FROM `notifications` WHERE user_id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 5))
	suite.mock.ExpectExec("UPDATE `users` SET `deleted_at`=(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repo.DeleteWithCleanup(7)

	assert.NoError(suite.T(), err)
}

// TestDeleteWithCleanup_RollsBack tests that a failed step aborts the rest
func (suite *UserRepositoryTestSuite) TestDeleteWithCleanup_RollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("UPDATE `tasks` SET (.+)`assignee_id`=(.+)").
		WillReturnError(gorm.ErrInvalidTransaction)
	suite.mock.ExpectRollback()

	err := suite.repo.DeleteWithCleanup(7)

	assert.Error(suite.T(), err)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
