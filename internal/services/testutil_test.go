package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/google/uuid"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory sqlite database, isolated per test but
// shared across the connection pool within one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Membership{},
		&models.Ban{},
		&models.AccessRequest{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Comment{},
		&models.ProjectFile{},
		&models.ProjectLog{},
		&models.Report{},
		&models.FriendRequest{},
		&models.PersonalTodo{},
		&models.TaskPin{},
		&models.ReadMark{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PublicID: uuid.NewString()}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, ownerID uint, isPublic bool) *models.Project {
	t.Helper()
	project := models.Project{Title: "test project", OwnerID: ownerID, IsPublic: isPublic}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return &project
}

func addMember(t *testing.T, db *gorm.DB, projectID, userID uint, role string) *models.Membership {
	t.Helper()
	m := models.Membership{ProjectID: projectID, UserID: userID, Role: role}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
	return &m
}

// assertStatus fails the test unless err is an AppError with the given HTTP
// status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with status %d, got %v", status, err)
	}
	if appErr.HTTPStatus != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.HTTPStatus, appErr.Message)
	}
}
