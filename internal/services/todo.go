package services

import (
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// TodoService manages private dashboard todos. Everything is scoped to the
// owning user; there is no sharing.
type TodoService struct {
	db *gorm.DB
}

func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

func (s *TodoService) List(userID uint) ([]models.PersonalTodo, error) {
	var todos []models.PersonalTodo
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *TodoService) Create(userID uint, title string) (*models.PersonalTodo, error) {
	todo := models.PersonalTodo{UserID: userID, Title: title}
	if err := s.db.Create(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *TodoService) Toggle(todoID, userID uint) (*models.PersonalTodo, error) {
	var todo models.PersonalTodo
	if err := s.db.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		return nil, response.NewNotFound("todo not found")
	}

	todo.IsCompleted = !todo.IsCompleted
	if err := s.db.Save(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *TodoService) Delete(todoID, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", todoID, userID).Delete(&models.PersonalTodo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("todo not found")
	}
	return nil
}
