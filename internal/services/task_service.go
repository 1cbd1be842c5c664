// internal/services/task_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasksource/internal/models"
	"tasksource/internal/repositories"
)

// ErrNoDatabase is returned by FetchAll when no reader is configured.
var ErrNoDatabase = errors.New("database is not configured")

// GenerateRequest selects the shape of a synthetic batch.
type GenerateRequest struct {
	Count  int
	Assign bool
	Seed   *uint64
}

// TaskService exposes the two task sources behind one API.
type TaskService interface {
	Generate(req GenerateRequest) ([]models.Task, error)
	SeedUsers() []models.User
	FetchAll(ctx context.Context) ([]models.Task, error)
}

type taskService struct {
	reader repositories.TaskReader
	now    func() time.Time
}

// NewTaskService creates a new instance of TaskService. reader may be nil.
func NewTaskService(reader repositories.TaskReader, now func() time.Time) TaskService {
	if now == nil {
		now = time.Now
	}
	return &taskService{reader: reader, now: now}
}

func (s *taskService) generator(seed *uint64) *TaskGenerator {
	opts := []GeneratorOption{WithClock(s.now)}
	if seed != nil {
		opts = append(opts, WithSeed(*seed))
	}
	return NewTaskGenerator(opts...)
}

func (s *taskService) Generate(req GenerateRequest) ([]models.Task, error) {
	if req.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", req.Count)
	}
	g := s.generator(req.Seed)
	if req.Assign {
		return g.GenerateAssigned(req.Count, g.GenerateUsers()), nil
	}
	return g.Generate(req.Count), nil
}

func (s *taskService) SeedUsers() []models.User {
	return s.generator(nil).GenerateUsers()
}

func (s *taskService) FetchAll(ctx context.Context) ([]models.Task, error) {
	if s.reader == nil {
		return nil, ErrNoDatabase
	}
	return s.reader.FetchAll(ctx)
}
