// internal/services/task_generator.go
package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"tasksource/internal/models"
)

// TaskGenerator synthesizes task records from the fixed vocabulary.
// A generator owns its random source and is not safe for concurrent use.
type TaskGenerator struct {
	rnd *rand.Rand
	now func() time.Time
}

type GeneratorOption func(*TaskGenerator)

// WithRand injects the random source.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *TaskGenerator) { g.rnd = r }
}

// WithSeed makes the description and assignee draws reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *TaskGenerator) { g.rnd = rand.New(rand.NewPCG(seed, seed)) }
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *TaskGenerator) { g.now = now }
}

// NewTaskGenerator creates a generator. Without options it is randomly seeded
// and uses the local wall clock.
func NewTaskGenerator(opts ...GeneratorOption) *TaskGenerator {
	g := &TaskGenerator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Generate returns exactly count pending tasks. The i-th task is due today+i
// days and has priority i mod 5; its description is a random vocabulary draw.
// It panics if count is negative.
func (g *TaskGenerator) Generate(count int) []models.Task {
	if count < 0 {
		panic(fmt.Sprintf("services: negative task count %d", count))
	}
	today := models.DateOf(g.now())
	tasks := make([]models.Task, count)
	for i := range tasks {
		tasks[i] = models.Task{
			Description: vocabulary[g.rnd.IntN(len(vocabulary))],
			DueDate:     today.AddDays(i),
			Priority:    i % models.PriorityMax,
			Status:      models.StatusPending,
		}
	}
	return tasks
}

// GenerateAssigned works like Generate, additionally titling each task
// "Task <n>" and assigning it to a uniformly drawn user from users.
// It panics if count is negative, or if count is positive and users is empty.
func (g *TaskGenerator) GenerateAssigned(count int, users []models.User) []models.Task {
	if count > 0 && len(users) == 0 {
		panic("services: cannot assign tasks without users")
	}
	tasks := g.Generate(count)
	for i := range tasks {
		owner := users[g.rnd.IntN(len(users))].ID
		tasks[i].Title = fmt.Sprintf("Task %d", i+1)
		tasks[i].AssignedTo = &owner
	}
	return tasks
}

// GenerateUsers returns the fixed seed users. Each call returns a fresh slice.
func (g *TaskGenerator) GenerateUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "john_doe", DisplayName: "John Doe", Email: "john.doe@example.com"},
		{ID: 2, Username: "jane_smith", DisplayName: "Jane Smith", Email: "jane.smith@example.com"},
		{ID: 3, Username: "mike_johnson", DisplayName: "Mike Johnson", Email: "mike.johnson@example.com"},
	}
}
