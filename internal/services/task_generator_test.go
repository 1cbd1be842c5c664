package services

import (
	"math/rand/v2"
	"testing"
	"time"

	"tasksource/internal/models"
)

var fixedNow = time.Date(2024, time.December, 30, 15, 4, 5, 0, time.UTC)

func newTestGenerator(seed uint64) *TaskGenerator {
	return NewTaskGenerator(WithSeed(seed), WithClock(func() time.Time { return fixedNow }))
}

func TestGenerateShape(t *testing.T) {
	g := newTestGenerator(1)
	today := models.DateOf(fixedNow)

	for _, count := range []int{0, 1, 3, 5, 17, 200} {
		tasks := g.Generate(count)
		if len(tasks) != count {
			t.Fatalf("Generate(%d) returned %d tasks", count, len(tasks))
		}
		for i, task := range tasks {
			if want := today.AddDays(i); task.DueDate != want {
				t.Errorf("count=%d task %d: due %s, want %s", count, i, task.DueDate, want)
			}
			if i > 0 && !tasks[i-1].DueDate.Before(task.DueDate) {
				t.Errorf("count=%d: due dates not strictly increasing at %d", count, i)
			}
			if task.Priority != i%5 {
				t.Errorf("count=%d task %d: priority %d, want %d", count, i, task.Priority, i%5)
			}
			if !InVocabulary(task.Description) {
				t.Errorf("description %q not in vocabulary", task.Description)
			}
			if task.Status != models.StatusPending || task.Completed() {
				t.Errorf("task %d should start pending, got %q", i, task.Status)
			}
			if task.ID != nil || task.AssignedTo != nil {
				t.Errorf("synthetic task %d must not carry id or assignee", i)
			}
		}
	}
}

func TestGenerateThreeOnFixedDay(t *testing.T) {
	tasks := newTestGenerator(42).Generate(3)

	wantDates := []string{"2024-12-30", "2024-12-31", "2025-01-01"}
	for i, task := range tasks {
		if task.DueDate.String() != wantDates[i] {
			t.Errorf("task %d: due %s, want %s", i, task.DueDate, wantDates[i])
		}
		if task.Priority != i {
			t.Errorf("task %d: priority %d, want %d", i, task.Priority, i)
		}
	}
}

func TestGenerateZeroIsEmptyNotNil(t *testing.T) {
	tasks := newTestGenerator(1).Generate(0)
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty slice, got %#v", tasks)
	}
}

func TestGenerateNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative count")
		}
	}()
	newTestGenerator(1).Generate(-1)
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	a := newTestGenerator(7).Generate(50)
	b := newTestGenerator(7).Generate(50)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("task %d differs between identically seeded generators: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateUsesInjectedRand(t *testing.T) {
	src := rand.New(rand.NewPCG(3, 4))
	want := vocabulary[rand.New(rand.NewPCG(3, 4)).IntN(len(vocabulary))]

	g := NewTaskGenerator(WithRand(src), WithClock(func() time.Time { return fixedNow }))
	if got := g.Generate(1)[0].Description; got != want {
		t.Errorf("expected first draw %q, got %q", want, got)
	}
}

func TestGenerateDrawsRepeatAcrossLargeBatches(t *testing.T) {
	tasks := newTestGenerator(9).Generate(len(vocabulary) * 3)
	seen := map[string]bool{}
	repeated := false
	for _, task := range tasks {
		if seen[task.Description] {
			repeated = true
		}
		seen[task.Description] = true
	}
	if !repeated {
		t.Errorf("expected repeated descriptions in a batch larger than the vocabulary")
	}
}

func TestGeneratedTasksEqualityUsesIdentityFields(t *testing.T) {
	tasks := newTestGenerator(5).Generate(2)
	a := tasks[0]
	b := models.Task{
		Title:       "unrelated",
		Description: a.Description,
		DueDate:     a.DueDate,
		Priority:    a.Priority,
		Status:      models.StatusPending,
	}
	if !a.Equal(b) {
		t.Errorf("separately built task with same identity fields should be equal")
	}
	if a.Equal(tasks[1]) {
		t.Errorf("tasks with different due dates should not be equal")
	}
}

func TestGenerateAssigned(t *testing.T) {
	g := newTestGenerator(11)
	users := g.GenerateUsers()
	valid := map[int64]bool{}
	for _, u := range users {
		valid[u.ID] = true
	}

	tasks := g.GenerateAssigned(60, users)
	if len(tasks) != 60 {
		t.Fatalf("expected 60 tasks, got %d", len(tasks))
	}
	owners := map[int64]int{}
	for i, task := range tasks {
		if task.AssignedTo == nil || !valid[*task.AssignedTo] {
			t.Fatalf("task %d assigned to unknown user %v", i, task.AssignedTo)
		}
		owners[*task.AssignedTo]++
		if task.Priority != i%5 {
			t.Errorf("task %d: priority %d, want %d", i, task.Priority, i%5)
		}
	}
	if tasks[0].Title != "Task 1" || tasks[59].Title != "Task 60" {
		t.Errorf("unexpected titles %q, %q", tasks[0].Title, tasks[59].Title)
	}
	if len(owners) < 2 {
		t.Errorf("expected assignments spread across users, got %v", owners)
	}
}

func TestGenerateAssignedWithoutUsersPanics(t *testing.T) {
	g := newTestGenerator(1)
	if got := g.GenerateAssigned(0, nil); len(got) != 0 {
		t.Fatalf("expected empty result for zero count")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when assigning without users")
		}
	}()
	g.GenerateAssigned(1, nil)
}

func TestGenerateUsers(t *testing.T) {
	g := newTestGenerator(1)
	users := g.GenerateUsers()
	if len(users) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(users))
	}
	ids := map[int64]bool{}
	for _, u := range users {
		if ids[u.ID] {
			t.Errorf("duplicate user id %d", u.ID)
		}
		ids[u.ID] = true
		if u.Username == "" || u.Email == "" || u.DisplayName == "" {
			t.Errorf("incomplete seed user %+v", u)
		}
	}

	users[0].Username = "mutated"
	if g.GenerateUsers()[0].Username != "john_doe" {
		t.Errorf("seed users must not be shared between calls")
	}
}

func TestVocabulary(t *testing.T) {
	v := Vocabulary()
	if len(v) < 22 {
		t.Fatalf("vocabulary too small: %d", len(v))
	}
	v[0] = "changed"
	if vocabulary[0] == "changed" {
		t.Errorf("Vocabulary must return a copy")
	}
	if InVocabulary("Doing taxes") {
		t.Errorf("unexpected vocabulary member")
	}
}
