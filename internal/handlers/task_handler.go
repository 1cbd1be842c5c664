package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tasksource/internal/models"
	"tasksource/internal/pdf"
	"tasksource/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	reports pdf.Generator

	defaultCount int
	maxCount     int
	now          func() time.Time
}

func NewTaskHandler(service services.TaskService, reports pdf.Generator, defaultCount, maxCount int) *TaskHandler {
	return &TaskHandler{
		service:      service,
		reports:      reports,
		defaultCount: defaultCount,
		maxCount:     maxCount,
		now:          time.Now,
	}
}

// @Summary      Seed users
// @Description  Returns the fixed users generated tasks are assigned to
// @Tags         Users
// @Produce      json
// @Success      200  {array}   models.User
// @Security     BearerAuth
// @Router       /users/seed [get]
func (h *TaskHandler) SeedUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SeedUsers())
}

// @Summary      Generate tasks
// @Description  Builds a synthetic batch; due dates start today and priorities cycle 0..4
// @Tags         Tasks
// @Produce      json
// @Param        count   query     int     false  "Number of tasks"
// @Param        assign  query     bool    false  "Assign each task to a seed user"
// @Param        seed    query     int     false  "Seed for a reproducible batch"
// @Success      200     {array}   models.Task
// @Failure      400     {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/generate [get]
func (h *TaskHandler) Generate(c *gin.Context) {
	tasks, ok := h.generate(c)
	if !ok {
		return
	}
	log.Printf("[task][generate][ok] count=%d assign=%q", len(tasks), c.Query("assign"))
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) generate(c *gin.Context) ([]models.Task, bool) {
	count, err := parseCount(c, h.defaultCount, h.maxCount)
	if err != nil {
		log.Printf("[task][generate][bad-request] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	seed, err := parseSeed(c)
	if err != nil {
		log.Printf("[task][generate][bad-request] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	assign, err := parseAssign(c)
	if err != nil {
		log.Printf("[task][generate][bad-request] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	tasks, err := h.service.Generate(services.GenerateRequest{
		Count:  count,
		Assign: assign,
		Seed:   seed,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return tasks, true
}

// @Summary      List stored tasks
// @Description  Reads every row of the tasks table
// @Tags         Tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) FetchAll(c *gin.Context) {
	tasks, ok := h.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) fetch(c *gin.Context) ([]models.Task, bool) {
	tasks, err := h.service.FetchAll(c.Request.Context())
	if errors.Is(err, services.ErrNoDatabase) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "kind": "configuration"})
		return nil, false
	}
	if err != nil {
		status, kind := readErrorStatus(err)
		log.Printf("[task][fetchAll][err] kind=%s %v", kind, err)
		c.JSON(status, gin.H{"error": "failed to read tasks", "kind": kind})
		return nil, false
	}
	log.Printf("[task][fetchAll][ok] count=%d", len(tasks))
	return tasks, true
}

// @Summary      Task report
// @Description  Renders generated or stored tasks as a PDF table
// @Tags         Tasks
// @Produce      application/pdf
// @Param        source  query     string  false  "generate or db"  Enums(generate, db)
// @Param        count   query     int     false  "Number of generated tasks"
// @Success      200     {file}    file
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/report.pdf [get]
func (h *TaskHandler) Report(c *gin.Context) {
	source := c.DefaultQuery("source", "generate")

	var (
		tasks []models.Task
		ok    bool
	)
	switch source {
	case "generate":
		tasks, ok = h.generate(c)
	case "db":
		tasks, ok = h.fetch(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be generate or db"})
		return
	}
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := h.reports.WriteTaskReport(&buf, pdf.TaskReportData{
		Title:     "Task report",
		Source:    source,
		Tasks:     tasks,
		CreatedAt: h.now(),
	})
	if errors.Is(err, pdf.ErrFontRequired) {
		log.Printf("[task][report][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": pdf.ErrFontRequired.Error()})
		return
	}
	if err != nil {
		log.Printf("[task][report][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	log.Printf("[task][report][ok] source=%s count=%d bytes=%d", source, len(tasks), buf.Len())
	c.Header("Content-Disposition", `attachment; filename="tasks.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
