package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tasksource/internal/config"
	"tasksource/internal/handlers"
	"tasksource/internal/middleware"
	"tasksource/internal/models"
	"tasksource/internal/pdf"
	"tasksource/internal/repositories"
	"tasksource/internal/routes"
	"tasksource/internal/services"
)

const (
	ModeServe    = "serve"
	ModeGenerate = "generate"
	ModeFetch    = "fetch"
	ModeToken    = "token"
)

// Options are the command line choices of one run.
type Options struct {
	ConfigPath string
	Mode       string
	Count      int
	Assign     bool
	Seed       uint64 // 0 means unseeded
	Format     string // text | json | pdf
	Out        string // output file; stdout when empty
	TokenTTL   time.Duration
	TokenUser  int64
}

func Run(opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reports := pdf.NewTaskReportGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	switch opts.Mode {
	case ModeServe:
		return serve(cfg, reports)
	case ModeGenerate:
		req := services.GenerateRequest{Count: opts.Count, Assign: opts.Assign}
		if opts.Seed != 0 {
			req.Seed = &opts.Seed
		}
		tasks, err := services.NewTaskService(nil, nil).Generate(req)
		if err != nil {
			return err
		}
		log.Printf("[app][generate] count=%d assign=%v", len(tasks), opts.Assign)
		return emit(opts, reports, ModeGenerate, tasks)
	case ModeFetch:
		reader, err := repositories.NewTaskReader(cfg.Database)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		tasks, err := services.NewTaskService(reader, nil).FetchAll(ctx)
		if err != nil {
			return err
		}
		return emit(opts, reports, "db", tasks)
	case ModeToken:
		token, err := middleware.IssueToken([]byte(cfg.Auth.JWTSecret), opts.TokenUser, opts.TokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, token)
		return err
	}
	return fmt.Errorf("unknown mode %q", opts.Mode)
}

func emit(opts Options, reports *pdf.TaskReportGenerator, source string, tasks []models.Task) error {
	if opts.Format == FormatPDF && opts.Out != "" {
		file := pdf.NewTaskReportGenerator(filepath.Dir(opts.Out), reports.FontPath)
		name, err := file.GenerateTaskReport(pdf.TaskReportData{
			Title:     "Task report",
			Source:    source,
			Tasks:     tasks,
			CreatedAt: time.Now(),
			Filename:  filepath.Base(opts.Out),
		})
		if err != nil {
			return err
		}
		log.Printf("[app][emit] wrote %s", filepath.Join(file.RootDir, filepath.Base(name)))
		return nil
	}

	var w io.Writer = os.Stdout
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return WriteTasks(w, opts.Format, source, tasks, reports)
}

func serve(cfg *config.Config, reports *pdf.TaskReportGenerator) error {
	var reader repositories.TaskReader
	if err := cfg.Database.Validate(); err != nil {
		log.Printf("[app][serve] database disabled: %v", err)
	} else {
		r, err := repositories.NewTaskReader(cfg.Database)
		if err != nil {
			return err
		}
		reader = r
		log.Printf("[app][serve] reading tasks from %s", cfg.Database.Redacted())
	}

	taskService := services.NewTaskService(reader, time.Now)
	taskHandler := handlers.NewTaskHandler(taskService, reports, cfg.Generator.DefaultCount, cfg.Generator.MaxCount)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, taskHandler, []byte(cfg.Auth.JWTSecret))

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[app][serve] listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
