package main

import (
	"flag"
	"log"
	"time"

	"tasksource/internal/app"
	"tasksource/internal/config"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to the YAML config file")
	flag.StringVar(&opts.Mode, "mode", app.ModeGenerate, "serve | generate | fetch | token")
	flag.IntVar(&opts.Count, "count", 10, "number of tasks to generate")
	flag.BoolVar(&opts.Assign, "assign", false, "assign generated tasks to the seed users")
	flag.Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible generation (0 = random)")
	flag.StringVar(&opts.Format, "format", app.FormatText, "text | json | pdf")
	flag.StringVar(&opts.Out, "out", "", "write output to this file instead of stdout")
	flag.DurationVar(&opts.TokenTTL, "token-ttl", 24*time.Hour, "lifetime of tokens issued in token mode")
	flag.Int64Var(&opts.TokenUser, "token-user", 1, "user id embedded in tokens issued in token mode")
	flag.Parse()

	if err := app.Run(opts); err != nil {
		log.Fatalf("tasksource: %v", err)
	}
}
