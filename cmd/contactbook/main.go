package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"contactbook/internal/audit"
	"contactbook/internal/contacts/book"
	"contactbook/internal/contacts/metrics"
	"contactbook/internal/contacts/service"
	"contactbook/internal/platform/config"
	"contactbook/internal/platform/logger"
)

// main wires the contacts service and runs a scripted walk through it. The
// book lives only for the life of the process.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	events := make(chan audit.Event, 64)
	auditStore := audit.NewInMemoryStore()
	worker := audit.NewWorker(auditStore, events)
	workerDone := make(chan error, 1)
	go func() { workerDone <- worker.Run(ctx) }()

	svc := service.New(book.New(),
		service.WithLogger(log),
		service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		service.WithAuditPublisher(audit.NewQueuePublisher(events)),
		service.WithMatching(cfg.PhoneMatching),
		service.WithRollover(cfg.Rollover),
		service.WithPageSize(cfg.PageSize),
	)

	if err := run(ctx, svc, os.Stdout); err != nil {
		log.Error("demo failed", "error", err)
		os.Exit(1)
	}

	close(events)
	select {
	case err := <-workerDone:
		if err != nil {
			log.Warn("audit worker stopped", "error", err)
		}
	case <-time.After(5 * time.Second):
		log.Warn("audit worker did not drain in time")
	}
	all, _ := auditStore.ListAll(context.Background())
	log.Info("audit trail recorded", "events", len(all))
}

func run(ctx context.Context, svc *service.Service, out io.Writer) error {
	john, err := svc.CreateContact(ctx, "John", "", "")
	if err != nil {
		return err
	}
	for _, p := range []string{"1234567890", "5555555555"} {
		if _, err := svc.AddPhone(ctx, john.Name(), p); err != nil {
			return err
		}
	}
	if _, err := svc.CreateContact(ctx, "Jane", "9876543210", ""); err != nil {
		return err
	}
	if _, err := svc.CreateContact(ctx, "Bill", "7234592343", ""); err != nil {
		return err
	}
	if _, err := svc.CreateContact(ctx, "Dow", "", ""); err != nil {
		return err
	}

	for cursor := (book.Cursor{}); ; {
		page, err := svc.Page(ctx, cursor, 0)
		if err != nil {
			return err
		}
		for _, line := range page.Items {
			fmt.Fprintln(out, line)
		}
		if page.Done {
			break
		}
		cursor = page.Next
	}

	msg, err := svc.EditPhone(ctx, "John", "1234567890", "1112223333")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)

	phone, found, err := svc.FindPhone(ctx, "John", "5555555555")
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(out, "John: %s\n", phone)
	}

	for name, date := range map[string]string{"John": "1993-12-01", "Jane": "2004-09-11"} {
		if err := svc.SetBirthday(ctx, name, date); err != nil {
			return err
		}
	}
	for _, name := range []string{"John", "Jane", "Dow"} {
		c, err := svc.DaysToBirthday(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", name, c)
	}

	if _, ok := svc.Delete(ctx, "Jane"); ok {
		fmt.Fprintln(out, "Deleted contact Jane")
	}
	return nil
}
