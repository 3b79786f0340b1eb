package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/config"
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/persistence"
	"github.com/spec-kit/checkpad/internal/repository"
	"github.com/spec-kit/checkpad/internal/service"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// Seeds a demo data set: the hangar crew plus maintenance cases across every
// workflow stage, wired together through assignments.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	broker := syncstream.NewBroker(redis.Client, cfg.Sync.ChannelPrefix, logger)

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo: staffRepo,
		Publisher: broker,
		Metrics:   metrics,
		Logger:    logger,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:       caseRepo,
		AssignmentRepo: assignmentRepo,
		StaffRepo:      staffRepo,
		Publisher:      broker,
		Metrics:        metrics,
		Logger:         logger,
	})

	staffIDs := map[string]string{}
	for _, member := range seedStaff() {
		if _, err := staffService.Create(ctx, &member); err != nil {
			logger.Fatal("seed staff", zap.String("email", member.Email), zap.Error(err))
		}
		staffIDs[member.Email] = member.ID
		logger.Info("seeded staff", zap.String("name", member.FullName()))
	}

	for _, entry := range seedCases() {
		assigned := make([]string, 0, len(entry.staffEmails))
		for _, email := range entry.staffEmails {
			assigned = append(assigned, staffIDs[email])
		}
		if _, err := caseService.Create(ctx, &entry.record, assigned); err != nil {
			logger.Fatal("seed case", zap.String("name", entry.record.Name), zap.Error(err))
		}
		logger.Info("seeded case", zap.String("name", entry.record.Name))
	}

	logger.Info("seed complete")
}

type seedCase struct {
	record      domain.MaintenanceCase
	staffEmails []string
}

func seedStaff() []domain.Staff {
	return []domain.Staff{
		{
			FirstName:         "Julia",
			LastName:          "Hartmann",
			Email:             "julia.hartmann@checkpad.dev",
			Phone:             strPtr("+49 171 5550101"),
			HourlyRate:        floatPtr(48.50),
			VacationDaysTotal: 30,
			IsActive:          true,
		},
		{
			FirstName:         "Marco",
			LastName:          "Richter",
			Email:             "marco.richter@checkpad.dev",
			Phone:             strPtr("+49 171 5550102"),
			HourlyRate:        floatPtr(42.00),
			VacationDaysTotal: 30,
			VacationDaysUsed:  5,
			IsActive:          true,
		},
		{
			FirstName:         "Svenja",
			LastName:          "Vogel",
			Email:             "svenja.vogel@checkpad.dev",
			HourlyRate:        floatPtr(45.75),
			VacationDaysTotal: 28,
			SickDaysUsed:      2,
			IsActive:          true,
		},
		{
			FirstName:         "Anna",
			LastName:          "Lenz",
			Email:             "anna.lenz@checkpad.dev",
			Phone:             strPtr("+49 171 5550104"),
			HourlyRate:        floatPtr(51.25),
			VacationDaysTotal: 30,
			IsActive:          true,
		},
	}
}

func seedCases() []seedCase {
	return []seedCase{
		{
			record: domain.MaintenanceCase{
				Name:             "HVAC quarterly inspection",
				EstimatedHours:   floatPtr(8.0),
				EstimatedCosts:   floatPtr(1200.00),
				PlannedStart:     ts("2025-01-15T08:00:00Z"),
				PlannedEnd:       ts("2025-01-15T17:00:00Z"),
				OfferCreatedBy:   strPtr("julia.hartmann"),
				OfferCreatedAt:   tsPtr("2025-01-05T10:30:00Z"),
				OfferAcceptedAt:  tsPtr("2025-01-07T09:00:00Z"),
				InvoiceCreatedBy: strPtr("finance.bot"),
				InvoiceCreatedAt: tsPtr("2025-01-16T12:00:00Z"),
				InvoicePaidAt:    tsPtr("2025-01-20T12:00:00Z"),
				CreatedAt:        ts("2025-01-05T10:30:00Z"),
				UpdatedAt:        ts("2025-01-20T12:00:00Z"),
			},
			staffEmails: []string{"julia.hartmann@checkpad.dev", "marco.richter@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:             "Generator oil change",
				EstimatedHours:   floatPtr(4.5),
				EstimatedCosts:   floatPtr(650.00),
				PlannedStart:     ts("2025-02-02T07:30:00Z"),
				PlannedEnd:       ts("2025-02-02T12:30:00Z"),
				OfferCreatedBy:   strPtr("marco.richter"),
				OfferCreatedAt:   tsPtr("2025-01-20T09:15:00Z"),
				OfferAcceptedAt:  tsPtr("2025-01-21T15:45:00Z"),
				InvoiceCreatedBy: strPtr("finance.bot"),
				InvoiceCreatedAt: tsPtr("2025-02-03T09:00:00Z"),
				CreatedAt:        ts("2025-01-20T09:15:00Z"),
				UpdatedAt:        ts("2025-02-03T09:00:00Z"),
			},
			staffEmails: []string{"marco.richter@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:           "Roof leak assessment",
				EstimatedHours: floatPtr(6.0),
				EstimatedCosts: floatPtr(1800.00),
				PlannedStart:   ts("2025-02-10T08:00:00Z"),
				PlannedEnd:     ts("2025-02-10T15:00:00Z"),
				OfferCreatedBy: strPtr("svenja.vogel"),
				OfferCreatedAt: tsPtr("2025-01-28T11:00:00Z"),
				CreatedAt:      ts("2025-01-28T11:00:00Z"),
				UpdatedAt:      ts("2025-01-28T11:00:00Z"),
			},
			staffEmails: []string{"svenja.vogel@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:            "Elevator safety check",
				EstimatedHours:  floatPtr(10.0),
				EstimatedCosts:  floatPtr(2400.00),
				PlannedStart:    ts("2025-02-18T07:00:00Z"),
				PlannedEnd:      ts("2025-02-18T18:00:00Z"),
				OfferCreatedBy:  strPtr("anna.lenz"),
				OfferCreatedAt:  tsPtr("2025-02-01T14:20:00Z"),
				OfferAcceptedAt: tsPtr("2025-02-03T08:45:00Z"),
				CreatedAt:       ts("2025-02-01T14:20:00Z"),
				UpdatedAt:       ts("2025-02-03T08:45:00Z"),
			},
			staffEmails: []string{"anna.lenz@checkpad.dev", "svenja.vogel@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:             "Fire alarm panel recertification",
				EstimatedHours:   floatPtr(3.5),
				EstimatedCosts:   floatPtr(950.00),
				PlannedStart:     ts("2025-02-25T09:00:00Z"),
				PlannedEnd:       ts("2025-02-25T12:30:00Z"),
				OfferCreatedBy:   strPtr("julia.hartmann"),
				OfferCreatedAt:   tsPtr("2025-02-05T10:00:00Z"),
				OfferAcceptedAt:  tsPtr("2025-02-06T16:00:00Z"),
				InvoiceCreatedBy: strPtr("finance.bot"),
				InvoiceCreatedAt: tsPtr("2025-02-27T10:30:00Z"),
				CreatedAt:        ts("2025-02-05T10:00:00Z"),
				UpdatedAt:        ts("2025-02-27T10:30:00Z"),
			},
			staffEmails: []string{"julia.hartmann@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:           "Sprinkler system flush",
				EstimatedHours: floatPtr(7.0),
				EstimatedCosts: floatPtr(1350.00),
				PlannedStart:   ts("2025-03-04T08:30:00Z"),
				PlannedEnd:     ts("2025-03-04T16:00:00Z"),
				OfferCreatedBy: strPtr("marco.richter"),
				OfferCreatedAt: tsPtr("2025-02-12T09:45:00Z"),
				CreatedAt:      ts("2025-02-12T09:45:00Z"),
				UpdatedAt:      ts("2025-02-12T09:45:00Z"),
			},
			staffEmails: []string{"marco.richter@checkpad.dev", "anna.lenz@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:            "Parking gate motor replacement",
				EstimatedHours:  floatPtr(12.0),
				EstimatedCosts:  floatPtr(3200.00),
				PlannedStart:    ts("2025-03-12T07:00:00Z"),
				PlannedEnd:      ts("2025-03-13T16:00:00Z"),
				OfferCreatedBy:  strPtr("svenja.vogel"),
				OfferCreatedAt:  tsPtr("2025-02-18T13:10:00Z"),
				OfferAcceptedAt: tsPtr("2025-02-20T09:25:00Z"),
				CreatedAt:       ts("2025-02-18T13:10:00Z"),
				UpdatedAt:       ts("2025-02-20T09:25:00Z"),
			},
			staffEmails: []string{"svenja.vogel@checkpad.dev"},
		},
		{
			record: domain.MaintenanceCase{
				Name:             "Chiller compressor diagnostics",
				EstimatedHours:   floatPtr(5.0),
				EstimatedCosts:   floatPtr(2100.00),
				PlannedStart:     ts("2025-03-20T08:00:00Z"),
				PlannedEnd:       ts("2025-03-20T14:00:00Z"),
				OfferCreatedBy:   strPtr("anna.lenz"),
				OfferCreatedAt:   tsPtr("2025-02-22T15:00:00Z"),
				OfferAcceptedAt:  tsPtr("2025-02-23T11:30:00Z"),
				InvoiceCreatedBy: strPtr("finance.bot"),
				InvoiceCreatedAt: tsPtr("2025-03-21T10:00:00Z"),
				InvoicePaidAt:    tsPtr("2025-03-28T10:00:00Z"),
				CreatedAt:        ts("2025-02-22T15:00:00Z"),
				UpdatedAt:        ts("2025-03-28T10:00:00Z"),
			},
			staffEmails: []string{"anna.lenz@checkpad.dev", "julia.hartmann@checkpad.dev"},
		},
	}
}

func ts(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		log.Fatalf("invalid seed timestamp %q: %v", value, err)
	}
	return parsed
}

func tsPtr(value string) *time.Time {
	parsed := ts(value)
	return &parsed
}

func strPtr(value string) *string {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
