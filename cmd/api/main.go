package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/config"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	appHTTP "github.com/cmlabs-hris/hris-policy-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/email"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-policy-engine/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-policy-engine/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-policy-engine/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-policy-engine/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/overtime"
	permissionService "github.com/cmlabs-hris/hris-policy-engine/internal/service/permission"
	policyService "github.com/cmlabs-hris/hris-policy-engine/internal/service/policy"
)

// repositories is the storage backend chosen by STORE_DRIVER.
type repositories struct {
	tx           database.Transactor
	employees    employee.EmployeeRepository
	holidays     holiday.HolidayRepository
	policies     policy.PolicyRepository
	attendance   attendance.AttendanceRepository
	leaves       leave.LeaveRequestRepository
	leaveDays    leave.LeaveRequestDayRepository
	leaveStats   leave.LeaveStatisticsRepository
	overtime     overtime.OvertimeRepository
	permissions  permission.PermissionRepository
	notification notification.Repository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	loc := cfg.Location()
	hub := sse.NewHub()
	defer hub.Close()

	notifSvc := notificationService.NewNotificationService(repos.notification, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifSvc.Stop()

	var sink notification.Sink = notifSvc
	if cfg.SMTP.Host != "" {
		mailSink, err := email.NewSink(notifSvc, repos.employees, email.NewSMTPSender(cfg.SMTP))
		if err != nil {
			slog.Error("failed to set up decision emails", "error", err)
			os.Exit(1)
		}
		defer mailSink.Wait()
		sink = mailSink
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	policySvc := policyService.NewPolicyService(repos.policies)
	holidaySvc := holidayService.NewHolidayService(repos.holidays)
	employeeSvc := employeeService.NewEmployeeService(repos.employees)
	overtimeSvc := overtimeService.NewOvertimeService(repos.tx, repos.overtime, repos.employees, repos.attendance, sink)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.attendance, repos.employees, policySvc, overtimeSvc, loc)
	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.leaves, repos.leaveDays, repos.leaveStats, repos.holidays, repos.employees, sink)
	permissionSvc := permissionService.NewPermissionService(repos.tx, repos.permissions, repos.attendance, repos.employees, policySvc, overtimeSvc, sink, loc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, sink, cfg.Cron.AutoCloseInterval, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.Handlers{
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc),
			Overtime:     appHTTP.NewOvertimeHandler(overtimeSvc),
			Permission:   appHTTP.NewPermissionHandler(permissionSvc),
			Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
			Policy:       appHTTP.NewPolicyHandler(policySvc),
			Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
			Notification: appHTTP.NewNotificationHandler(notifSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "store", cfg.Database.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:           store,
			employees:    memory.NewEmployeeRepository(store),
			holidays:     memory.NewHolidayRepository(store),
			policies:     memory.NewPolicyRepository(store),
			attendance:   memory.NewAttendanceRepository(store),
			leaves:       memory.NewLeaveRequestRepository(store),
			leaveDays:    memory.NewLeaveRequestDayRepository(store),
			leaveStats:   memory.NewLeaveStatisticsRepository(store),
			overtime:     memory.NewOvertimeRepository(store),
			permissions:  memory.NewPermissionRepository(store),
			notification: memory.NewNotificationRepository(store),
			close:        func() {},
		}, nil

	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &repositories{
			tx:           postgresql.NewTransactor(db),
			employees:    postgresql.NewEmployeeRepository(db),
			holidays:     postgresql.NewHolidayRepository(db),
			policies:     postgresql.NewPolicyRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			leaves:       postgresql.NewLeaveRequestRepository(db),
			leaveDays:    postgresql.NewLeaveRequestDayRepository(db),
			leaveStats:   postgresql.NewLeaveStatisticsRepository(db),
			overtime:     postgresql.NewOvertimeRepository(db),
			permissions:  postgresql.NewPermissionRepository(db),
			notification: postgresql.NewNotificationRepository(db),
			close:        db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
}
