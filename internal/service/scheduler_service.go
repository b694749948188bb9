package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"study-planner/internal/logger"
)

// defaultJobTimeout bounds a single run of a scheduled job.
const defaultJobTimeout = 5 * time.Minute

// Job is a scheduled unit of work, such as sending the daily digest.
type Job func(ctx context.Context) error

// SchedulerService runs named jobs on a cron clock in the planner's time zone. Panics are
// recovered and a run still in progress makes the next one skip.
type SchedulerService struct {
	cron    *cron.Cron
	log     logger.Logger
	timeout time.Duration
}

func NewSchedulerService(loc *time.Location, log logger.Logger) *SchedulerService {
	cl := cronLogger{log: log}
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: defaultJobTimeout,
	}
}

// ScheduleDaily registers job to run every day at the given HH:MM time.
func (s *SchedulerService) ScheduleDaily(name, timeStr string, job Job) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return 0, errors.Wrapf(err, "schedule %s", name)
	}
	return id, nil
}

// run executes one run of job and logs how it ended.
func (s *SchedulerService) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error(fmt.Sprintf("job %s failed", name), err)
		return
	}
	s.log.Info(fmt.Sprintf("job %s done in %s", name, time.Since(started).Round(time.Millisecond)))
}

// Next returns the next run of the entry, zero if the scheduler is not running.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger sends cron's own messages (recovered panics, skipped runs) to the app logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{err}, keysAndValues...)...)
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", errors.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", errors.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", errors.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
