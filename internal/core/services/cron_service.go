package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron schedules, standard five-field syntax
const (
	TokenPurgeSchedule = "0 3 * * *" // daily 03:00
	SnapshotSchedule   = "5 0 1 * *" // 00:05 on the 1st
)

const jobTimeout = 2 * time.Minute

// CronService runs the fund's background jobs
type CronService struct {
	cron    *cron.Cron
	auth    *AuthService
	reports *ReportService
}

// NewCronService creates a new cron service
func NewCronService(auth *AuthService, reports *ReportService) *CronService {
	return &CronService{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		auth:    auth,
		reports: reports,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(TokenPurgeSchedule, s.PurgeTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(SnapshotSchedule, s.TakeSnapshot); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// PurgeTokens deletes expired refresh tokens
func (s *CronService) PurgeTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.auth.PurgeExpiredTokens(ctx)
	if err != nil {
		log.Printf("❌ Token purge error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Purged %d expired refresh tokens", n)
	}
}

// TakeSnapshot stores the summary of the month that just closed
func (s *CronService) TakeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, _, err := s.reports.Snapshot(ctx); err != nil {
		log.Printf("❌ Snapshot error: %v", err)
	}
}
