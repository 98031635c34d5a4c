package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"chama-backend/internal/domain/group"
	"chama-backend/internal/usecase/penalty"
)

// Sweeper runs the late-contribution penalty sweep over every group on a
// cron schedule. Each group is swept independently; one group failing never
// stops the run.
type Sweeper struct {
	groups  group.Repository
	penalty *penalty.Usecase
	log     *logrus.Logger
	cron    *cron.Cron
	spec    string
}

// New builds a sweeper. spec is a standard 5-field cron expression; the
// daily default covers groups whose due day just passed.
func New(groups group.Repository, uc *penalty.Usecase, spec string, log *logrus.Logger) *Sweeper {
	if spec == "" {
		spec = "0 6 * * *"
	}
	if log == nil {
		log = logrus.New()
	}
	return &Sweeper{groups: groups, penalty: uc, log: log, cron: cron.New(), spec: spec}
}

// Start registers the job and begins the schedule.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("penalty sweeper scheduled")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	s.RunAll(ctx)
}

// RunAll sweeps every group once. Exported so an operator endpoint or test
// can trigger a full pass without waiting on the schedule.
func (s *Sweeper) RunAll(ctx context.Context) {
	ids, err := s.groups.ListGroupIDs(ctx)
	if err != nil {
		s.log.WithError(err).Error("sweep aborted, cannot list groups")
		return
	}

	var applied int
	for _, gid := range ids {
		res, err := s.penalty.Sweep(ctx, gid)
		if err != nil {
			s.log.WithError(err).WithField("group_id", gid).Error("group sweep failed")
			continue
		}
		applied += res.PenaltiesApplied
		for _, se := range res.Errors {
			s.log.WithFields(logrus.Fields{
				"group_id": gid,
				"user_id":  se.UserID,
				"reason":   se.Reason,
			}).Warn("member sweep failed")
		}
	}
	s.log.WithFields(logrus.Fields{
		"groups":  len(ids),
		"applied": applied,
	}).Info("penalty sweep pass complete")
}
